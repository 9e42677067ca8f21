package repository

import (
	"context"
	"time"

	activitydomain "anchor_crm_backend/internal/activity/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EntryStore is the data access interface consumers depend on. The log is
// append-only; there is no update or delete.
type EntryStore interface {
	Append(ctx context.Context, entry activitydomain.Entry) (activitydomain.Entry, error)
	ListEntries(ctx context.Context) ([]activitydomain.Entry, error)
	ListSince(ctx context.Context, since time.Time) ([]activitydomain.Entry, error)
	ListByLead(ctx context.Context, leadID uuid.UUID) ([]activitydomain.Entry, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const entryColumns = `id, user_id, lead_id, action, note, created_at`

func (r *Repository) Append(ctx context.Context, entry activitydomain.Entry) (activitydomain.Entry, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO activity_log (user_id, lead_id, action, note)
		VALUES ($1, $2, $3, $4)
		RETURNING `+entryColumns+`
	`, entry.UserID, entry.LeadID, entry.Action, entry.Note)

	return scanEntry(row)
}

func (r *Repository) ListEntries(ctx context.Context) ([]activitydomain.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+`
		FROM activity_log
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

func (r *Repository) ListSince(ctx context.Context, since time.Time) ([]activitydomain.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+`
		FROM activity_log
		WHERE created_at >= $1
		ORDER BY created_at DESC
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

func (r *Repository) ListByLead(ctx context.Context, leadID uuid.UUID) ([]activitydomain.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+`
		FROM activity_log
		WHERE lead_id = $1
		ORDER BY created_at DESC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

func collectEntries(rows pgx.Rows) ([]activitydomain.Entry, error) {
	entries := make([]activitydomain.Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanEntry(row pgx.Row) (activitydomain.Entry, error) {
	var e activitydomain.Entry
	err := row.Scan(&e.ID, &e.UserID, &e.LeadID, &e.Action, &e.Note, &e.CreatedAt)
	return e, err
}
