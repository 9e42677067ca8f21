package repository

import (
	"context"
	"errors"

	"anchor_crm_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("lead not found")
	// ErrConflict means the lead changed between read and write. The first
	// writer won; the caller should reread and retry or surface the conflict.
	ErrConflict = errors.New("lead modified concurrently")
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leadColumns = `id, name, kind, status, assigned_to, created_by, anchor_id, deal_value, product, phone, created_at, updated_at`

type CreateLeadParams struct {
	Name       string
	Kind       domain.Kind
	Status     domain.Status
	AssignedTo *uuid.UUID
	CreatedBy  *uuid.UUID
	AnchorID   *uuid.UUID
	DealValue  float64
	Product    string
	Phone      string
}

type UpdateLeadParams struct {
	Name      *string
	DealValue *float64
	Product   *string
	Phone     *string
	AnchorID  *uuid.UUID
	// AnchorIDSet distinguishes "leave unchanged" from "clear anchor".
	AnchorIDSet bool
}

// TransitionParams is the conditional write for one status change. Expected*
// fields are the values the caller read before computing the transition.
type TransitionParams struct {
	ID                 uuid.UUID
	ExpectedStatus     domain.Status
	ExpectedAssignedTo *uuid.UUID
	NewStatus          domain.Status
	NewAssignedTo      *uuid.UUID
}

func (r *Repository) ListLeads(ctx context.Context) ([]domain.Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		ORDER BY created_at DESC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLeads(rows)
}

func (r *Repository) ListLeadsByKind(ctx context.Context, kind domain.Kind) ([]domain.Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE kind = $1
		ORDER BY created_at DESC, id ASC
	`, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLeads(rows)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE id = $1
	`, id)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (name, kind, status, assigned_to, created_by, anchor_id, deal_value, product, phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+leadColumns+`
	`, params.Name, string(params.Kind), string(params.Status), params.AssignedTo,
		params.CreatedBy, params.AnchorID, params.DealValue, params.Product, params.Phone)

	return scanLead(row)
}

func (r *Repository) UpdateDetails(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (domain.Lead, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return domain.Lead{}, err
	}

	if params.Name != nil {
		current.Name = *params.Name
	}
	if params.DealValue != nil {
		current.DealValue = *params.DealValue
	}
	if params.Product != nil {
		current.Product = *params.Product
	}
	if params.Phone != nil {
		current.Phone = *params.Phone
	}
	if params.AnchorIDSet {
		current.AnchorID = params.AnchorID
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE leads
		SET name = $2, deal_value = $3, product = $4, phone = $5, anchor_id = $6, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns+`
	`, id, current.Name, current.DealValue, current.Product, current.Phone, current.AnchorID)

	updated, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return updated, err
}

// ApplyTransition writes the new status and assignee only if the row still
// matches what the caller read. Concurrent writers race on this condition;
// exactly one wins, the rest get ErrConflict.
func (r *Repository) ApplyTransition(ctx context.Context, params TransitionParams) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads
		SET status = $4, assigned_to = $5, updated_at = now()
		WHERE id = $1
		  AND status = $2
		  AND assigned_to IS NOT DISTINCT FROM $3
		RETURNING `+leadColumns+`
	`, params.ID, string(params.ExpectedStatus), params.ExpectedAssignedTo,
		string(params.NewStatus), params.NewAssignedTo)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		// Distinguish a missing lead from a lost race.
		if _, getErr := r.GetByID(ctx, params.ID); errors.Is(getErr, ErrNotFound) {
			return domain.Lead{}, ErrNotFound
		}
		return domain.Lead{}, ErrConflict
	}
	return lead, err
}

func (r *Repository) AddDocument(ctx context.Context, doc domain.Document) (domain.Document, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO lead_documents (lead_id, object_key, file_name, content_type, size_bytes, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, lead_id, object_key, file_name, content_type, size_bytes, uploaded_by, created_at
	`, doc.LeadID, doc.ObjectKey, doc.FileName, doc.ContentType, doc.SizeBytes, doc.UploadedBy)

	var out domain.Document
	err := row.Scan(&out.ID, &out.LeadID, &out.ObjectKey, &out.FileName, &out.ContentType, &out.SizeBytes, &out.UploadedBy, &out.CreatedAt)
	return out, err
}

func (r *Repository) ListDocuments(ctx context.Context, leadID uuid.UUID) ([]domain.Document, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, object_key, file_name, content_type, size_bytes, uploaded_by, created_at
		FROM lead_documents
		WHERE lead_id = $1
		ORDER BY created_at ASC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]domain.Document, 0)
	for rows.Next() {
		var d domain.Document
		if err := rows.Scan(&d.ID, &d.LeadID, &d.ObjectKey, &d.FileName, &d.ContentType, &d.SizeBytes, &d.UploadedBy, &d.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func collectLeads(rows pgx.Rows) ([]domain.Lead, error) {
	leads := make([]domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func scanLead(row pgx.Row) (domain.Lead, error) {
	var (
		lead         domain.Lead
		kind, status string
	)
	err := row.Scan(&lead.ID, &lead.Name, &kind, &status, &lead.AssignedTo, &lead.CreatedBy,
		&lead.AnchorID, &lead.DealValue, &lead.Product, &lead.Phone, &lead.CreatedAt, &lead.UpdatedAt)
	if err != nil {
		return domain.Lead{}, err
	}
	lead.Kind = domain.Kind(kind)
	lead.Status = domain.Status(status)
	return lead, nil
}
