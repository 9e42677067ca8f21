package repository

import (
	"context"
	"encoding/json"
	"errors"

	leaddomain "anchor_crm_backend/internal/leads/domain"
	"anchor_crm_backend/internal/reports/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("dashboard config not found")

// ConfigStore persists per-user dashboard configurations.
type ConfigStore interface {
	GetConfig(ctx context.Context, userID uuid.UUID) (domain.DashboardConfig, error)
	UpsertConfig(ctx context.Context, cfg domain.DashboardConfig) (domain.DashboardConfig, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// configRecord is the jsonb wire shape of a saved config.
type configRecord struct {
	SelectedAnchorIDs []uuid.UUID                               `json:"selectedAnchorIds"`
	StatusToTrack     []string                                  `json:"statusToTrack"`
	Targets           map[uuid.UUID]map[string]domain.TargetSet `json:"targets"`
}

func (r *Repository) GetConfig(ctx context.Context, userID uuid.UUID) (domain.DashboardConfig, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT config
		FROM dashboard_configs
		WHERE user_id = $1
	`, userID)

	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DashboardConfig{}, ErrNotFound
		}
		return domain.DashboardConfig{}, err
	}

	var record configRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return domain.DashboardConfig{}, err
	}

	return toDomain(userID, record), nil
}

func (r *Repository) UpsertConfig(ctx context.Context, cfg domain.DashboardConfig) (domain.DashboardConfig, error) {
	record := configRecord{
		SelectedAnchorIDs: cfg.SelectedAnchorIDs,
		Targets:           cfg.Targets,
	}
	for _, s := range cfg.StatusToTrack {
		record.StatusToTrack = append(record.StatusToTrack, string(s))
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return domain.DashboardConfig{}, err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO dashboard_configs (user_id, config)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET config = EXCLUDED.config, updated_at = now()
	`, cfg.UserID, raw)
	if err != nil {
		return domain.DashboardConfig{}, err
	}

	return cfg, nil
}

func toDomain(userID uuid.UUID, record configRecord) domain.DashboardConfig {
	cfg := domain.DashboardConfig{
		UserID:            userID,
		SelectedAnchorIDs: record.SelectedAnchorIDs,
		Targets:           record.Targets,
	}
	for _, s := range record.StatusToTrack {
		cfg.StatusToTrack = append(cfg.StatusToTrack, leaddomain.Status(s))
	}
	return cfg
}
