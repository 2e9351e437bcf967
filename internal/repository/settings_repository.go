package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/agencydesk/agency-api/internal/models"
)

// SettingsRepository manages the single workspace settings row.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository constructs a SettingsRepository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the workspace settings. sql.ErrNoRows is passed through so
// callers can fall back to configured defaults.
func (r *SettingsRepository) Get(ctx context.Context) (*models.WorkspaceSettings, error) {
	const query = `SELECT hourly_rate, updated_at FROM workspace_settings LIMIT 1`
	var settings models.WorkspaceSettings
	if err := r.db.GetContext(ctx, &settings, query); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get workspace settings: %w", err)
	}
	return &settings, nil
}

// Upsert writes the workspace settings row, creating it on first use.
func (r *SettingsRepository) Upsert(ctx context.Context, settings *models.WorkspaceSettings) error {
	settings.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO workspace_settings (singleton, hourly_rate, updated_at) VALUES (TRUE, $1, $2)
        ON CONFLICT (singleton) DO UPDATE SET hourly_rate = EXCLUDED.hourly_rate, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, settings.HourlyRate, settings.UpdatedAt); err != nil {
		return fmt.Errorf("upsert workspace settings: %w", err)
	}
	return nil
}
