package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/agencydesk/agency-api/internal/models"
)

// HourEntryRepository manages persistence for logged hours.
type HourEntryRepository struct {
	db *sqlx.DB
}

// NewHourEntryRepository constructs an HourEntryRepository.
func NewHourEntryRepository(db *sqlx.DB) *HourEntryRepository {
	return &HourEntryRepository{db: db}
}

// ListByClient returns all hour entries for a client, newest first.
func (r *HourEntryRepository) ListByClient(ctx context.Context, clientID string) ([]models.HourEntry, error) {
	const query = `SELECT id, client_id, hours, date, description, created_at FROM hour_entries WHERE client_id = $1 ORDER BY date DESC`
	var entries []models.HourEntry
	if err := r.db.SelectContext(ctx, &entries, query, clientID); err != nil {
		return nil, fmt.Errorf("list hours by client: %w", err)
	}
	return entries, nil
}

// ListByMonth returns all hour entries whose date falls in the given
// YYYY-MM month.
func (r *HourEntryRepository) ListByMonth(ctx context.Context, yearMonth string) ([]models.HourEntry, error) {
	const query = `SELECT id, client_id, hours, date, description, created_at FROM hour_entries WHERE date LIKE $1 ORDER BY date DESC`
	var entries []models.HourEntry
	if err := r.db.SelectContext(ctx, &entries, query, yearMonth+"%"); err != nil {
		return nil, fmt.Errorf("list hours by month: %w", err)
	}
	return entries, nil
}

// SumSince returns the total hours logged on or after the given date
// (YYYY-MM-DD). Dates are zero-padded so string comparison orders them.
func (r *HourEntryRepository) SumSince(ctx context.Context, date string) (float64, error) {
	const query = `SELECT COALESCE(SUM(hours), 0) FROM hour_entries WHERE date >= $1`
	var total float64
	if err := r.db.GetContext(ctx, &total, query, date); err != nil {
		return 0, fmt.Errorf("sum hours since: %w", err)
	}
	return total, nil
}

// Create inserts a new hour entry.
func (r *HourEntryRepository) Create(ctx context.Context, entry *models.HourEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO hour_entries (id, client_id, hours, date, description, created_at) VALUES (:id, :client_id, :hours, :date, :description, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create hour entry: %w", err)
	}
	return nil
}

// Delete removes an hour entry permanently.
func (r *HourEntryRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM hour_entries WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete hour entry: %w", err)
	}
	return nil
}
