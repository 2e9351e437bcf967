package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/agencydesk/agency-api/internal/models"
)

// ActivityRepository manages persistence for client activity entries.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository constructs an ActivityRepository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// ListByClient returns activity entries for a client, newest first.
func (r *ActivityRepository) ListByClient(ctx context.Context, clientID string, limit int) ([]models.ActivityEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT id, client_id, type, description, created_at FROM activity_entries WHERE client_id = $1 ORDER BY created_at DESC LIMIT %d`, limit)
	var entries []models.ActivityEntry
	if err := r.db.SelectContext(ctx, &entries, query, clientID); err != nil {
		return nil, fmt.Errorf("list activity by client: %w", err)
	}
	return entries, nil
}

// ListAll returns every activity entry. Used by the scoring snapshot
// loaders, which only read timestamps.
func (r *ActivityRepository) ListAll(ctx context.Context) ([]models.ActivityEntry, error) {
	const query = `SELECT id, client_id, type, description, created_at FROM activity_entries ORDER BY created_at DESC`
	var entries []models.ActivityEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list all activity: %w", err)
	}
	return entries, nil
}

// Create inserts a new activity entry.
func (r *ActivityRepository) Create(ctx context.Context, entry *models.ActivityEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO activity_entries (id, client_id, type, description, created_at) VALUES (:id, :client_id, :type, :description, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create activity entry: %w", err)
	}
	return nil
}
