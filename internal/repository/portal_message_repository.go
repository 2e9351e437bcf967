package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/agencydesk/agency-api/internal/models"
)

// PortalMessageRepository manages persistence for portal messages.
type PortalMessageRepository struct {
	db *sqlx.DB
}

// NewPortalMessageRepository constructs a PortalMessageRepository.
func NewPortalMessageRepository(db *sqlx.DB) *PortalMessageRepository {
	return &PortalMessageRepository{db: db}
}

// ListByClient returns all messages exchanged with a client, oldest first.
func (r *PortalMessageRepository) ListByClient(ctx context.Context, clientID string) ([]models.PortalMessage, error) {
	const query = `SELECT id, client_id, body, from_client, read, created_at FROM portal_messages WHERE client_id = $1 ORDER BY created_at ASC`
	var messages []models.PortalMessage
	if err := r.db.SelectContext(ctx, &messages, query, clientID); err != nil {
		return nil, fmt.Errorf("list portal messages by client: %w", err)
	}
	return messages, nil
}

// ListUnreadFromClients returns client-sent messages that staff has not
// read yet. Feeds the alert aggregator snapshot.
func (r *PortalMessageRepository) ListUnreadFromClients(ctx context.Context) ([]models.PortalMessage, error) {
	const query = `SELECT id, client_id, body, from_client, read, created_at FROM portal_messages WHERE from_client = TRUE AND read = FALSE ORDER BY created_at ASC`
	var messages []models.PortalMessage
	if err := r.db.SelectContext(ctx, &messages, query); err != nil {
		return nil, fmt.Errorf("list unread portal messages: %w", err)
	}
	return messages, nil
}

// Create inserts a new portal message.
func (r *PortalMessageRepository) Create(ctx context.Context, message *models.PortalMessage) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO portal_messages (id, client_id, body, from_client, read, created_at) VALUES (:id, :client_id, :body, :from_client, :read, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, message); err != nil {
		return fmt.Errorf("create portal message: %w", err)
	}
	return nil
}

// MarkReadByClient marks all client-sent messages of a client as read.
func (r *PortalMessageRepository) MarkReadByClient(ctx context.Context, clientID string) error {
	const query = `UPDATE portal_messages SET read = TRUE WHERE client_id = $1 AND from_client = TRUE AND read = FALSE`
	if _, err := r.db.ExecContext(ctx, query, clientID); err != nil {
		return fmt.Errorf("mark portal messages read: %w", err)
	}
	return nil
}
