package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/agencydesk/agency-api/internal/models"
)

// ClientRepository manages persistence for client records.
type ClientRepository struct {
	db *sqlx.DB
}

// NewClientRepository constructs a ClientRepository.
func NewClientRepository(db *sqlx.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientColumns = `id, name, email, phone, service, monthly_value, contract_type, start_date, status, notes, weekly_planned_hours, portal_hash, portal_active, portal_last_access, created_at, updated_at`

// List returns clients matching the provided filters with total count.
func (r *ClientRepository) List(ctx context.Context, filter models.ClientFilter) ([]models.Client, int, error) {
	baseQuery := `FROM clients WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Service != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(service) = $%d", len(args)+1))
		args = append(args, strings.ToLower(filter.Service))
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"name":          true,
		"monthly_value": true,
		"start_date":    true,
		"created_at":    true,
	}
	if sortBy == "" || !allowedSorts[sortBy] {
		sortBy = "created_at"
	}
	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", clientColumns, baseQuery, sortBy, sortOrder, pageSize, offset)

	var clients []models.Client
	if err := r.db.SelectContext(ctx, &clients, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}

	return clients, total, nil
}

// ListAll returns every client without pagination, ordered by name. Used by
// the scoring snapshot loaders.
func (r *ClientRepository) ListAll(ctx context.Context) ([]models.Client, error) {
	query := fmt.Sprintf("SELECT %s FROM clients ORDER BY name ASC", clientColumns)
	var clients []models.Client
	if err := r.db.SelectContext(ctx, &clients, query); err != nil {
		return nil, fmt.Errorf("list all clients: %w", err)
	}
	return clients, nil
}

// FindByID fetches a client by identifier.
func (r *ClientRepository) FindByID(ctx context.Context, id string) (*models.Client, error) {
	query := fmt.Sprintf("SELECT %s FROM clients WHERE id = $1 LIMIT 1", clientColumns)
	var client models.Client
	if err := r.db.GetContext(ctx, &client, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find client by id: %w", err)
	}
	return &client, nil
}

// Create inserts a new client record.
func (r *ClientRepository) Create(ctx context.Context, client *models.Client) error {
	if client.ID == "" {
		client.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if client.CreatedAt.IsZero() {
		client.CreatedAt = now
	}
	client.UpdatedAt = now
	const query = `INSERT INTO clients (id, name, email, phone, service, monthly_value, contract_type, start_date, status, notes, weekly_planned_hours, portal_hash, portal_active, portal_last_access, created_at, updated_at)
        VALUES (:id, :name, :email, :phone, :service, :monthly_value, :contract_type, :start_date, :status, :notes, :weekly_planned_hours, :portal_hash, :portal_active, :portal_last_access, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, client); err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

// Update modifies an existing client.
func (r *ClientRepository) Update(ctx context.Context, client *models.Client) error {
	client.UpdatedAt = time.Now().UTC()
	const query = `UPDATE clients SET name = :name, email = :email, phone = :phone, service = :service, monthly_value = :monthly_value, contract_type = :contract_type, start_date = :start_date, status = :status, notes = :notes, weekly_planned_hours = :weekly_planned_hours, portal_hash = :portal_hash, portal_active = :portal_active, portal_last_access = :portal_last_access, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, client); err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

// Delete removes a client permanently.
func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM clients WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}
