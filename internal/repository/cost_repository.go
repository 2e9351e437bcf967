package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/agencydesk/agency-api/internal/models"
)

// CostRepository manages persistence for operational costs.
type CostRepository struct {
	db *sqlx.DB
}

// NewCostRepository constructs a CostRepository.
func NewCostRepository(db *sqlx.DB) *CostRepository {
	return &CostRepository{db: db}
}

// ListByMonth returns costs dated in the given YYYY-MM month plus all
// recurring costs regardless of their original date.
func (r *CostRepository) ListByMonth(ctx context.Context, yearMonth string) ([]models.OperationalCost, error) {
	const query = `SELECT id, description, amount, category, date, recurring, created_at FROM operational_costs WHERE date LIKE $1 OR recurring = TRUE ORDER BY date DESC`
	var costs []models.OperationalCost
	if err := r.db.SelectContext(ctx, &costs, query, yearMonth+"%"); err != nil {
		return nil, fmt.Errorf("list costs by month: %w", err)
	}
	return costs, nil
}

// ListAll returns every operational cost, newest first.
func (r *CostRepository) ListAll(ctx context.Context) ([]models.OperationalCost, error) {
	const query = `SELECT id, description, amount, category, date, recurring, created_at FROM operational_costs ORDER BY date DESC`
	var costs []models.OperationalCost
	if err := r.db.SelectContext(ctx, &costs, query); err != nil {
		return nil, fmt.Errorf("list all costs: %w", err)
	}
	return costs, nil
}

// Create inserts a new operational cost.
func (r *CostRepository) Create(ctx context.Context, cost *models.OperationalCost) error {
	if cost.ID == "" {
		cost.ID = uuid.NewString()
	}
	if cost.CreatedAt.IsZero() {
		cost.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO operational_costs (id, description, amount, category, date, recurring, created_at) VALUES (:id, :description, :amount, :category, :date, :recurring, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, cost); err != nil {
		return fmt.Errorf("create cost: %w", err)
	}
	return nil
}

// Delete removes an operational cost permanently.
func (r *CostRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM operational_costs WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete cost: %w", err)
	}
	return nil
}
