package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/agencydesk/agency-api/internal/dto"
	"github.com/agencydesk/agency-api/internal/models"
	appErrors "github.com/agencydesk/agency-api/pkg/errors"
)

type financeClientRepository interface {
	ListAll(ctx context.Context) ([]models.Client, error)
}

type financeCostRepository interface {
	ListByMonth(ctx context.Context, yearMonth string) ([]models.OperationalCost, error)
	Create(ctx context.Context, cost *models.OperationalCost) error
	Delete(ctx context.Context, id string) error
}

type financeUserRepository interface {
	ListActive(ctx context.Context) ([]models.User, error)
}

type financeHourRepository interface {
	SumSince(ctx context.Context, date string) (float64, error)
}

type settingsRepository interface {
	Get(ctx context.Context) (*models.WorkspaceSettings, error)
	Upsert(ctx context.Context, settings *models.WorkspaceSettings) error
}

// FinanceService aggregates revenue, costs and team capacity.
type FinanceService struct {
	clients     financeClientRepository
	costs       financeCostRepository
	users       financeUserRepository
	hours       financeHourRepository
	settings    settingsRepository
	defaultRate float64
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// FinanceServiceParams groups constructor dependencies.
type FinanceServiceParams struct {
	Clients     financeClientRepository
	Costs       financeCostRepository
	Users       financeUserRepository
	Hours       financeHourRepository
	Settings    settingsRepository
	DefaultRate float64
	Validator   *validator.Validate
	Logger      *zap.Logger
}

// NewFinanceService constructs a FinanceService.
func NewFinanceService(params FinanceServiceParams) *FinanceService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	return &FinanceService{
		clients:     params.Clients,
		costs:       params.Costs,
		users:       params.Users,
		hours:       params.Hours,
		settings:    params.Settings,
		defaultRate: params.DefaultRate,
		validator:   validate,
		logger:      logger,
		now:         time.Now,
	}
}

// Summary aggregates revenue from active fixed contracts against the
// operational costs of the given YYYY-MM month. An empty month defaults
// to the current one.
func (s *FinanceService) Summary(ctx context.Context, month string) (*dto.FinanceSummaryResponse, error) {
	if month != "" && !yearMonthPattern.MatchString(month) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "month must be formatted as YYYY-MM")
	}
	if month == "" {
		month = s.now().Format("2006-01")
	}

	clients, err := s.clients.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load clients")
	}
	costs, err := s.costs.ListByMonth(ctx, month)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load costs")
	}

	summary := &dto.FinanceSummaryResponse{Month: month}
	for _, client := range clients {
		if client.Status != models.ClientActive {
			continue
		}
		summary.ActiveClients++
		if client.MonthlyValue != nil {
			summary.TotalRevenue += *client.MonthlyValue
		}
	}
	for _, cost := range costs {
		summary.TotalCosts += cost.Amount
	}
	summary.NetProfit = summary.TotalRevenue - summary.TotalCosts
	return summary, nil
}

// Capacity compares the planned weekly client load against the team's
// weekly capacity, along with hours actually logged this week.
func (s *FinanceService) Capacity(ctx context.Context) (*dto.CapacityOverviewResponse, error) {
	users, err := s.users.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load users")
	}
	clients, err := s.clients.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load clients")
	}

	overview := &dto.CapacityOverviewResponse{Members: make([]dto.CapacityMember, 0, len(users))}
	for _, user := range users {
		overview.WeeklyCapacityHours += user.WeeklyCapacityHours
		overview.Members = append(overview.Members, dto.CapacityMember{
			UserID:              user.ID,
			FullName:            user.FullName,
			WeeklyCapacityHours: user.WeeklyCapacityHours,
		})
	}
	for _, client := range clients {
		if client.Status != models.ClientActive || client.WeeklyPlannedHours == nil {
			continue
		}
		overview.WeeklyPlannedHours += *client.WeeklyPlannedHours
	}

	logged, err := s.hours.SumSince(ctx, startOfWeek(s.now()).Format("2006-01-02"))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sum logged hours")
	}
	overview.LoggedHoursThisWeek = logged

	if overview.WeeklyCapacityHours > 0 {
		overview.UtilizationPercent = overview.WeeklyPlannedHours / overview.WeeklyCapacityHours * 100
	}
	overview.Overloaded = overview.WeeklyPlannedHours > overview.WeeklyCapacityHours
	return overview, nil
}

// ListCosts returns the operational costs relevant to the given month.
func (s *FinanceService) ListCosts(ctx context.Context, month string) ([]models.OperationalCost, error) {
	if month != "" && !yearMonthPattern.MatchString(month) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "month must be formatted as YYYY-MM")
	}
	if month == "" {
		month = s.now().Format("2006-01")
	}
	costs, err := s.costs.ListByMonth(ctx, month)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load costs")
	}
	return costs, nil
}

// CreateCost records a new operational cost.
func (s *FinanceService) CreateCost(ctx context.Context, req models.CreateCostRequest) (*models.OperationalCost, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid cost payload")
	}
	cost := &models.OperationalCost{
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        req.Date,
		Recurring:   req.Recurring,
	}
	if err := s.costs.Create(ctx, cost); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create cost")
	}
	return cost, nil
}

// DeleteCost removes an operational cost.
func (s *FinanceService) DeleteCost(ctx context.Context, id string) error {
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "cost id is required")
	}
	if err := s.costs.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete cost")
	}
	return nil
}

// Settings returns the workspace settings, falling back to the
// configured default hourly rate when none are stored yet.
func (s *FinanceService) Settings(ctx context.Context) (*models.WorkspaceSettings, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.WorkspaceSettings{HourlyRate: s.defaultRate}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings")
	}
	return settings, nil
}

// UpdateSettings adjusts the workspace settings.
func (s *FinanceService) UpdateSettings(ctx context.Context, req models.UpdateSettingsRequest) (*models.WorkspaceSettings, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload")
	}
	current, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	if req.HourlyRate != nil {
		current.HourlyRate = *req.HourlyRate
	}
	if err := s.settings.Upsert(ctx, current); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save settings")
	}
	return current, nil
}

// startOfWeek returns midnight UTC of the Monday of the given week.
func startOfWeek(t time.Time) time.Time {
	t = t.UTC()
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -(weekday - 1))
}
