package service

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/agencydesk/agency-api/internal/dto"
	"github.com/agencydesk/agency-api/internal/models"
	"github.com/agencydesk/agency-api/internal/scoring"
	appErrors "github.com/agencydesk/agency-api/pkg/errors"
)

type profitabilityClientRepository interface {
	ListAll(ctx context.Context) ([]models.Client, error)
	FindByID(ctx context.Context, id string) (*models.Client, error)
}

type profitabilityHourRepository interface {
	ListByClient(ctx context.Context, clientID string) ([]models.HourEntry, error)
	ListByMonth(ctx context.Context, yearMonth string) ([]models.HourEntry, error)
}

type hourlyRateProvider interface {
	Get(ctx context.Context) (*models.WorkspaceSettings, error)
}

var yearMonthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// ProfitabilityService computes per-client and workspace-wide margin
// figures for a calendar month.
type ProfitabilityService struct {
	clients     profitabilityClientRepository
	hours       profitabilityHourRepository
	settings    hourlyRateProvider
	defaultRate float64
	logger      *zap.Logger
	now         func() time.Time
}

// NewProfitabilityService constructs a ProfitabilityService.
func NewProfitabilityService(clients profitabilityClientRepository, hours profitabilityHourRepository, settings hourlyRateProvider, defaultRate float64, logger *zap.Logger) *ProfitabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfitabilityService{
		clients:     clients,
		hours:       hours,
		settings:    settings,
		defaultRate: defaultRate,
		logger:      logger,
		now:         time.Now,
	}
}

// ClientProfitability computes the margin for one client in the given
// YYYY-MM month. An empty month defaults to the current one.
func (s *ProfitabilityService) ClientProfitability(ctx context.Context, clientID, month string) (*dto.ClientProfitabilityResponse, error) {
	if clientID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "client id is required")
	}
	if month != "" && !yearMonthPattern.MatchString(month) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "month must be formatted as YYYY-MM")
	}

	client, err := s.clients.FindByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "client not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load client")
	}
	hours, err := s.hours.ListByClient(ctx, clientID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load hours")
	}

	now := s.now()
	if month == "" {
		month = now.Format("2006-01")
	}
	result := scoring.ComputeProfitability(*client, hours, s.hourlyRate(ctx), month, now)
	return &dto.ClientProfitabilityResponse{
		ClientID:      client.ID,
		ClientName:    client.Name,
		Month:         month,
		Profitability: result,
	}, nil
}

// AllProfitability computes the margin for every client in the given
// month. Feeds the profitability report export.
func (s *ProfitabilityService) AllProfitability(ctx context.Context, month string) ([]dto.ClientProfitabilityResponse, error) {
	if month != "" && !yearMonthPattern.MatchString(month) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "month must be formatted as YYYY-MM")
	}
	now := s.now()
	if month == "" {
		month = now.Format("2006-01")
	}

	clients, err := s.clients.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load clients")
	}
	hours, err := s.hours.ListByMonth(ctx, month)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load hours")
	}

	rate := s.hourlyRate(ctx)
	results := make([]dto.ClientProfitabilityResponse, 0, len(clients))
	for _, client := range clients {
		result := scoring.ComputeProfitability(client, hours, rate, month, now)
		results = append(results, dto.ClientProfitabilityResponse{
			ClientID:      client.ID,
			ClientName:    client.Name,
			Month:         month,
			Profitability: result,
		})
	}
	return results, nil
}

func (s *ProfitabilityService) hourlyRate(ctx context.Context) float64 {
	if s.settings == nil {
		return s.defaultRate
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("failed to load workspace settings, using default rate", zap.Error(err))
		}
		return s.defaultRate
	}
	if settings.HourlyRate <= 0 {
		return s.defaultRate
	}
	return settings.HourlyRate
}
