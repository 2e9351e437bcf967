package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/agencydesk/agency-api/internal/dto"
	"github.com/agencydesk/agency-api/internal/models"
	"github.com/agencydesk/agency-api/internal/scoring"
	appErrors "github.com/agencydesk/agency-api/pkg/errors"
)

type scoringClientRepository interface {
	ListAll(ctx context.Context) ([]models.Client, error)
	FindByID(ctx context.Context, id string) (*models.Client, error)
}

type scoringTaskRepository interface {
	ListOpen(ctx context.Context) ([]models.Task, error)
	ListByClient(ctx context.Context, clientID string) ([]models.Task, error)
}

type scoringActivityRepository interface {
	ListAll(ctx context.Context) ([]models.ActivityEntry, error)
	ListByClient(ctx context.Context, clientID string, limit int) ([]models.ActivityEntry, error)
}

type scoringMessageRepository interface {
	ListUnreadFromClients(ctx context.Context) ([]models.PortalMessage, error)
}

// ScoringServiceConfig tunes cache TTLs for scoring payloads.
type ScoringServiceConfig struct {
	HealthCacheTTL time.Duration
	AlertsCacheTTL time.Duration
}

// ScoringService loads data snapshots and runs the health, alert and
// priority computations over them.
type ScoringService struct {
	clients  scoringClientRepository
	tasks    scoringTaskRepository
	activity scoringActivityRepository
	messages scoringMessageRepository
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
	cfg      ScoringServiceConfig
}

// ScoringServiceParams groups constructor dependencies.
type ScoringServiceParams struct {
	Clients  scoringClientRepository
	Tasks    scoringTaskRepository
	Activity scoringActivityRepository
	Messages scoringMessageRepository
	Cache    *CacheService
	Metrics  *MetricsService
	Logger   *zap.Logger
	Config   ScoringServiceConfig
}

// NewScoringService constructs a ScoringService with sane defaults.
func NewScoringService(params ScoringServiceParams) *ScoringService {
	cfg := params.Config
	if cfg.HealthCacheTTL <= 0 {
		cfg.HealthCacheTTL = 5 * time.Minute
	}
	if cfg.AlertsCacheTTL <= 0 {
		cfg.AlertsCacheTTL = time.Minute
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoringService{
		clients:  params.Clients,
		tasks:    params.Tasks,
		activity: params.Activity,
		messages: params.Messages,
		cache:    params.Cache,
		metrics:  params.Metrics,
		logger:   logger,
		now:      time.Now,
		cfg:      cfg,
	}
}

// ClientHealth computes the health result for a single client and
// indicates cache utilisation.
func (s *ScoringService) ClientHealth(ctx context.Context, clientID string) (*dto.ClientHealthResponse, bool, error) {
	if clientID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "client id is required")
	}
	cacheKey := fmt.Sprintf("scoring:health:%s", clientID)
	if s.cache != nil {
		var cached dto.ClientHealthResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
			return nil, false, err
		} else if hit {
			return &cached, true, nil
		}
	}

	client, err := s.clients.FindByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, appErrors.Clone(appErrors.ErrNotFound, "client not found")
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load client")
	}
	tasks, err := s.tasks.ListByClient(ctx, clientID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tasks")
	}
	activity, err := s.activity.ListByClient(ctx, clientID, 0)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activity")
	}

	start := time.Now()
	result := scoring.ComputeHealth(*client, tasks, activity, s.now())
	s.observeCompute("health", start)

	resp := &dto.ClientHealthResponse{ClientID: client.ID, ClientName: client.Name, Health: result}
	s.persistCache(ctx, cacheKey, resp, s.cfg.HealthCacheTTL)
	return resp, false, nil
}

// AllClientHealth computes health for every client in one pass.
func (s *ScoringService) AllClientHealth(ctx context.Context) ([]dto.ClientHealthResponse, bool, error) {
	const cacheKey = "scoring:health:all"
	if s.cache != nil {
		var cached []dto.ClientHealthResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
			return nil, false, err
		} else if hit {
			return cached, true, nil
		}
	}

	clients, tasks, activity, err := s.loadHealthSnapshot(ctx)
	if err != nil {
		return nil, false, err
	}

	start := time.Now()
	results := make([]dto.ClientHealthResponse, 0, len(clients))
	for _, client := range clients {
		result := scoring.ComputeHealth(client, tasks, activity, s.now())
		results = append(results, dto.ClientHealthResponse{ClientID: client.ID, ClientName: client.Name, Health: result})
	}
	s.observeCompute("health", start)

	s.persistCache(ctx, cacheKey, results, s.cfg.HealthCacheTTL)
	return results, false, nil
}

// Alerts aggregates the workspace-wide alert feed.
func (s *ScoringService) Alerts(ctx context.Context) (*dto.AlertsResponse, bool, error) {
	const cacheKey = "scoring:alerts"
	if s.cache != nil {
		var cached dto.AlertsResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
			return nil, false, err
		} else if hit {
			return &cached, true, nil
		}
	}

	clients, tasks, activity, err := s.loadHealthSnapshot(ctx)
	if err != nil {
		return nil, false, err
	}
	messages, err := s.messages.ListUnreadFromClients(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load portal messages")
	}

	start := time.Now()
	alerts := scoring.ComputeAlerts(clients, tasks, activity, messages, s.now())
	s.observeCompute("alerts", start)

	resp := &dto.AlertsResponse{Alerts: alerts, Count: len(alerts)}
	s.persistCache(ctx, cacheKey, resp, s.cfg.AlertsCacheTTL)
	return resp, false, nil
}

// TaskQueue ranks all open tasks into the prioritised work queue.
func (s *ScoringService) TaskQueue(ctx context.Context) (*dto.TaskQueueResponse, bool, error) {
	const cacheKey = "scoring:queue"
	if s.cache != nil {
		var cached dto.TaskQueueResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
			return nil, false, err
		} else if hit {
			return &cached, true, nil
		}
	}

	clients, tasks, activity, err := s.loadHealthSnapshot(ctx)
	if err != nil {
		return nil, false, err
	}

	start := time.Now()
	healthByClient := make(map[string]scoring.HealthLevel, len(clients))
	for _, client := range clients {
		result := scoring.ComputeHealth(client, tasks, activity, s.now())
		healthByClient[client.ID] = result.Level
	}
	ranked := scoring.RankTasks(tasks, clients, healthByClient, s.now())
	s.observeCompute("queue", start)

	resp := &dto.TaskQueueResponse{Queue: ranked, Count: len(ranked)}
	s.persistCache(ctx, cacheKey, resp, s.cfg.AlertsCacheTTL)
	return resp, false, nil
}

// Invalidate drops every cached scoring payload. Called after client or
// task writes.
func (s *ScoringService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "scoring:*"); err != nil {
		s.logger.Warn("scoring cache invalidation failed", zap.Error(err))
	}
}

func (s *ScoringService) loadHealthSnapshot(ctx context.Context) ([]models.Client, []models.Task, []models.ActivityEntry, error) {
	clients, err := s.clients.ListAll(ctx)
	if err != nil {
		return nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load clients")
	}
	tasks, err := s.tasks.ListOpen(ctx)
	if err != nil {
		return nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tasks")
	}
	activity, err := s.activity.ListAll(ctx)
	if err != nil {
		return nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activity")
	}
	return clients, tasks, activity, nil
}

func (s *ScoringService) persistCache(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, ttl); err != nil {
		s.logger.Warn("scoring cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *ScoringService) observeCompute(component string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveScoringCompute(component, time.Since(start))
}
