package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agencydesk/agency-api/internal/models"
	appErrors "github.com/agencydesk/agency-api/pkg/errors"
)

type clientRepository interface {
	List(ctx context.Context, filter models.ClientFilter) ([]models.Client, int, error)
	FindByID(ctx context.Context, id string) (*models.Client, error)
	Create(ctx context.Context, client *models.Client) error
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id string) error
}

type clientActivityRepository interface {
	ListByClient(ctx context.Context, clientID string, limit int) ([]models.ActivityEntry, error)
	Create(ctx context.Context, entry *models.ActivityEntry) error
}

type clientHourRepository interface {
	ListByClient(ctx context.Context, clientID string) ([]models.HourEntry, error)
	Create(ctx context.Context, entry *models.HourEntry) error
}

type clientMessageRepository interface {
	ListByClient(ctx context.Context, clientID string) ([]models.PortalMessage, error)
	Create(ctx context.Context, message *models.PortalMessage) error
	MarkReadByClient(ctx context.Context, clientID string) error
}

type scoringInvalidator interface {
	Invalidate(ctx context.Context)
}

// ClientService provides client management plus the activity, hours and
// portal message subresources that feed scoring.
type ClientService struct {
	repo        clientRepository
	activity    clientActivityRepository
	hours       clientHourRepository
	messages    clientMessageRepository
	invalidator scoringInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// ClientServiceParams groups constructor dependencies.
type ClientServiceParams struct {
	Repo        clientRepository
	Activity    clientActivityRepository
	Hours       clientHourRepository
	Messages    clientMessageRepository
	Invalidator scoringInvalidator
	Validator   *validator.Validate
	Logger      *zap.Logger
}

// NewClientService constructs a ClientService.
func NewClientService(params ClientServiceParams) *ClientService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	return &ClientService{
		repo:        params.Repo,
		activity:    params.Activity,
		hours:       params.Hours,
		messages:    params.Messages,
		invalidator: params.Invalidator,
		validator:   validate,
		logger:      logger,
	}
}

// List returns clients with pagination metadata.
func (s *ClientService) List(ctx context.Context, filter models.ClientFilter) ([]models.Client, *models.Pagination, error) {
	clients, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list clients")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return clients, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns a single client.
func (s *ClientService) Get(ctx context.Context, id string) (*models.Client, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "client not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load client")
	}
	return client, nil
}

// Create registers a new client.
func (s *ClientService) Create(ctx context.Context, req models.CreateClientRequest) (*models.Client, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid client payload")
	}

	client := &models.Client{
		Name:               req.Name,
		Email:              req.Email,
		Phone:              req.Phone,
		Service:            req.Service,
		MonthlyValue:       req.MonthlyValue,
		ContractType:       models.ContractType(req.ContractType),
		Status:             models.ClientStatus(req.Status),
		Notes:              req.Notes,
		WeeklyPlannedHours: req.WeeklyPlannedHours,
	}
	if req.StartDate != nil {
		startDate, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must be formatted as YYYY-MM-DD")
		}
		client.StartDate = &startDate
	}
	if req.PortalActive != nil && *req.PortalActive {
		client.PortalActive = true
		hash := uuid.NewString()
		client.PortalHash = &hash
	}

	if err := s.repo.Create(ctx, client); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create client")
	}
	s.invalidate(ctx)
	return client, nil
}

// Update applies partial changes to a client.
func (s *ClientService) Update(ctx context.Context, id string, req models.UpdateClientRequest) (*models.Client, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid client payload")
	}

	client, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Email != nil {
		client.Email = req.Email
	}
	if req.Phone != nil {
		client.Phone = req.Phone
	}
	if req.Service != nil {
		client.Service = req.Service
	}
	if req.MonthlyValue != nil {
		client.MonthlyValue = req.MonthlyValue
	}
	if req.ContractType != nil {
		client.ContractType = models.ContractType(*req.ContractType)
	}
	if req.StartDate != nil {
		startDate, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must be formatted as YYYY-MM-DD")
		}
		client.StartDate = &startDate
	}
	if req.Status != nil {
		client.Status = models.ClientStatus(*req.Status)
	}
	if req.Notes != nil {
		client.Notes = req.Notes
	}
	if req.WeeklyPlannedHours != nil {
		client.WeeklyPlannedHours = req.WeeklyPlannedHours
	}
	if req.PortalActive != nil {
		client.PortalActive = *req.PortalActive
		if client.PortalActive && client.PortalHash == nil {
			hash := uuid.NewString()
			client.PortalHash = &hash
		}
	}

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update client")
	}
	s.invalidate(ctx)
	return client, nil
}

// Delete removes a client.
func (s *ClientService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete client")
	}
	s.invalidate(ctx)
	return nil
}

// ListActivity returns the recent activity log for a client.
func (s *ClientService) ListActivity(ctx context.Context, clientID string, limit int) ([]models.ActivityEntry, error) {
	if _, err := s.Get(ctx, clientID); err != nil {
		return nil, err
	}
	entries, err := s.activity.ListByClient(ctx, clientID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list activity")
	}
	return entries, nil
}

// LogActivity records a touchpoint with a client.
func (s *ClientService) LogActivity(ctx context.Context, clientID string, req models.CreateActivityRequest) (*models.ActivityEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid activity payload")
	}
	if _, err := s.Get(ctx, clientID); err != nil {
		return nil, err
	}
	entry := &models.ActivityEntry{
		ClientID:    clientID,
		Type:        req.Type,
		Description: req.Description,
	}
	if err := s.activity.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to log activity")
	}
	s.invalidate(ctx)
	return entry, nil
}

// ListHours returns the hour log for a client.
func (s *ClientService) ListHours(ctx context.Context, clientID string) ([]models.HourEntry, error) {
	if _, err := s.Get(ctx, clientID); err != nil {
		return nil, err
	}
	entries, err := s.hours.ListByClient(ctx, clientID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list hours")
	}
	return entries, nil
}

// LogHours records labor against a client.
func (s *ClientService) LogHours(ctx context.Context, clientID string, req models.CreateHourEntryRequest) (*models.HourEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid hour entry payload")
	}
	if _, err := s.Get(ctx, clientID); err != nil {
		return nil, err
	}
	entry := &models.HourEntry{
		ClientID:    clientID,
		Hours:       req.Hours,
		Date:        req.Date,
		Description: req.Description,
	}
	if err := s.hours.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to log hours")
	}
	return entry, nil
}

// ListMessages returns the portal conversation with a client.
func (s *ClientService) ListMessages(ctx context.Context, clientID string) ([]models.PortalMessage, error) {
	if _, err := s.Get(ctx, clientID); err != nil {
		return nil, err
	}
	messages, err := s.messages.ListByClient(ctx, clientID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list messages")
	}
	return messages, nil
}

// SendMessage posts a staff reply into the client portal thread.
func (s *ClientService) SendMessage(ctx context.Context, clientID, body string) (*models.PortalMessage, error) {
	if body == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "message body is required")
	}
	if _, err := s.Get(ctx, clientID); err != nil {
		return nil, err
	}
	message := &models.PortalMessage{
		ClientID:   clientID,
		Body:       body,
		FromClient: false,
		Read:       true,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to send message")
	}
	return message, nil
}

// MarkMessagesRead clears the unread flag on a client's messages, which
// also clears the portal message alert.
func (s *ClientService) MarkMessagesRead(ctx context.Context, clientID string) error {
	if _, err := s.Get(ctx, clientID); err != nil {
		return err
	}
	if err := s.messages.MarkReadByClient(ctx, clientID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark messages read")
	}
	s.invalidate(ctx)
	return nil
}

func (s *ClientService) invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	s.invalidator.Invalidate(ctx)
}
