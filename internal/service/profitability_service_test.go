package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agencydesk/agency-api/internal/models"
	appErrors "github.com/agencydesk/agency-api/pkg/errors"
)

type fakeHourRepo struct {
	entries []models.HourEntry
}

func (f *fakeHourRepo) ListByClient(_ context.Context, clientID string) ([]models.HourEntry, error) {
	var out []models.HourEntry
	for _, entry := range f.entries {
		if entry.ClientID == clientID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (f *fakeHourRepo) ListByMonth(_ context.Context, yearMonth string) ([]models.HourEntry, error) {
	var out []models.HourEntry
	for _, entry := range f.entries {
		if len(entry.Date) >= 7 && entry.Date[:7] == yearMonth {
			out = append(out, entry)
		}
	}
	return out, nil
}

type stubSettings struct {
	settings *models.WorkspaceSettings
	err      error
}

func (s *stubSettings) Get(context.Context) (*models.WorkspaceSettings, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.settings, nil
}

func (s *stubSettings) Upsert(_ context.Context, settings *models.WorkspaceSettings) error {
	s.settings = settings
	s.err = nil
	return nil
}

func floatRef(v float64) *float64 { return &v }

func TestProfitabilityServiceClientProfitability(t *testing.T) {
	now := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)
	clients := &fakeClientRepo{clients: []models.Client{
		{ID: "c1", Name: "Acme", MonthlyValue: floatRef(3500), ContractType: models.ContractFixed, Status: models.ClientActive},
	}}
	hours := &fakeHourRepo{entries: []models.HourEntry{
		{ID: "h1", ClientID: "c1", Hours: 12, Date: "2024-06-03"},
		{ID: "h2", ClientID: "c1", Hours: 8, Date: "2024-06-07"},
		{ID: "h3", ClientID: "c1", Hours: 30, Date: "2024-05-20"},
	}}
	settings := &stubSettings{settings: &models.WorkspaceSettings{HourlyRate: 50}}
	svc := NewProfitabilityService(clients, hours, settings, 60, zap.NewNop())
	svc.now = func() time.Time { return now }

	resp, err := svc.ClientProfitability(context.Background(), "c1", "2024-06")
	require.NoError(t, err)
	assert.Equal(t, "2024-06", resp.Month)
	assert.Equal(t, 3500.0, resp.Profitability.ContractValue)
	assert.Equal(t, 20.0, resp.Profitability.HoursLogged)
	assert.Equal(t, 1000.0, resp.Profitability.Cost)
	assert.Equal(t, 2500.0, resp.Profitability.Margin)
	assert.True(t, resp.Profitability.Profitable)
	assert.InDelta(t, 71.43, resp.Profitability.MarginPercent, 0.01)
}

func TestProfitabilityServiceDefaultsMonthAndRate(t *testing.T) {
	now := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)
	clients := &fakeClientRepo{clients: []models.Client{
		{ID: "c1", Name: "Acme", MonthlyValue: floatRef(1000), ContractType: models.ContractFixed, Status: models.ClientActive},
	}}
	hours := &fakeHourRepo{entries: []models.HourEntry{
		{ID: "h1", ClientID: "c1", Hours: 10, Date: "2024-06-03"},
	}}
	// No settings row stored yet; the configured default applies.
	settings := &stubSettings{err: sql.ErrNoRows}
	svc := NewProfitabilityService(clients, hours, settings, 40, zap.NewNop())
	svc.now = func() time.Time { return now }

	resp, err := svc.ClientProfitability(context.Background(), "c1", "")
	require.NoError(t, err)
	assert.Equal(t, "2024-06", resp.Month)
	assert.Equal(t, 400.0, resp.Profitability.Cost)
	assert.Equal(t, 600.0, resp.Profitability.Margin)
}

func TestProfitabilityServiceRejectsBadMonth(t *testing.T) {
	svc := NewProfitabilityService(&fakeClientRepo{}, &fakeHourRepo{}, &stubSettings{}, 50, zap.NewNop())

	_, err := svc.ClientProfitability(context.Background(), "c1", "June 2024")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestProfitabilityServiceClientNotFound(t *testing.T) {
	svc := NewProfitabilityService(&fakeClientRepo{}, &fakeHourRepo{}, &stubSettings{}, 50, zap.NewNop())

	_, err := svc.ClientProfitability(context.Background(), "missing", "2024-06")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestProfitabilityServiceAllProfitability(t *testing.T) {
	now := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)
	clients := &fakeClientRepo{clients: []models.Client{
		{ID: "c1", Name: "Acme", MonthlyValue: floatRef(2000), ContractType: models.ContractFixed, Status: models.ClientActive},
		{ID: "c2", Name: "Beta", ContractType: models.ContractFreelance, Status: models.ClientActive},
	}}
	hours := &fakeHourRepo{entries: []models.HourEntry{
		{ID: "h1", ClientID: "c1", Hours: 10, Date: "2024-06-03"},
		{ID: "h2", ClientID: "c2", Hours: 5, Date: "2024-06-04"},
	}}
	settings := &stubSettings{settings: &models.WorkspaceSettings{HourlyRate: 50}}
	svc := NewProfitabilityService(clients, hours, settings, 50, zap.NewNop())
	svc.now = func() time.Time { return now }

	results, err := svc.AllProfitability(context.Background(), "2024-06")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1500.0, results[0].Profitability.Margin)
	// No contract value pins the margin percent to the sentinel bounds.
	assert.Equal(t, -100.0, results[1].Profitability.MarginPercent)
	assert.False(t, results[1].Profitability.Profitable)
}
