package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agencydesk/agency-api/internal/models"
	appErrors "github.com/agencydesk/agency-api/pkg/errors"
)

type fakeClientStore struct {
	clients map[string]*models.Client
	deleted []string
}

func newFakeClientStore(clients ...*models.Client) *fakeClientStore {
	store := &fakeClientStore{clients: map[string]*models.Client{}}
	for _, client := range clients {
		store.clients[client.ID] = client
	}
	return store
}

func (f *fakeClientStore) List(_ context.Context, _ models.ClientFilter) ([]models.Client, int, error) {
	var out []models.Client
	for _, client := range f.clients {
		out = append(out, *client)
	}
	return out, len(out), nil
}

func (f *fakeClientStore) FindByID(_ context.Context, id string) (*models.Client, error) {
	client, ok := f.clients[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return client, nil
}

func (f *fakeClientStore) Create(_ context.Context, client *models.Client) error {
	if client.ID == "" {
		client.ID = "generated-id"
	}
	f.clients[client.ID] = client
	return nil
}

func (f *fakeClientStore) Update(_ context.Context, client *models.Client) error {
	f.clients[client.ID] = client
	return nil
}

func (f *fakeClientStore) Delete(_ context.Context, id string) error {
	delete(f.clients, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeActivityStore struct {
	entries []*models.ActivityEntry
}

func (f *fakeActivityStore) ListByClient(_ context.Context, clientID string, _ int) ([]models.ActivityEntry, error) {
	var out []models.ActivityEntry
	for _, entry := range f.entries {
		if entry.ClientID == clientID {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (f *fakeActivityStore) Create(_ context.Context, entry *models.ActivityEntry) error {
	entry.ID = "act-1"
	f.entries = append(f.entries, entry)
	return nil
}

type fakeHourStore struct {
	entries []*models.HourEntry
}

func (f *fakeHourStore) ListByClient(_ context.Context, clientID string) ([]models.HourEntry, error) {
	var out []models.HourEntry
	for _, entry := range f.entries {
		if entry.ClientID == clientID {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (f *fakeHourStore) Create(_ context.Context, entry *models.HourEntry) error {
	entry.ID = "hour-1"
	f.entries = append(f.entries, entry)
	return nil
}

type fakeMessageStore struct {
	messages []*models.PortalMessage
	marked   []string
}

func (f *fakeMessageStore) ListByClient(_ context.Context, clientID string) ([]models.PortalMessage, error) {
	var out []models.PortalMessage
	for _, message := range f.messages {
		if message.ClientID == clientID {
			out = append(out, *message)
		}
	}
	return out, nil
}

func (f *fakeMessageStore) Create(_ context.Context, message *models.PortalMessage) error {
	message.ID = "msg-1"
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeMessageStore) MarkReadByClient(_ context.Context, clientID string) error {
	f.marked = append(f.marked, clientID)
	return nil
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(context.Context) { c.calls++ }

func newClientFixture(clients ...*models.Client) (*ClientService, *fakeClientStore, *countingInvalidator) {
	store := newFakeClientStore(clients...)
	invalidator := &countingInvalidator{}
	svc := NewClientService(ClientServiceParams{
		Repo:        store,
		Activity:    &fakeActivityStore{},
		Hours:       &fakeHourStore{},
		Messages:    &fakeMessageStore{},
		Invalidator: invalidator,
		Logger:      zap.NewNop(),
	})
	return svc, store, invalidator
}

func TestClientServiceCreate(t *testing.T) {
	svc, store, invalidator := newClientFixture()

	client, err := svc.Create(context.Background(), models.CreateClientRequest{
		Name:         "Acme",
		ContractType: "fixed",
		Status:       "active",
		StartDate:    strRef("2024-01-15"),
		MonthlyValue: floatRef(3500),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ContractFixed, client.ContractType)
	require.NotNil(t, client.StartDate)
	assert.Equal(t, "2024-01-15", client.StartDate.Format("2006-01-02"))
	assert.Contains(t, store.clients, client.ID)
	assert.Equal(t, 1, invalidator.calls)
}

func TestClientServiceCreateValidates(t *testing.T) {
	svc, _, invalidator := newClientFixture()

	_, err := svc.Create(context.Background(), models.CreateClientRequest{Name: "", ContractType: "retainer", Status: "active"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Zero(t, invalidator.calls)
}

func TestClientServiceCreateGeneratesPortalHash(t *testing.T) {
	svc, _, _ := newClientFixture()

	active := true
	client, err := svc.Create(context.Background(), models.CreateClientRequest{
		Name:         "Acme",
		ContractType: "freelance",
		Status:       "active",
		PortalActive: &active,
	})
	require.NoError(t, err)
	assert.True(t, client.PortalActive)
	require.NotNil(t, client.PortalHash)
	assert.NotEmpty(t, *client.PortalHash)
}

func TestClientServiceUpdatePartial(t *testing.T) {
	existing := &models.Client{ID: "c1", Name: "Acme", ContractType: models.ContractFixed, Status: models.ClientActive}
	svc, _, invalidator := newClientFixture(existing)

	updated, err := svc.Update(context.Background(), "c1", models.UpdateClientRequest{
		Status: strRef("paused"),
		Notes:  strRef("on hold until Q3"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ClientPaused, updated.Status)
	assert.Equal(t, "Acme", updated.Name)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, 1, invalidator.calls)
}

func TestClientServiceUpdateNotFound(t *testing.T) {
	svc, _, _ := newClientFixture()

	_, err := svc.Update(context.Background(), "missing", models.UpdateClientRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestClientServiceDelete(t *testing.T) {
	existing := &models.Client{ID: "c1", Name: "Acme", ContractType: models.ContractFixed, Status: models.ClientActive}
	svc, store, invalidator := newClientFixture(existing)

	require.NoError(t, svc.Delete(context.Background(), "c1"))
	assert.Equal(t, []string{"c1"}, store.deleted)
	assert.Equal(t, 1, invalidator.calls)
}

func TestClientServiceLogActivityInvalidates(t *testing.T) {
	existing := &models.Client{ID: "c1", Name: "Acme", ContractType: models.ContractFixed, Status: models.ClientActive}
	svc, _, invalidator := newClientFixture(existing)

	entry, err := svc.LogActivity(context.Background(), "c1", models.CreateActivityRequest{Type: "call", Description: "monthly check-in"})
	require.NoError(t, err)
	assert.Equal(t, "act-1", entry.ID)
	assert.Equal(t, 1, invalidator.calls)
}

func TestClientServiceLogHours(t *testing.T) {
	existing := &models.Client{ID: "c1", Name: "Acme", ContractType: models.ContractFixed, Status: models.ClientActive}
	svc, _, invalidator := newClientFixture(existing)

	entry, err := svc.LogHours(context.Background(), "c1", models.CreateHourEntryRequest{Hours: 3.5, Date: "2024-06-05"})
	require.NoError(t, err)
	assert.Equal(t, 3.5, entry.Hours)
	// Hour entries feed profitability, not the scoring caches.
	assert.Zero(t, invalidator.calls)
}

func TestClientServiceMarkMessagesRead(t *testing.T) {
	existing := &models.Client{ID: "c1", Name: "Acme", ContractType: models.ContractFixed, Status: models.ClientActive}
	svc, _, invalidator := newClientFixture(existing)

	require.NoError(t, svc.MarkMessagesRead(context.Background(), "c1"))
	assert.Equal(t, 1, invalidator.calls)
}
