package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencydesk/agency-api/internal/models"
)

func activeClient(id, name string, now time.Time) models.Client {
	return models.Client{
		ID:           id,
		Name:         name,
		ContractType: models.ContractFreelance,
		Status:       models.ClientActive,
		CreatedAt:    now.Add(-24 * time.Hour),
	}
}

func TestComputeAlertsEmptyInputs(t *testing.T) {
	now := date(2024, time.June, 10)
	alerts := ComputeAlerts(nil, nil, nil, nil, now)
	assert.Empty(t, alerts)
}

func TestComputeAlertsSkipsTerminatedClients(t *testing.T) {
	now := date(2024, time.June, 10)
	terminated := models.Client{
		ID:           "client-1",
		Name:         "Gone",
		Status:       models.ClientTerminated,
		ContractType: models.ContractFixed,
		StartDate:    timePtr(now.AddDate(0, 0, -350)),
		CreatedAt:    now.AddDate(0, 0, -90),
	}
	tasks := []models.Task{
		{ID: "t1", ClientID: strPtr("client-1"), Status: models.TaskTodo, Deadline: timePtr(now.AddDate(0, 0, -2))},
	}
	messages := []models.PortalMessage{
		{ID: "m1", ClientID: "client-1", Read: false},
	}

	alerts := ComputeAlerts([]models.Client{terminated}, tasks, nil, messages, now)
	assert.Empty(t, alerts)
}

func TestComputeAlertsUpcomingDeadline(t *testing.T) {
	now := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)
	client := activeClient("client-1", "Acme", now)
	tasks := []models.Task{
		{ID: "t1", Title: "Ship banner", ClientID: strPtr("client-1"), Status: models.TaskTodo, Deadline: timePtr(date(2024, time.June, 11))},
	}

	alerts := ComputeAlerts([]models.Client{client}, tasks, nil, nil, now)
	require.Len(t, alerts, 1)
	assert.Equal(t, KindDeadline, alerts[0].Kind)
	assert.Equal(t, LevelUrgent, alerts[0].Level)
	assert.Equal(t, "task-due-t1", alerts[0].ID)
	// End of June 11 is 35h59m59s away from June 10 noon; ceil gives 36.
	assert.Equal(t, `Task "Ship banner" due in 36h`, alerts[0].Description)
	assert.Equal(t, "/tasks", alerts[0].TargetLink)
}

func TestComputeAlertsOverdueTaskRaisesSingleAlert(t *testing.T) {
	now := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)
	client := activeClient("client-1", "Acme", now)
	tasks := []models.Task{
		{ID: "t1", Title: "Late thing", ClientID: strPtr("client-1"), Status: models.TaskTodo, Deadline: timePtr(date(2024, time.June, 5))},
	}

	alerts := ComputeAlerts([]models.Client{client}, tasks, nil, nil, now)
	require.Len(t, alerts, 1)
	assert.Equal(t, "task-overdue-t1", alerts[0].ID)
	assert.Equal(t, `Task "Late thing" is overdue`, alerts[0].Description)
}

func TestComputeAlertsDeadlineIgnoresDoneAndFarFuture(t *testing.T) {
	now := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)
	client := activeClient("client-1", "Acme", now)
	tasks := []models.Task{
		{ID: "t1", Title: "Done", ClientID: strPtr("client-1"), Status: models.TaskDone, Deadline: timePtr(date(2024, time.June, 5))},
		{ID: "t2", Title: "Far", ClientID: strPtr("client-1"), Status: models.TaskTodo, Deadline: timePtr(date(2024, time.July, 20))},
		{ID: "t3", Title: "No deadline", ClientID: strPtr("client-1"), Status: models.TaskTodo},
	}

	alerts := ComputeAlerts([]models.Client{client}, tasks, nil, nil, now)
	assert.Empty(t, alerts)
}

func TestComputeAlertsInactivityLevels(t *testing.T) {
	now := date(2024, time.June, 10)

	quiet := activeClient("client-1", "Quiet", now)
	quiet.CreatedAt = now.AddDate(0, 0, -10)
	silent := activeClient("client-2", "Silent", now)
	silent.CreatedAt = now.AddDate(0, 0, -45)

	alerts := ComputeAlerts([]models.Client{quiet, silent}, nil, nil, nil, now)
	require.Len(t, alerts, 2)

	// Urgent sorts first.
	assert.Equal(t, "inactivity-client-2", alerts[0].ID)
	assert.Equal(t, LevelUrgent, alerts[0].Level)
	assert.Equal(t, "No activity for 45 days", alerts[0].Description)

	assert.Equal(t, "inactivity-client-1", alerts[1].ID)
	assert.Equal(t, LevelWarning, alerts[1].Level)
	assert.Equal(t, "No activity for 10 days", alerts[1].Description)
}

func TestComputeAlertsActivityResetsInactivity(t *testing.T) {
	now := date(2024, time.June, 10)
	client := activeClient("client-1", "Acme", now)
	client.CreatedAt = now.AddDate(0, 0, -60)
	activity := []models.ActivityEntry{
		{ID: "a1", ClientID: "client-1", CreatedAt: now.AddDate(0, 0, -2)},
	}

	alerts := ComputeAlerts([]models.Client{client}, nil, activity, nil, now)
	assert.Empty(t, alerts)
}

func TestComputeAlertsInactivityIgnoresNewerClientRecord(t *testing.T) {
	now := date(2024, time.June, 10)
	client := activeClient("client-1", "Acme", now)
	client.CreatedAt = now.AddDate(0, 0, -2)
	activity := []models.ActivityEntry{
		{ID: "a1", ClientID: "client-1", CreatedAt: now.AddDate(0, 0, -40)},
	}

	alerts := ComputeAlerts([]models.Client{client}, nil, activity, nil, now)
	require.Len(t, alerts, 1)
	assert.Equal(t, "inactivity-client-1", alerts[0].ID)
	assert.Equal(t, LevelUrgent, alerts[0].Level)
	assert.Equal(t, "No activity for 40 days", alerts[0].Description)
}

func TestComputeAlertsContractExpiryWindow(t *testing.T) {
	now := date(2024, time.June, 10)

	mk := func(id, name string, daysIntoContract int) models.Client {
		c := activeClient(id, name, now)
		c.ContractType = models.ContractFixed
		c.StartDate = timePtr(now.AddDate(0, 0, -daysIntoContract))
		return c
	}

	soon := mk("client-1", "Soon", 345)     // expires in 20 days
	imminent := mk("client-2", "Imminent", 362) // expires in 3 days
	expired := mk("client-3", "Expired", 400)   // past expiry: no alert
	early := mk("client-4", "Early", 100)       // far from expiry

	alerts := ComputeAlerts([]models.Client{soon, imminent, expired, early}, nil, nil, nil, now)
	require.Len(t, alerts, 2)

	assert.Equal(t, "contract-expiry-client-2", alerts[0].ID)
	assert.Equal(t, LevelUrgent, alerts[0].Level)
	assert.Equal(t, "Fixed contract expires in 3 days", alerts[0].Description)

	assert.Equal(t, "contract-expiry-client-1", alerts[1].ID)
	assert.Equal(t, LevelWarning, alerts[1].Level)
	assert.Equal(t, "Fixed contract expires in 20 days", alerts[1].Description)
}

func TestComputeAlertsUnreadPortalMessages(t *testing.T) {
	now := date(2024, time.June, 10)
	client := activeClient("client-1", "Acme", now)
	messages := []models.PortalMessage{
		{ID: "m1", ClientID: "client-1", Read: false},
		{ID: "m2", ClientID: "client-1", Read: false},
		{ID: "m3", ClientID: "client-1", Read: true},
		{ID: "m4", ClientID: "other", Read: false},
	}

	alerts := ComputeAlerts([]models.Client{client}, nil, nil, messages, now)
	require.Len(t, alerts, 1)
	assert.Equal(t, KindPortalMessage, alerts[0].Kind)
	assert.Equal(t, LevelUrgent, alerts[0].Level)
	assert.Equal(t, "2 new message(s) in Portal", alerts[0].Description)
}

func TestComputeAlertsOrderingInvariant(t *testing.T) {
	now := date(2024, time.June, 10)

	zeta := activeClient("client-1", "Zeta", now)
	zeta.CreatedAt = now.AddDate(0, 0, -10) // warning inactivity
	alpha := activeClient("client-2", "Alpha", now)
	alpha.CreatedAt = now.AddDate(0, 0, -12) // warning inactivity
	mike := activeClient("client-3", "Mike", now)
	mike.CreatedAt = now.AddDate(0, 0, -40) // urgent inactivity

	messages := []models.PortalMessage{
		{ID: "m1", ClientID: "client-1", Read: false}, // urgent for Zeta
	}

	alerts := ComputeAlerts([]models.Client{zeta, alpha, mike}, nil, nil, messages, now)
	require.Len(t, alerts, 4)

	rank := map[AlertLevel]int{LevelUrgent: 0, LevelWarning: 1}
	for i := 1; i < len(alerts); i++ {
		prev, curr := alerts[i-1], alerts[i]
		assert.LessOrEqual(t, rank[prev.Level], rank[curr.Level])
		if prev.Level == curr.Level {
			assert.LessOrEqual(t, prev.ClientName, curr.ClientName)
		}
	}

	assert.Equal(t, "Mike", alerts[0].ClientName)
	assert.Equal(t, "Zeta", alerts[1].ClientName)
	assert.Equal(t, "Alpha", alerts[2].ClientName)
	assert.Equal(t, "Zeta", alerts[3].ClientName)
}

func TestComputeAlertsMultipleConditionsPerClient(t *testing.T) {
	now := date(2024, time.June, 10)
	client := activeClient("client-1", "Acme", now)
	client.CreatedAt = now.AddDate(0, 0, -15)
	client.ContractType = models.ContractFixed
	client.StartDate = timePtr(now.AddDate(0, 0, -350))

	tasks := []models.Task{
		{ID: "t1", Title: "Late", ClientID: strPtr("client-1"), Status: models.TaskTodo, Deadline: timePtr(now.AddDate(0, 0, -1))},
	}
	messages := []models.PortalMessage{
		{ID: "m1", ClientID: "client-1", Read: false},
	}

	alerts := ComputeAlerts([]models.Client{client}, tasks, nil, messages, now)
	require.Len(t, alerts, 4)

	kinds := map[AlertKind]int{}
	for _, a := range alerts {
		kinds[a.Kind]++
	}
	assert.Equal(t, 1, kinds[KindDeadline])
	assert.Equal(t, 1, kinds[KindInactivity])
	assert.Equal(t, 1, kinds[KindContractExpiry])
	assert.Equal(t, 1, kinds[KindPortalMessage])
}
