package scoring

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencydesk/agency-api/internal/models"
)

func strPtr(s string) *string       { return &s }
func floatPtr(f float64) *float64   { return &f }
func timePtr(t time.Time) *time.Time { return &t }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func healthyClient(now time.Time) models.Client {
	return models.Client{
		ID:           "client-1",
		Name:         "Acme",
		ContractType: models.ContractFreelance,
		Status:       models.ClientActive,
		CreatedAt:    now.Add(-48 * time.Hour),
	}
}

func TestComputeHealthPerfectScore(t *testing.T) {
	now := date(2024, time.June, 10)
	result := ComputeHealth(healthyClient(now), nil, nil, now)

	assert.Equal(t, 100, result.Score)
	assert.Equal(t, HealthGreen, result.Level)
	assert.Empty(t, result.Reasons)
}

func TestComputeHealthOverdueBands(t *testing.T) {
	now := date(2024, time.June, 10)
	client := healthyClient(now)

	makeOverdue := func(n int) []models.Task {
		tasks := make([]models.Task, 0, n)
		for i := 0; i < n; i++ {
			tasks = append(tasks, models.Task{
				ID:       fmt.Sprintf("task-%d", i),
				ClientID: strPtr(client.ID),
				Status:   models.TaskTodo,
				Deadline: timePtr(now.AddDate(0, 0, -1)),
			})
		}
		return tasks
	}

	one := ComputeHealth(client, makeOverdue(1), nil, now)
	assert.Equal(t, 80, one.Score)
	assert.Equal(t, []string{"1 overdue task(s)"}, one.Reasons)

	two := ComputeHealth(client, makeOverdue(2), nil, now)
	assert.Equal(t, 80, two.Score)

	three := ComputeHealth(client, makeOverdue(3), nil, now)
	assert.Equal(t, 60, three.Score)
	assert.Equal(t, []string{"3 overdue tasks"}, three.Reasons)
	assert.Equal(t, HealthYellow, three.Level)
}

func TestComputeHealthOverdueIgnoresDoneAndOtherClients(t *testing.T) {
	now := date(2024, time.June, 10)
	client := healthyClient(now)
	tasks := []models.Task{
		{ID: "t1", ClientID: strPtr(client.ID), Status: models.TaskDone, Deadline: timePtr(now.AddDate(0, 0, -5))},
		{ID: "t2", ClientID: strPtr("someone-else"), Status: models.TaskTodo, Deadline: timePtr(now.AddDate(0, 0, -5))},
		{ID: "t3", ClientID: nil, Status: models.TaskTodo, Deadline: timePtr(now.AddDate(0, 0, -5))},
		{ID: "t4", ClientID: strPtr(client.ID), Status: models.TaskTodo, Deadline: nil},
	}

	result := ComputeHealth(client, tasks, nil, now)
	assert.Equal(t, 100, result.Score)
	assert.Empty(t, result.Reasons)
}

func TestComputeHealthInactivityBands(t *testing.T) {
	now := date(2024, time.June, 10)
	client := healthyClient(now)

	activityAt := func(daysAgo int) []models.ActivityEntry {
		return []models.ActivityEntry{{
			ID:        "a1",
			ClientID:  client.ID,
			CreatedAt: now.AddDate(0, 0, -daysAgo),
		}}
	}

	fresh := ComputeHealth(client, nil, activityAt(2), now)
	assert.Equal(t, 100, fresh.Score)

	quiet := ComputeHealth(client, nil, activityAt(10), now)
	assert.Equal(t, 85, quiet.Score)
	assert.Equal(t, []string{"no activity for 10 days"}, quiet.Reasons)

	silent := ComputeHealth(client, nil, activityAt(40), now)
	assert.Equal(t, 65, silent.Score)
	assert.Equal(t, []string{"no activity for 40 days"}, silent.Reasons)
}

func TestComputeHealthInactivityFallsBackToCreatedAt(t *testing.T) {
	now := date(2024, time.June, 10)
	client := healthyClient(now)
	client.CreatedAt = now.AddDate(0, 0, -12)

	result := ComputeHealth(client, nil, nil, now)
	assert.Equal(t, 85, result.Score)
	assert.Equal(t, []string{"no activity for 12 days"}, result.Reasons)
}

func TestComputeHealthInactivityUsesLatestEntry(t *testing.T) {
	now := date(2024, time.June, 10)
	client := healthyClient(now)
	activity := []models.ActivityEntry{
		{ID: "a1", ClientID: client.ID, CreatedAt: now.AddDate(0, 0, -60)},
		{ID: "a2", ClientID: client.ID, CreatedAt: now.AddDate(0, 0, -1)},
		{ID: "a3", ClientID: "other", CreatedAt: now},
	}

	result := ComputeHealth(client, nil, activity, now)
	assert.Equal(t, 100, result.Score)
}

func TestComputeHealthContractExpiry(t *testing.T) {
	now := date(2024, time.June, 10)

	base := healthyClient(now)
	base.ContractType = models.ContractFixed

	expired := base
	expired.StartDate = timePtr(now.AddDate(0, 0, -400))
	result := ComputeHealth(expired, nil, nil, now)
	assert.Equal(t, 75, result.Score)
	assert.Equal(t, []string{"contract expired"}, result.Reasons)

	expiring := base
	expiring.StartDate = timePtr(now.AddDate(0, 0, -355))
	result = ComputeHealth(expiring, nil, nil, now)
	assert.Equal(t, 85, result.Score)
	assert.Equal(t, []string{"contract expires in 10 days"}, result.Reasons)

	// Freelance contracts never trigger the expiry check.
	freelance := expired
	freelance.ContractType = models.ContractFreelance
	result = ComputeHealth(freelance, nil, nil, now)
	assert.Equal(t, 100, result.Score)

	// Fixed contract without a start date is treated as not applicable.
	noStart := base
	noStart.StartDate = nil
	result = ComputeHealth(noStart, nil, nil, now)
	assert.Equal(t, 100, result.Score)
}

func TestComputeHealthStatusDemerits(t *testing.T) {
	now := date(2024, time.June, 10)

	paused := healthyClient(now)
	paused.Status = models.ClientPaused
	result := ComputeHealth(paused, nil, nil, now)
	assert.Equal(t, 80, result.Score)
	assert.Equal(t, []string{"contract paused"}, result.Reasons)

	// The scorer stays total over terminated clients even though the
	// alert feed filters them out upstream.
	terminated := healthyClient(now)
	terminated.Status = models.ClientTerminated
	result = ComputeHealth(terminated, nil, nil, now)
	assert.Equal(t, 50, result.Score)
	assert.Equal(t, HealthYellow, result.Level)
	assert.Equal(t, []string{"contract terminated"}, result.Reasons)
}

func TestComputeHealthChecksAreCumulative(t *testing.T) {
	now := date(2024, time.June, 10)
	client := healthyClient(now)
	client.Status = models.ClientPaused
	client.CreatedAt = now.AddDate(0, 0, -40)

	tasks := []models.Task{
		{ID: "t1", ClientID: strPtr(client.ID), Status: models.TaskTodo, Deadline: timePtr(now.AddDate(0, 0, -3))},
	}

	// 20 (overdue) + 35 (inactivity) + 20 (paused) = 75.
	result := ComputeHealth(client, tasks, nil, now)
	assert.Equal(t, 25, result.Score)
	assert.Equal(t, HealthRed, result.Level)
	assert.Len(t, result.Reasons, 3)
}

func TestComputeHealthScoreFlooredAtZero(t *testing.T) {
	now := date(2024, time.June, 10)
	client := models.Client{
		ID:           "client-1",
		Name:         "Doomed",
		ContractType: models.ContractFixed,
		StartDate:    timePtr(now.AddDate(0, 0, -500)),
		Status:       models.ClientTerminated,
		CreatedAt:    now.AddDate(0, 0, -90),
	}
	tasks := []models.Task{
		{ID: "t1", ClientID: strPtr(client.ID), Status: models.TaskTodo, Deadline: timePtr(now.AddDate(0, 0, -10))},
		{ID: "t2", ClientID: strPtr(client.ID), Status: models.TaskTodo, Deadline: timePtr(now.AddDate(0, 0, -11))},
		{ID: "t3", ClientID: strPtr(client.ID), Status: models.TaskTodo, Deadline: timePtr(now.AddDate(0, 0, -12))},
	}

	// 40 + 35 + 25 + 50 = 150 worth of demerits.
	result := ComputeHealth(client, tasks, nil, now)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, HealthRed, result.Level)
	assert.Len(t, result.Reasons, 4)
}

func TestComputeHealthReasonsMatchDeductions(t *testing.T) {
	now := date(2024, time.June, 10)

	perfect := ComputeHealth(healthyClient(now), nil, nil, now)
	require.Equal(t, 100, perfect.Score)
	assert.Empty(t, perfect.Reasons)

	dinged := healthyClient(now)
	dinged.Status = models.ClientPaused
	result := ComputeHealth(dinged, nil, nil, now)
	assert.NotEqual(t, 100, result.Score)
	assert.NotEmpty(t, result.Reasons)
}

func TestComputeHealthMonotonicity(t *testing.T) {
	now := date(2024, time.June, 10)
	client := healthyClient(now)

	before := ComputeHealth(client, nil, nil, now)
	after := ComputeHealth(client, []models.Task{
		{ID: "t1", ClientID: strPtr(client.ID), Status: models.TaskTodo, Deadline: timePtr(now.AddDate(0, 0, -1))},
	}, nil, now)

	assert.LessOrEqual(t, after.Score, before.Score)
}

func TestLevelForScoreBoundaries(t *testing.T) {
	cases := []struct {
		score int
		level HealthLevel
	}{
		{100, HealthGreen},
		{70, HealthGreen},
		{69, HealthYellow},
		{40, HealthYellow},
		{39, HealthRed},
		{0, HealthRed},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.level, LevelForScore(tc.score), "score %d", tc.score)
	}
}

// Scenario: fixed contract started 2024-01-15 evaluated early in its
// term, recent activity, nothing overdue.
func TestComputeHealthScenarioFreshFixedContract(t *testing.T) {
	now := date(2024, time.January, 10)
	client := models.Client{
		ID:           "client-1",
		Name:         "Acme",
		ContractType: models.ContractFixed,
		StartDate:    timePtr(date(2024, time.January, 15)),
		Status:       models.ClientActive,
		CreatedAt:    date(2023, time.December, 1),
	}
	activity := []models.ActivityEntry{
		{ID: "a1", ClientID: client.ID, CreatedAt: now.AddDate(0, 0, -2)},
	}

	result := ComputeHealth(client, nil, activity, now)
	assert.Equal(t, 100, result.Score)
	assert.Equal(t, HealthGreen, result.Level)
	assert.Empty(t, result.Reasons)
}

// Same client, but with three overdue tasks and 40 quiet days:
// 40 + 35 = 75 in demerits.
func TestComputeHealthScenarioDistressedClient(t *testing.T) {
	now := date(2024, time.January, 10)
	client := models.Client{
		ID:           "client-1",
		Name:         "Acme",
		ContractType: models.ContractFixed,
		StartDate:    timePtr(date(2024, time.January, 15)),
		Status:       models.ClientActive,
		CreatedAt:    date(2023, time.October, 1),
	}
	tasks := []models.Task{
		{ID: "t1", ClientID: strPtr(client.ID), Status: models.TaskTodo, Deadline: timePtr(now.AddDate(0, 0, -5))},
		{ID: "t2", ClientID: strPtr(client.ID), Status: models.TaskInProgress, Deadline: timePtr(now.AddDate(0, 0, -4))},
		{ID: "t3", ClientID: strPtr(client.ID), Status: models.TaskTodo, Deadline: timePtr(now.AddDate(0, 0, -3))},
	}
	activity := []models.ActivityEntry{
		{ID: "a1", ClientID: client.ID, CreatedAt: now.AddDate(0, 0, -40)},
	}

	result := ComputeHealth(client, tasks, activity, now)
	assert.Equal(t, 25, result.Score)
	assert.Equal(t, HealthRed, result.Level)
	assert.Equal(t, []string{"3 overdue tasks", "no activity for 40 days"}, result.Reasons)
}

func TestComputeHealthScoreAlwaysInBounds(t *testing.T) {
	now := date(2024, time.June, 10)
	statuses := []models.ClientStatus{models.ClientActive, models.ClientPaused, models.ClientTerminated}
	for _, status := range statuses {
		client := healthyClient(now)
		client.Status = status
		client.ContractType = models.ContractFixed
		client.StartDate = timePtr(now.AddDate(0, 0, -400))
		client.CreatedAt = now.AddDate(0, 0, -90)

		result := ComputeHealth(client, nil, nil, now)
		assert.GreaterOrEqual(t, result.Score, 0)
		assert.LessOrEqual(t, result.Score, 100)
		assert.Equal(t, LevelForScore(result.Score), result.Level)
	}
}
