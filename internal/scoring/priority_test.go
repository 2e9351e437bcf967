package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencydesk/agency-api/internal/models"
)

func TestRankTasksCriticalClientWinsEverything(t *testing.T) {
	now := date(2024, time.June, 10)
	clients := []models.Client{{ID: "client-1", Name: "Acme"}}
	health := map[string]HealthLevel{"client-1": HealthRed}

	tasks := []models.Task{
		{ID: "t1", Title: "Anything", ClientID: strPtr("client-1"), Status: models.TaskTodo, Priority: models.PriorityLow},
	}

	ranked := RankTasks(tasks, clients, health, now)
	require.Len(t, ranked, 1)
	assert.Equal(t, 1000, ranked[0].Score)
	assert.Equal(t, "Critical client", ranked[0].Reason)
	assert.True(t, ranked[0].Urgent)
	assert.Equal(t, "Acme", ranked[0].ClientName)
}

func TestRankTasksDueTodayVersusOverdue(t *testing.T) {
	now := date(2024, time.June, 10)
	tasks := []models.Task{
		{ID: "today", Title: "Due today", Status: models.TaskTodo, Priority: models.PriorityLow, Deadline: timePtr(date(2024, time.June, 10))},
		{ID: "late", Title: "Overdue", Status: models.TaskTodo, Priority: models.PriorityLow, Deadline: timePtr(date(2024, time.June, 9))},
	}

	ranked := RankTasks(tasks, nil, nil, now)
	require.Len(t, ranked, 2)

	byID := map[string]RankedTask{}
	for _, r := range ranked {
		byID[r.Task.ID] = r
	}

	assert.Equal(t, 500, byID["today"].Score)
	assert.Equal(t, "Due today", byID["today"].Reason)
	assert.Equal(t, 500, byID["late"].Score)
	assert.Equal(t, "Overdue", byID["late"].Reason)
}

func TestRankTasksLadderOrder(t *testing.T) {
	now := date(2024, time.June, 10)
	clients := []models.Client{
		{ID: "client-red", Name: "Critical Co"},
		{ID: "client-green", Name: "Fine Co"},
	}
	health := map[string]HealthLevel{
		"client-red":   HealthRed,
		"client-green": HealthGreen,
	}

	tasks := []models.Task{
		{ID: "normal-low", Status: models.TaskTodo, Priority: models.PriorityLow},
		{ID: "normal-medium", Status: models.TaskTodo, Priority: models.PriorityMedium},
		{ID: "tomorrow", Status: models.TaskTodo, Priority: models.PriorityLow, Deadline: timePtr(date(2024, time.June, 11))},
		{ID: "high", Status: models.TaskTodo, Priority: models.PriorityHigh, ClientID: strPtr("client-green")},
		{ID: "due", Status: models.TaskTodo, Priority: models.PriorityLow, Deadline: timePtr(date(2024, time.June, 10))},
		{ID: "critical", Status: models.TaskTodo, Priority: models.PriorityLow, ClientID: strPtr("client-red")},
	}

	ranked := RankTasks(tasks, clients, health, now)
	require.Len(t, ranked, 6)

	order := make([]string, 0, len(ranked))
	scores := make([]int, 0, len(ranked))
	for _, r := range ranked {
		order = append(order, r.Task.ID)
		scores = append(scores, r.Score)
	}

	assert.Equal(t, []string{"critical", "due", "high", "tomorrow", "normal-medium", "normal-low"}, order)
	assert.Equal(t, []int{1000, 500, 300, 150, 50, 10}, scores)
}

func TestRankTasksFirstMatchOnly(t *testing.T) {
	now := date(2024, time.June, 10)
	clients := []models.Client{{ID: "client-1", Name: "Acme"}}
	health := map[string]HealthLevel{"client-1": HealthRed}

	// Red client AND overdue AND high priority: only the first rule fires.
	tasks := []models.Task{
		{ID: "t1", ClientID: strPtr("client-1"), Status: models.TaskTodo, Priority: models.PriorityHigh, Deadline: timePtr(date(2024, time.June, 1))},
	}

	ranked := RankTasks(tasks, clients, health, now)
	require.Len(t, ranked, 1)
	assert.Equal(t, 1000, ranked[0].Score)
	assert.Equal(t, "Critical client", ranked[0].Reason)
}

func TestRankTasksHighPriorityBeatsTomorrowDeadline(t *testing.T) {
	now := date(2024, time.June, 10)

	// High priority takes precedence even when the task is due tomorrow.
	tasks := []models.Task{
		{ID: "t1", Status: models.TaskTodo, Priority: models.PriorityHigh, Deadline: timePtr(date(2024, time.June, 11))},
	}

	ranked := RankTasks(tasks, nil, nil, now)
	require.Len(t, ranked, 1)
	assert.Equal(t, 300, ranked[0].Score)
	assert.Equal(t, "Explicit urgency", ranked[0].Reason)
}

func TestRankTasksUnknownClientDefaultsToGreen(t *testing.T) {
	now := date(2024, time.June, 10)
	tasks := []models.Task{
		{ID: "orphan", ClientID: strPtr("vanished"), Status: models.TaskTodo, Priority: models.PriorityMedium},
		{ID: "unassigned", ClientID: nil, Status: models.TaskTodo, Priority: models.PriorityMedium},
	}

	ranked := RankTasks(tasks, nil, map[string]HealthLevel{}, now)
	require.Len(t, ranked, 2)
	for _, r := range ranked {
		assert.Equal(t, 50, r.Score)
		assert.Equal(t, "Normal queue", r.Reason)
		assert.False(t, r.Urgent)
	}
	assert.Equal(t, "No Client", ranked[0].ClientName)
}

func TestRankTasksStableOnTies(t *testing.T) {
	now := date(2024, time.June, 10)
	tasks := []models.Task{
		{ID: "a", Status: models.TaskTodo, Priority: models.PriorityMedium},
		{ID: "b", Status: models.TaskTodo, Priority: models.PriorityMedium},
		{ID: "c", Status: models.TaskTodo, Priority: models.PriorityMedium},
	}

	first := RankTasks(tasks, nil, nil, now)
	second := RankTasks(tasks, nil, nil, now)

	ids := func(ranked []RankedTask) []string {
		out := make([]string, 0, len(ranked))
		for _, r := range ranked {
			out = append(out, r.Task.ID)
		}
		return out
	}

	assert.Equal(t, []string{"a", "b", "c"}, ids(first))
	assert.Equal(t, ids(first), ids(second))
}
