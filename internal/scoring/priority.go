package scoring

import (
	"sort"
	"time"

	"github.com/agencydesk/agency-api/internal/models"
)

// Priority scores assigned by the ranking ladder, highest first.
const (
	scoreCriticalClient = 1000
	scoreDueNow         = 500
	scoreHighPriority   = 300
	scoreDueTomorrow    = 150
	scoreMedium         = 50
	scoreLow            = 10
)

// RankedTask is a task annotated with its computed queue position inputs.
type RankedTask struct {
	Task       models.Task `json:"task"`
	ClientName string      `json:"clientName"`
	Score      int         `json:"score"`
	Reason     string      `json:"reason"`
	Urgent     bool        `json:"urgent"`
}

// RankTasks orders open (non-done) tasks into a "what to work on next"
// queue. Each task gets a score from a first-match-wins ladder that mixes
// its own urgency with the owning client's health level; tasks without a
// client, or whose client health is unknown, rank as if the client were
// green. The result is sorted descending by score; ties keep the relative
// input order (stable sort, no secondary key).
func RankTasks(openTasks []models.Task, clients []models.Client, healthByClient map[string]HealthLevel, now time.Time) []RankedTask {
	names := make(map[string]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}

	today := now.Format("2006-01-02")
	tomorrow := now.AddDate(0, 0, 1).Format("2006-01-02")

	ranked := make([]RankedTask, 0, len(openTasks))
	for _, t := range openTasks {
		level := HealthGreen
		clientName := "No Client"
		if t.ClientID != nil {
			if name, ok := names[*t.ClientID]; ok {
				clientName = name
			}
			if h, ok := healthByClient[*t.ClientID]; ok {
				level = h
			}
		}

		deadline := ""
		if t.Deadline != nil {
			deadline = t.Deadline.Format("2006-01-02")
		}

		entry := RankedTask{Task: t, ClientName: clientName}
		switch {
		case level == HealthRed:
			entry.Score = scoreCriticalClient
			entry.Reason = "Critical client"
			entry.Urgent = true
		case deadline != "" && deadline <= today:
			entry.Score = scoreDueNow
			entry.Urgent = true
			if deadline < today {
				entry.Reason = "Overdue"
			} else {
				entry.Reason = "Due today"
			}
		case t.Priority == models.PriorityHigh:
			entry.Score = scoreHighPriority
			entry.Reason = "Explicit urgency"
		case deadline == tomorrow:
			entry.Score = scoreDueTomorrow
			entry.Reason = "Due tomorrow"
		default:
			if t.Priority == models.PriorityMedium {
				entry.Score = scoreMedium
			} else {
				entry.Score = scoreLow
			}
			entry.Reason = "Normal queue"
		}
		ranked = append(ranked, entry)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}
