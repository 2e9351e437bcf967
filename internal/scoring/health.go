// Package scoring contains the client-scoring and prioritization engine:
// pure, deterministic computations over already-loaded entity snapshots.
// Every entry point takes an explicit reference time so results are
// reproducible; nothing in this package reads the wall clock or performs
// I/O.
package scoring

import (
	"fmt"
	"math"
	"time"

	"github.com/agencydesk/agency-api/internal/models"
)

// HealthLevel classifies a client health score.
type HealthLevel string

const (
	HealthGreen  HealthLevel = "green"
	HealthYellow HealthLevel = "yellow"
	HealthRed    HealthLevel = "red"
)

// HealthResult is the outcome of scoring a single client.
type HealthResult struct {
	Level   HealthLevel `json:"level"`
	Score   int         `json:"score"`
	Reasons []string    `json:"reasons"`
}

// Contract expiry is fixed at one year after the start date.
const contractTermDays = 365

// ComputeHealth scores one client from the full task and activity
// collections, filtering internally by client ID. The score starts at 100
// and loses points per detected risk condition, floored at 0. The four
// checks are independent and cumulative; the bands within each check are
// mutually exclusive. The function is total over any client state,
// including terminated clients.
func ComputeHealth(client models.Client, tasks []models.Task, activity []models.ActivityEntry, now time.Time) HealthResult {
	demerits := 0
	reasons := []string{}

	// 1. Overdue tasks.
	overdue := 0
	for _, t := range tasks {
		if t.ClientID == nil || *t.ClientID != client.ID {
			continue
		}
		if t.Status != models.TaskDone && t.Deadline != nil && t.Deadline.Before(now) {
			overdue++
		}
	}
	if overdue >= 3 {
		demerits += 40
		reasons = append(reasons, fmt.Sprintf("%d overdue tasks", overdue))
	} else if overdue >= 1 {
		demerits += 20
		reasons = append(reasons, fmt.Sprintf("%d overdue task(s)", overdue))
	}

	// 2. Engagement recency. A client with no activity history falls back
	// to its own creation timestamp.
	daysSince := now.Sub(lastActivityAt(client, activity)).Hours() / 24
	if daysSince > 30 {
		demerits += 35
		reasons = append(reasons, fmt.Sprintf("no activity for %d days", int(daysSince)))
	} else if daysSince > 7 {
		demerits += 15
		reasons = append(reasons, fmt.Sprintf("no activity for %d days", int(daysSince)))
	}

	// 3. Contract expiry, fixed contracts with a known start date only.
	if client.ContractType == models.ContractFixed && client.StartDate != nil {
		expiry := client.StartDate.Add(contractTermDays * 24 * time.Hour)
		daysToExpiry := expiry.Sub(now).Hours() / 24
		if daysToExpiry < 0 {
			demerits += 25
			reasons = append(reasons, "contract expired")
		} else if daysToExpiry < 30 {
			demerits += 15
			reasons = append(reasons, fmt.Sprintf("contract expires in %d days", int(math.Ceil(daysToExpiry))))
		}
	}

	// 4. Client status.
	switch client.Status {
	case models.ClientTerminated:
		demerits += 50
		reasons = append(reasons, "contract terminated")
	case models.ClientPaused:
		demerits += 20
		reasons = append(reasons, "contract paused")
	}

	score := 100 - demerits
	if score < 0 {
		score = 0
	}

	return HealthResult{Level: LevelForScore(score), Score: score, Reasons: reasons}
}

// lastActivityAt returns the newest activity timestamp recorded for the
// client. A client with no entries falls back to its creation time, so a
// freshly onboarded client is not penalized for an empty history.
func lastActivityAt(client models.Client, activity []models.ActivityEntry) time.Time {
	var last time.Time
	found := false
	for _, a := range activity {
		if a.ClientID == client.ID && (!found || a.CreatedAt.After(last)) {
			last = a.CreatedAt
			found = true
		}
	}
	if !found {
		return client.CreatedAt
	}
	return last
}

// LevelForScore maps a 0-100 score onto a traffic-light level.
func LevelForScore(score int) HealthLevel {
	switch {
	case score >= 70:
		return HealthGreen
	case score >= 40:
		return HealthYellow
	default:
		return HealthRed
	}
}
