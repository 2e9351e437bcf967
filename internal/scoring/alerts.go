package scoring

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/agencydesk/agency-api/internal/models"
)

// AlertLevel orders alerts by severity.
type AlertLevel string

const (
	LevelUrgent  AlertLevel = "urgent"
	LevelWarning AlertLevel = "warning"
)

// AlertKind names the condition that raised an alert.
type AlertKind string

const (
	KindDeadline       AlertKind = "deadline"
	KindInactivity     AlertKind = "inactivity"
	KindCriticalHealth AlertKind = "critical_health"
	KindContractExpiry AlertKind = "contract_expiry"
	KindPortalMessage  AlertKind = "portal_message"
)

// Alert is a single actionable condition surfaced to agency staff.
type Alert struct {
	ID          string     `json:"id"`
	Kind        AlertKind  `json:"kind"`
	Level       AlertLevel `json:"level"`
	ClientID    string     `json:"clientId"`
	ClientName  string     `json:"clientName"`
	Description string     `json:"description"`
	TargetLink  string     `json:"targetLink"`
}

// ComputeAlerts scans all clients and emits a flat, prioritized alert
// feed. Terminated clients are skipped entirely. Deadline alerts are
// per task; the remaining conditions fire at most once per client. The
// result is stably sorted urgent-first, then by client name ascending.
//
// Fixed contracts that are already expired raise no contract-expiry
// alert; only the expiring-soon window does. The health scorer does flag
// expired contracts, so the feed and the score disagree on purpose here
// (pending product clarification).
func ComputeAlerts(clients []models.Client, tasks []models.Task, activity []models.ActivityEntry, messages []models.PortalMessage, now time.Time) []Alert {
	alerts := []Alert{}

	for _, c := range clients {
		if c.Status == models.ClientTerminated {
			continue
		}

		// 1. Task deadlines: due within 48h, or already overdue. The two
		// windows are disjoint in time, so a task raises one or the other.
		for _, t := range tasks {
			if t.ClientID == nil || *t.ClientID != c.ID {
				continue
			}
			if t.Status == models.TaskDone || t.Deadline == nil {
				continue
			}
			endOfDay := dayEnd(*t.Deadline)
			hoursRemaining := endOfDay.Sub(now).Hours()
			if hoursRemaining > 0 && hoursRemaining < 48 {
				alerts = append(alerts, Alert{
					ID:          "task-due-" + t.ID,
					Kind:        KindDeadline,
					Level:       LevelUrgent,
					ClientID:    c.ID,
					ClientName:  c.Name,
					Description: fmt.Sprintf("Task %q due in %dh", t.Title, int(math.Ceil(hoursRemaining))),
					TargetLink:  "/tasks",
				})
			}
			if endOfDay.Before(now) {
				alerts = append(alerts, Alert{
					ID:          "task-overdue-" + t.ID,
					Kind:        KindDeadline,
					Level:       LevelUrgent,
					ClientID:    c.ID,
					ClientName:  c.Name,
					Description: fmt.Sprintf("Task %q is overdue", t.Title),
					TargetLink:  "/tasks",
				})
			}
		}

		// 2. Inactivity, same recency baseline as the health scorer.
		daysSince := now.Sub(lastActivityAt(c, activity)).Hours() / 24
		if daysSince > 7 {
			level := LevelWarning
			if daysSince > 30 {
				level = LevelUrgent
			}
			alerts = append(alerts, Alert{
				ID:          "inactivity-" + c.ID,
				Kind:        KindInactivity,
				Level:       level,
				ClientID:    c.ID,
				ClientName:  c.Name,
				Description: fmt.Sprintf("No activity for %d days", int(daysSince)),
				TargetLink:  "/clients",
			})
		}

		// 3. Fixed contract entering the expiry window.
		if c.ContractType == models.ContractFixed && c.StartDate != nil {
			expiry := c.StartDate.Add(contractTermDays * 24 * time.Hour)
			daysToExpiry := expiry.Sub(now).Hours() / 24
			if daysToExpiry >= 0 && daysToExpiry < 30 {
				level := LevelWarning
				if daysToExpiry < 7 {
					level = LevelUrgent
				}
				alerts = append(alerts, Alert{
					ID:          "contract-expiry-" + c.ID,
					Kind:        KindContractExpiry,
					Level:       level,
					ClientID:    c.ID,
					ClientName:  c.Name,
					Description: fmt.Sprintf("Fixed contract expires in %d days", int(math.Ceil(daysToExpiry))),
					TargetLink:  "/clients",
				})
			}
		}

		// 4. Unread portal messages.
		unread := 0
		for _, m := range messages {
			if m.ClientID == c.ID && !m.Read {
				unread++
			}
		}
		if unread > 0 {
			alerts = append(alerts, Alert{
				ID:          "portal-message-" + c.ID,
				Kind:        KindPortalMessage,
				Level:       LevelUrgent,
				ClientID:    c.ID,
				ClientName:  c.Name,
				Description: fmt.Sprintf("%d new message(s) in Portal", unread),
				TargetLink:  "/clients",
			})
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Level != alerts[j].Level {
			return alerts[i].Level == LevelUrgent
		}
		return alerts[i].ClientName < alerts[j].ClientName
	})

	return alerts
}

// dayEnd returns the last second of the calendar day containing t.
func dayEnd(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}
