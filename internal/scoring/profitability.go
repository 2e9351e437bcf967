package scoring

import (
	"strings"
	"time"

	"github.com/agencydesk/agency-api/internal/models"
)

// ProfitabilityResult is a single month's margin snapshot for one client.
type ProfitabilityResult struct {
	ContractValue float64 `json:"contractValue"`
	HoursLogged   float64 `json:"hoursLogged"`
	Cost          float64 `json:"cost"`
	Margin        float64 `json:"margin"`
	Profitable    bool    `json:"profitable"`
	MarginPercent float64 `json:"marginPercent"`
}

// ComputeProfitability derives the monthly margin for one client from its
// logged hours and contract value. yearMonth is a YYYY-MM prefix; when
// empty it defaults to the month containing now. Hour entries are matched
// by string prefix on their zero-padded YYYY-MM-DD date. A margin of
// exactly zero counts as profitable. When the client carries no contract
// value, marginPercent collapses to a ±100 sentinel preserving the sign.
func ComputeProfitability(client models.Client, hours []models.HourEntry, hourlyRate float64, yearMonth string, now time.Time) ProfitabilityResult {
	month := yearMonth
	if month == "" {
		month = now.Format("2006-01")
	}

	var logged float64
	for _, h := range hours {
		if h.ClientID == client.ID && strings.HasPrefix(h.Date, month) {
			logged += h.Hours
		}
	}

	cost := logged * hourlyRate
	var contractValue float64
	if client.MonthlyValue != nil {
		contractValue = *client.MonthlyValue
	}
	margin := contractValue - cost
	profitable := margin >= 0

	var marginPercent float64
	switch {
	case contractValue > 0:
		marginPercent = (margin / contractValue) * 100
	case profitable:
		marginPercent = 100
	default:
		marginPercent = -100
	}

	return ProfitabilityResult{
		ContractValue: contractValue,
		HoursLogged:   logged,
		Cost:          cost,
		Margin:        margin,
		Profitable:    profitable,
		MarginPercent: marginPercent,
	}
}
