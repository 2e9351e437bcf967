package dto

import "github.com/agencydesk/agency-api/internal/scoring"

// ClientHealthResponse pairs a client with its computed health result.
type ClientHealthResponse struct {
	ClientID   string               `json:"clientId"`
	ClientName string               `json:"clientName"`
	Health     scoring.HealthResult `json:"health"`
}

// ClientProfitabilityResponse carries one client's month profitability.
type ClientProfitabilityResponse struct {
	ClientID      string                      `json:"clientId"`
	ClientName    string                      `json:"clientName"`
	Month         string                      `json:"month"`
	Profitability scoring.ProfitabilityResult `json:"profitability"`
}

// AlertsResponse wraps the aggregated alert feed.
type AlertsResponse struct {
	Alerts []scoring.Alert `json:"alerts"`
	Count  int             `json:"count"`
}

// TaskQueueResponse wraps the ranked work queue.
type TaskQueueResponse struct {
	Queue []scoring.RankedTask `json:"queue"`
	Count int                  `json:"count"`
}
