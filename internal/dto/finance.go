package dto

// FinanceSummaryResponse aggregates revenue and costs for one month.
type FinanceSummaryResponse struct {
	Month         string  `json:"month"`
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalCosts    float64 `json:"totalCosts"`
	NetProfit     float64 `json:"netProfit"`
	ActiveClients int     `json:"activeClients"`
}

// CapacityMember is one staff member's weekly capacity.
type CapacityMember struct {
	UserID              string  `json:"userId"`
	FullName            string  `json:"fullName"`
	WeeklyCapacityHours float64 `json:"weeklyCapacityHours"`
}

// CapacityOverviewResponse compares planned client load against team capacity.
type CapacityOverviewResponse struct {
	WeeklyCapacityHours float64          `json:"weeklyCapacityHours"`
	WeeklyPlannedHours  float64          `json:"weeklyPlannedHours"`
	LoggedHoursThisWeek float64          `json:"loggedHoursThisWeek"`
	UtilizationPercent  float64          `json:"utilizationPercent"`
	Overloaded          bool             `json:"overloaded"`
	Members             []CapacityMember `json:"members"`
}
