package domain

import "time"

// Dashboard is the analytics overview returned to authenticated callers.
type Dashboard struct {
	Summary        DashboardSummary
	RecentActivity []Activity
}

// DashboardSummary aggregates configuration counts.
type DashboardSummary struct {
	TotalConfigurations     int
	TotalApplications       int
	SensitivityDistribution map[string]int
	Environments            map[string]int
}

// Activity is a single entry of the recent activity feed. Configuration is
// nil for actions that do not target a configuration.
type Activity struct {
	ID            int
	Action        string
	Configuration *string
	Timestamp     time.Time
}
