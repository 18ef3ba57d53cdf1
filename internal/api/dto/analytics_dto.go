package dto

import "github.com/spec-kit/config-manager/internal/domain"

// DashboardResponse mirrors domain.Dashboard with wire names.
type DashboardResponse struct {
	Summary        SummaryResponse    `json:"summary"`
	RecentActivity []ActivityResponse `json:"recent_activity"`
}

// SummaryResponse payload.
type SummaryResponse struct {
	TotalConfigurations     int            `json:"total_configurations"`
	TotalApplications       int            `json:"total_applications"`
	SensitivityDistribution map[string]int `json:"sensitivity_distribution"`
	Environments            map[string]int `json:"environments"`
}

// ActivityResponse payload. Configuration serializes as null when absent.
type ActivityResponse struct {
	ID            int     `json:"id"`
	Action        string  `json:"action"`
	Configuration *string `json:"configuration"`
	Timestamp     string  `json:"timestamp"`
}

// NewDashboardResponse converts the domain dashboard.
func NewDashboardResponse(d *domain.Dashboard) DashboardResponse {
	activity := make([]ActivityResponse, 0, len(d.RecentActivity))
	for _, a := range d.RecentActivity {
		activity = append(activity, ActivityResponse{
			ID:            a.ID,
			Action:        a.Action,
			Configuration: a.Configuration,
			Timestamp:     a.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	return DashboardResponse{
		Summary: SummaryResponse{
			TotalConfigurations:     d.Summary.TotalConfigurations,
			TotalApplications:       d.Summary.TotalApplications,
			SensitivityDistribution: d.Summary.SensitivityDistribution,
			Environments:            d.Summary.Environments,
		},
		RecentActivity: activity,
	}
}
