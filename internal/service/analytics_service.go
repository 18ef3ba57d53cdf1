package service

import (
	"context"
	"time"

	"github.com/spec-kit/config-manager/internal/domain"
)

// AnalyticsProvider supplies dashboard analytics.
type AnalyticsProvider interface {
	Dashboard(ctx context.Context) (*domain.Dashboard, error)
}

// StaticAnalyticsProvider serves a fixed mock dashboard. Nothing in it is
// derived from directory state.
type StaticAnalyticsProvider struct{}

// NewStaticAnalyticsProvider returns the mock provider.
func NewStaticAnalyticsProvider() *StaticAnalyticsProvider {
	return &StaticAnalyticsProvider{}
}

// Dashboard returns a fresh copy of the mock payload on every call.
func (StaticAnalyticsProvider) Dashboard(_ context.Context) (*domain.Dashboard, error) {
	apiKeys := "API Keys"
	chatBot := "Chat Bot"

	return &domain.Dashboard{
		Summary: domain.DashboardSummary{
			TotalConfigurations: 42,
			TotalApplications:   8,
			SensitivityDistribution: map[string]int{
				"high":   5,
				"medium": 15,
				"low":    22,
			},
			Environments: map[string]int{
				"production":  12,
				"staging":     18,
				"development": 12,
			},
		},
		RecentActivity: []domain.Activity{
			{ID: 1, Action: "configuration_updated", Configuration: &apiKeys, Timestamp: mockTime(10)},
			{ID: 2, Action: "application_created", Configuration: &chatBot, Timestamp: mockTime(9)},
			{ID: 3, Action: "audit_completed", Configuration: nil, Timestamp: mockTime(8)},
		},
	}, nil
}

func mockTime(hour int) time.Time {
	return time.Date(2025, time.June, 14, hour, 0, 0, 0, time.UTC)
}
