package railapi

import (
	"context"

	"railspark/internal/apiclient"
	"railspark/internal/types"
)

// DashboardService covers /dashboard. Only the overview has a fixed shape;
// the other views are returned as decoded JSON documents.
type DashboardService struct {
	c *apiclient.Client
}

func (s *DashboardService) Overview(ctx context.Context) (types.DashboardOverview, error) {
	return apiclient.GetJSON[types.DashboardOverview](ctx, s.c, "/dashboard/overview")
}

func (s *DashboardService) TrainStatus(ctx context.Context) ([]map[string]any, error) {
	return apiclient.GetJSON[[]map[string]any](ctx, s.c, "/dashboard/train-status")
}

func (s *DashboardService) MaintenanceAlerts(ctx context.Context) (any, error) {
	return s.document(ctx, "/dashboard/maintenance-alerts")
}

func (s *DashboardService) BrandingCompliance(ctx context.Context) (any, error) {
	return s.document(ctx, "/dashboard/branding-compliance")
}

func (s *DashboardService) PredictiveAnalytics(ctx context.Context) (any, error) {
	return s.document(ctx, "/dashboard/predictive-analytics")
}

func (s *DashboardService) TrainReadiness(ctx context.Context) (any, error) {
	return s.document(ctx, "/dashboard/train-readiness")
}

func (s *DashboardService) document(ctx context.Context, endpoint string) (any, error) {
	resp, err := s.c.Get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return resp.Value, nil
}
