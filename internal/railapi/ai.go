package railapi

import (
	"context"

	"railspark/internal/apiclient"
	"railspark/internal/types"
)

// AIService covers /ai: eligibility, plan generation and failure prediction.
type AIService struct {
	c *apiclient.Client
}

func (s *AIService) Eligibility(ctx context.Context) ([]types.TrainEligibility, error) {
	return apiclient.GetJSON[[]types.TrainEligibility](ctx, s.c, "/ai/eligibility")
}

func (s *AIService) TrainEligibility(ctx context.Context, trainID int) (types.TrainEligibility, error) {
	return apiclient.GetJSON[types.TrainEligibility](ctx, s.c, path("/ai/eligibility/%d", trainID))
}

// GeneratePlan asks the optimizer for a plan. Both arguments may be nil.
func (s *AIService) GeneratePlan(ctx context.Context, planDate *types.Date, constraints *types.PlanConstraints) ([]types.PlannedInduction, error) {
	req := types.GeneratePlanRequest{PlanDate: planDate, Constraints: constraints}
	return apiclient.PostJSON[[]types.PlannedInduction](ctx, s.c, "/ai/generate-plan", req)
}

func (s *AIService) FailurePredictions(ctx context.Context) ([]types.FailurePrediction, error) {
	return apiclient.GetJSON[[]types.FailurePrediction](ctx, s.c, "/ai/failure-predictions")
}

func (s *AIService) TrainFailurePrediction(ctx context.Context, trainID int) (types.FailurePrediction, error) {
	return apiclient.GetJSON[types.FailurePrediction](ctx, s.c, path("/ai/failure-predictions/%d", trainID))
}

// TrainModel retrains the failure model.
func (s *AIService) TrainModel(ctx context.Context) (types.ModelTrainingResult, error) {
	return apiclient.PostJSON[types.ModelTrainingResult](ctx, s.c, "/ai/train-model", nil)
}

func (s *AIService) OptimizationStats(ctx context.Context) (types.OptimizationStats, error) {
	return apiclient.GetJSON[types.OptimizationStats](ctx, s.c, "/ai/optimization-stats")
}
