package railapi

import (
	"context"
	"net/url"

	"railspark/internal/apiclient"
	"railspark/internal/session"
	"railspark/internal/types"
)

// InductionService covers /induction.
type InductionService struct {
	c       *apiclient.Client
	session *session.Session
}

func (s *InductionService) List(ctx context.Context) ([]types.InductionPlan, error) {
	return apiclient.GetJSON[[]types.InductionPlan](ctx, s.c, "/induction/")
}

func (s *InductionService) ForDate(ctx context.Context, day types.Date) ([]types.InductionPlan, error) {
	return apiclient.GetJSON[[]types.InductionPlan](ctx, s.c, path("/induction/date/%s", day))
}

func (s *InductionService) Today(ctx context.Context) ([]types.InductionPlan, error) {
	return apiclient.GetJSON[[]types.InductionPlan](ctx, s.c, "/induction/today")
}

// ServiceTrains lists the plans assigned to revenue service on day.
func (s *InductionService) ServiceTrains(ctx context.Context, day types.Date) ([]types.InductionPlan, error) {
	return apiclient.GetJSON[[]types.InductionPlan](ctx, s.c, path("/induction/service-trains/%s", day))
}

func (s *InductionService) Create(ctx context.Context, p types.InductionPlanCreate) (types.InductionPlan, error) {
	return apiclient.PostJSON[types.InductionPlan](ctx, s.c, "/induction/", p)
}

func (s *InductionService) CreateBulk(ctx context.Context, plans []types.InductionPlanCreate) ([]types.InductionPlan, error) {
	return apiclient.PostJSON[[]types.InductionPlan](ctx, s.c, "/induction/bulk", plans)
}

func (s *InductionService) Update(ctx context.Context, id int, p types.InductionPlanCreate) (types.InductionPlan, error) {
	return apiclient.PutJSON[types.InductionPlan](ctx, s.c, path("/induction/%d", id), p)
}

func (s *InductionService) Delete(ctx context.Context, id int) (types.Message, error) {
	return apiclient.DeleteJSON[types.Message](ctx, s.c, path("/induction/%d", id))
}

// Approve marks a plan approved. approvedBy 0 means the logged-in user.
func (s *InductionService) Approve(ctx context.Context, id, approvedBy int) (types.InductionPlan, error) {
	if approvedBy == 0 {
		uid, err := currentUserID(s.session)
		if err != nil {
			return types.InductionPlan{}, err
		}
		approvedBy = uid
	}
	q := url.Values{"approved_by": {itoa(approvedBy)}}
	return apiclient.PostJSON[types.InductionPlan](ctx, s.c, withQuery(path("/induction/%d/approve", id), q),
		map[string]int{"approved_by": approvedBy})
}
