package railapi

import (
	"context"
	"fmt"
	"strings"

	"railspark/internal/apiclient"
	"railspark/internal/session"
	"railspark/internal/types"
)

// FeedbackService covers /feedback.
type FeedbackService struct {
	c       *apiclient.Client
	session *session.Session
}

// Submit posts feedback as the logged-in user.
func (s *FeedbackService) Submit(ctx context.Context, text string) (types.UserFeedback, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return types.UserFeedback{}, fmt.Errorf("feedback text is empty")
	}
	uid, err := currentUserID(s.session)
	if err != nil {
		return types.UserFeedback{}, err
	}
	body := types.UserFeedbackCreate{UserID: uid, FeedbackText: text}
	return apiclient.PostJSON[types.UserFeedback](ctx, s.c, "/feedback/", body)
}

func (s *FeedbackService) List(ctx context.Context) ([]types.UserFeedback, error) {
	return apiclient.GetJSON[[]types.UserFeedback](ctx, s.c, "/feedback/")
}

func (s *FeedbackService) Recent(ctx context.Context) ([]types.UserFeedback, error) {
	return apiclient.GetJSON[[]types.UserFeedback](ctx, s.c, "/feedback/recent")
}

func (s *FeedbackService) ForUser(ctx context.Context, userID int) ([]types.UserFeedback, error) {
	return apiclient.GetJSON[[]types.UserFeedback](ctx, s.c, path("/feedback/user/%d", userID))
}
