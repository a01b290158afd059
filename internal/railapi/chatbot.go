package railapi

import (
	"context"

	"railspark/internal/apiclient"
	"railspark/internal/session"
	"railspark/internal/types"
)

// ChatbotService covers /chatbot. Messages carry the logged-in user's id
// when there is one so the assistant can keep per-user context.
type ChatbotService struct {
	c       *apiclient.Client
	session *session.Session
}

func (s *ChatbotService) Send(ctx context.Context, message string) (types.ChatReply, error) {
	q := types.ChatQuery{Message: message, UserID: optionalUserID(s.session)}
	return apiclient.PostJSON[types.ChatReply](ctx, s.c, "/chatbot/query", q)
}

func (s *ChatbotService) WhatIf(ctx context.Context, scenarioType, parameters string) (types.WhatIfAnalysis, error) {
	w := types.WhatIfScenario{ScenarioType: scenarioType, Parameters: parameters, UserID: optionalUserID(s.session)}
	return apiclient.PostJSON[types.WhatIfAnalysis](ctx, s.c, "/chatbot/what-if", w)
}

func (s *ChatbotService) Context(ctx context.Context) (types.ChatContext, error) {
	uid, err := currentUserID(s.session)
	if err != nil {
		return types.ChatContext{}, err
	}
	return apiclient.GetJSON[types.ChatContext](ctx, s.c, path("/chatbot/context/%d", uid))
}

func (s *ChatbotService) ClearContext(ctx context.Context) (types.Message, error) {
	uid, err := currentUserID(s.session)
	if err != nil {
		return types.Message{}, err
	}
	return apiclient.DeleteJSON[types.Message](ctx, s.c, path("/chatbot/context/%d", uid))
}

func (s *ChatbotService) Capabilities(ctx context.Context) (types.Capabilities, error) {
	return apiclient.GetJSON[types.Capabilities](ctx, s.c, "/chatbot/capabilities")
}
