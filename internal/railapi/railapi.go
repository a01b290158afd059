// Package railapi provides typed access to every RailSpark backend area on
// top of an apiclient.Client. Services share the client, so they share its
// loading and error state.
package railapi

import (
	"fmt"
	"net/url"
	"strconv"

	"railspark/internal/apiclient"
	"railspark/internal/session"
)

// API groups the per-area services.
type API struct {
	client  *apiclient.Client
	session *session.Session

	Auth      *AuthService
	Trains    *TrainService
	Fitness   *FitnessService
	JobCards  *JobCardService
	Branding  *BrandingService
	Cleaning  *CleaningService
	Stabling  *StablingService
	Induction *InductionService
	AI        *AIService
	Chatbot   *ChatbotService
	Dashboard *DashboardService
	Feedback  *FeedbackService
	Uploads   *UploadService
}

// New wires all services to client. sess may be nil; operations that need
// the current user then fail with ErrNotLoggedIn.
func New(client *apiclient.Client, sess *session.Session) *API {
	return &API{
		client:    client,
		session:   sess,
		Auth:      &AuthService{c: client, session: sess},
		Trains:    &TrainService{c: client},
		Fitness:   &FitnessService{c: client},
		JobCards:  &JobCardService{c: client},
		Branding:  &BrandingService{c: client},
		Cleaning:  &CleaningService{c: client},
		Stabling:  &StablingService{c: client},
		Induction: &InductionService{c: client, session: sess},
		AI:        &AIService{c: client},
		Chatbot:   &ChatbotService{c: client, session: sess},
		Dashboard: &DashboardService{c: client},
		Feedback:  &FeedbackService{c: client, session: sess},
		Uploads:   &UploadService{c: client},
	}
}

// Client returns the underlying request client.
func (a *API) Client() *apiclient.Client {
	return a.client
}

// Session returns the injected session, or nil.
func (a *API) Session() *session.Session {
	return a.session
}

// ErrNotLoggedIn is returned by operations that need the current user.
var ErrNotLoggedIn = fmt.Errorf("not logged in")

func currentUserID(s *session.Session) (int, error) {
	if s == nil {
		return 0, ErrNotLoggedIn
	}
	id := s.UserID()
	if id == nil {
		return 0, ErrNotLoggedIn
	}
	return *id, nil
}

func optionalUserID(s *session.Session) *int {
	if s == nil {
		return nil
	}
	return s.UserID()
}

func path(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

func withQuery(endpoint string, q url.Values) string {
	if len(q) == 0 {
		return endpoint
	}
	return endpoint + "?" + q.Encode()
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
