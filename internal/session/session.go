// Package session holds the authenticated user and bearer token shared by
// every request-issuing component. A Session is created explicitly and
// injected; there is no package-level instance.
package session

import (
	"sync"
	"time"

	"railspark/internal/logging"
)

// Roles known to the backend.
const (
	RoleOperator   = "operator"
	RoleSupervisor = "supervisor"
	RoleAdmin      = "admin"
)

// User is the profile of the logged-in user.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// State is the persisted form of a session.
type State struct {
	Token   string    `json:"token"`
	User    *User     `json:"user,omitempty"`
	SavedAt time.Time `json:"saved_at"`
}

// Store persists session state between process runs.
type Store interface {
	Load() (*State, error)
	Save(*State) error
	Clear() error
}

// Session is the authentication context.
type Session struct {
	mu        sync.RWMutex
	token     string
	user      *User
	store     Store
	listeners []func()
	logouts   int
}

// New creates an empty in-memory session.
func New() *Session {
	return &Session{}
}

// NewWithStore creates a session backed by store and restores any saved state.
func NewWithStore(store Store) (*Session, error) {
	s := &Session{store: store}
	state, err := store.Load()
	if err != nil {
		return nil, err
	}
	if state != nil {
		s.token = state.Token
		s.user = copyUser(state.User)
	}
	return s, nil
}

// Token returns the bearer token, or "" when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the current user, or nil.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyUser(s.user)
}

// UserID returns the current user's id, or nil when anonymous.
func (s *Session) UserID() *int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	id := s.user.ID
	return &id
}

// IsAuthenticated reports whether a token is present.
func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// Login populates the session and persists it when a store is attached.
func (s *Session) Login(token string, user *User) error {
	s.mu.Lock()
	s.token = token
	s.user = copyUser(user)
	store := s.store
	s.mu.Unlock()

	name := ""
	if user != nil {
		name = user.Username
	}
	logging.Session("login: user=%q", name)

	if store == nil {
		return nil
	}
	return store.Save(&State{Token: token, User: copyUser(user), SavedAt: time.Now()})
}

// Logout clears the session, removes persisted state and notifies listeners.
func (s *Session) Logout() {
	s.mu.Lock()
	s.logouts++
	store := s.store
	s.mu.Unlock()

	s.reset()

	if store != nil {
		if err := store.Clear(); err != nil {
			logging.SessionWarn("logout: failed to clear stored session: %v", err)
		}
	}
	logging.Session("logout")
}

// reset clears token and user and fires listeners without touching the store.
func (s *Session) reset() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	listeners := append([]func(){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// apply replaces the in-memory state without persisting it.
func (s *Session) apply(state *State) {
	if state == nil || state.Token == "" {
		if s.IsAuthenticated() {
			s.reset()
		}
		return
	}
	s.mu.Lock()
	s.token = state.Token
	s.user = copyUser(state.User)
	s.mu.Unlock()
}

// OnLogout registers fn to run whenever the session is cleared.
func (s *Session) OnLogout(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// LogoutCount returns how many times Logout has been called.
func (s *Session) LogoutCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.logouts
}

// HasRole reports whether the user has exactly role.
func (s *Session) HasRole(role string) bool {
	u := s.User()
	if u == nil || u.Role == "" {
		return false
	}
	return u.Role == role
}

// HasAnyRole reports whether the user has one of roles.
func (s *Session) HasAnyRole(roles ...string) bool {
	u := s.User()
	if u == nil || u.Role == "" {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

func (s *Session) IsOperator() bool   { return s.HasRole(RoleOperator) }
func (s *Session) IsSupervisor() bool { return s.HasRole(RoleSupervisor) }
func (s *Session) IsAdmin() bool      { return s.HasRole(RoleAdmin) }

func copyUser(u *User) *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
