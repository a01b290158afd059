package railapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"railspark/internal/apiclient"
	"railspark/internal/logging"
	"railspark/internal/session"
	"railspark/internal/types"
)

// AuthService covers /auth and keeps the session in step with it.
type AuthService struct {
	c       *apiclient.Client
	session *session.Session
}

// Login exchanges credentials for a token and populates the session.
func (s *AuthService) Login(ctx context.Context, username, password string) (types.LoginResult, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return types.LoginResult{}, fmt.Errorf("username and password are required")
	}
	form := url.Values{"username": {username}, "password": {password}}
	res, err := apiclient.PostJSON[types.LoginResult](ctx, s.c, withQuery("/auth/login", form), form)
	if err != nil {
		return res, err
	}
	if s.session != nil {
		user := &session.User{ID: res.UserID, Username: res.Username, Role: res.Role}
		if err := s.session.Login(res.AccessToken, user); err != nil {
			return res, fmt.Errorf("failed to save session: %w", err)
		}
	}
	return res, nil
}

// Register creates an account. The password is checked locally first.
func (s *AuthService) Register(ctx context.Context, u types.UserCreate) (types.UserRecord, error) {
	if check := session.ValidatePassword(u.Password); !check.Valid {
		return types.UserRecord{}, fmt.Errorf("weak password: %s", strings.Join(check.Issues, "; "))
	}
	if u.Role == "" {
		u.Role = session.RoleOperator
	}
	return apiclient.PostJSON[types.UserRecord](ctx, s.c, "/auth/register", u)
}

// Me returns the profile for the current token.
func (s *AuthService) Me(ctx context.Context) (types.CurrentUser, error) {
	return apiclient.GetJSON[types.CurrentUser](ctx, s.c, "/auth/me")
}

// ChangePassword changes the current user's password.
func (s *AuthService) ChangePassword(ctx context.Context, current, next string) error {
	if check := session.ValidatePassword(next); !check.Valid {
		return fmt.Errorf("weak password: %s", strings.Join(check.Issues, "; "))
	}
	_, err := s.c.Post(ctx, "/auth/change-password", map[string]string{
		"current_password": current,
		"new_password":     next,
	})
	return err
}

// ResetPassword starts a reset for email.
func (s *AuthService) ResetPassword(ctx context.Context, email string) error {
	if !session.ValidateEmail(email) {
		return fmt.Errorf("invalid email address %q", email)
	}
	_, err := s.c.Post(ctx, "/auth/reset-password", map[string]string{"email": email})
	return err
}

// VerifyToken reports whether the backend still accepts the session token.
// A rejected token also logs the session out.
func (s *AuthService) VerifyToken(ctx context.Context) (bool, error) {
	resp, err := s.c.Get(ctx, "/auth/verify")
	if errors.Is(err, apiclient.ErrAuthenticationRequired) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	valid, _ := types.ExtractBool(types.Field(resp.Value, "valid"))
	return valid, nil
}

// Logout clears the local session. The backend keeps no server-side state.
func (s *AuthService) Logout() {
	if s.session == nil {
		return
	}
	logging.Session("logout requested")
	s.session.Logout()
}
