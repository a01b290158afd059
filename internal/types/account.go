package types

// LoginResult is the token response of a successful login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      int    `json:"user_id"`
	Username    string `json:"username"`
	Role        string `json:"role"`
}

func (l LoginResult) Validate() error {
	return check("login result").
		require(l.AccessToken != "", "access_token is required").
		require(l.Username != "", "username is required").
		err()
}

// CurrentUser is the profile returned for the bearer token.
type CurrentUser struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (u CurrentUser) Validate() error {
	return check("current user").
		require(u.Username != "", "username is required").
		err()
}

// UserRecord is a registered account.
type UserRecord struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt Timestamp `json:"created_at"`
}

func (u UserRecord) Validate() error {
	return check("user").
		require(u.Username != "", "username is required").
		require(u.Role != "", "role is required").
		err()
}

// UserCreate is the registration body.
type UserCreate struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// UserFeedback is a free-text note left by an operator.
type UserFeedback struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	FeedbackText string    `json:"feedback_text"`
	CreatedAt    Timestamp `json:"created_at"`
}

func (f UserFeedback) Validate() error {
	return check("feedback").
		require(f.FeedbackText != "", "feedback_text is required").
		err()
}

// UserFeedbackCreate is the body for submitting feedback.
type UserFeedbackCreate struct {
	UserID       int    `json:"user_id"`
	FeedbackText string `json:"feedback_text"`
}
