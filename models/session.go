package models

import "time"

// Session carries the signed-in identity handed over by the platform's
// authentication flow. The engine only forwards Token to the remote
// store; UserID and Email are informational.
type Session struct {
	// Token is the bearer credential for the remote store.
	Token string `json:"-"`

	// UserID is the subject claim of the identity token.
	UserID string `json:"user_id"`

	// Email is the account email from the identity token, may be empty.
	Email string `json:"email,omitempty"`

	// ExpiresAt is the identity token's expiry, nil when unknown.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Active reports whether the session holds a credential.
func (s Session) Active() bool {
	return s.Token != ""
}
