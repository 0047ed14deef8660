package model

import "time"

// AuthSession is the server-side record behind a session cookie. ID is the
// keyed hash of the cookie secret, never the secret itself.
type AuthSession struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId" validate:"required"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"displayName,omitempty"`
	PhotoURL    string    `json:"photoUrl,omitempty"`
	Provider    string    `json:"provider" validate:"required"`
	ExpiresAt   time.Time `json:"expiresAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (s *AuthSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
