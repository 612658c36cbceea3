package models

import "time"

// SessionUser identifies the authenticated caller. AccessToken is the
// upstream credential forwarded with every protected request.
type SessionUser struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Image       string `json:"image,omitempty"`
	Role        string `json:"role,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
}

// Session is the server-held record created at sign-in and destroyed at
// sign-out. It lives in Redis under a TTL matching ExpiresAt.
type Session struct {
	ID        string      `json:"id"`
	User      SessionUser `json:"user"`
	CreatedAt time.Time   `json:"created_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}
