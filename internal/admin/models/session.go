package models

import "time"

// AdminSession is one authenticated dashboard session. Logout deletes it, so
// token validation always checks the session still exists.
type AdminSession struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	ClientIP  string    `json:"client_ip,omitempty"`
	Device    string    `json:"device,omitempty"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session has passed its expiry.
func (s AdminSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
