package model

import "time"

// Session represents one logged-in client of a user. The token is the opaque
// refresh credential; ExpiresAt is an absolute epoch-seconds instant.
//
// Expired sessions are not swept from storage. Expiry is enforced only when a
// session is presented (see the session guard), so a record may outlive its
// ExpiresAt until logout removes it.
type Session struct {
	Token     string `json:"token" bson:"token"`
	ExpiresAt int64  `json:"expiresAt" bson:"expiresAt"`
}

// Expired reports whether the session is past its expiry at the given instant.
func (s Session) Expired(now time.Time) bool {
	return s.ExpiresAt <= now.Unix()
}
