package model

import "time"

// SessionEventType identifies a session lifecycle transition.
type SessionEventType string

const (
	SessionEventLogin   SessionEventType = "LOGIN"
	SessionEventRefresh SessionEventType = "REFRESH"
	SessionEventLogout  SessionEventType = "LOGOUT"
)

// SessionEvent is an audit record of a session lifecycle transition. Events
// are published best-effort; the auth flow never fails on a publish error.
type SessionEvent struct {
	ID        string           `json:"id"`
	Type      SessionEventType `json:"type"`
	UserID    string           `json:"userId"`
	Timestamp time.Time        `json:"timestamp"`
}
