package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a user in the system. Sessions is the ordered collection of
// this user's active refresh sessions (multi-device: zero, one or many).
//
// PasswordHash and Sessions are never serialized to JSON; responses carry only
// the public profile.
type User struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"password"`
	Sessions     []Session          `json:"-" bson:"sessions"`
}

// SessionByToken returns the session matching the given refresh token, or
// false if no such session exists.
func (u *User) SessionByToken(token string) (Session, bool) {
	for _, s := range u.Sessions {
		if s.Token == token {
			return s, true
		}
	}
	return Session{}, false
}
