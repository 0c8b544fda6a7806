package model

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrTitleRequired = errors.New("note title is required")
)

// Note is a single note document, owned by exactly one user. Every query is
// scoped by UserID so a caller can never reach another user's notes.
type Note struct {
	ID     primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title  string             `json:"title" bson:"title"`
	Body   string             `json:"body,omitempty" bson:"body,omitempty"`
	UserID primitive.ObjectID `json:"_userId" bson:"_userId"`
}

// Validate checks the note's required fields.
func (n *Note) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return ErrTitleRequired
	}
	return nil
}
