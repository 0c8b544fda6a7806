package repository

import (
	"context"

	"notemate/internal/notes/domain/model"
)

// NoteRepository defines the interface for note persistence. All operations
// are scoped to the owning user.
type NoteRepository interface {
	Create(ctx context.Context, note *model.Note) error
	GetByID(ctx context.Context, userID, noteID string) (*model.Note, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Note, error)
	Update(ctx context.Context, userID, noteID string, title, body string) error
	Delete(ctx context.Context, userID, noteID string) (*model.Note, error)
}
