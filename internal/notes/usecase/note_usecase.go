package usecase

import (
	"context"
	"fmt"
	"strings"

	"notemate/internal/notes/domain/model"
	"notemate/internal/notes/domain/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NoteUsecaseInterface defines the contract for note use cases. Every
// operation takes the verified user id from the authentication guard; the
// usecase never trusts a caller-supplied owner.
type NoteUsecaseInterface interface {
	CreateNote(ctx context.Context, userID string, req NoteRequest) (*model.Note, error)
	GetNote(ctx context.Context, userID, noteID string) (*model.Note, error)
	ListNotes(ctx context.Context, userID string) ([]*model.Note, error)
	UpdateNote(ctx context.Context, userID, noteID string, req NoteRequest) error
	DeleteNote(ctx context.Context, userID, noteID string) (*model.Note, error)
}

// NoteRequest represents a note create or update payload
type NoteRequest struct {
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
}

// NoteUsecase implements the note CRUD logic
type NoteUsecase struct {
	repo repository.NoteRepository
}

// NewNoteUsecase creates a new instance of NoteUsecase
func NewNoteUsecase(repo repository.NoteRepository) *NoteUsecase {
	return &NoteUsecase{repo: repo}
}

// CreateNote creates a note owned by the verified user
func (uc *NoteUsecase) CreateNote(ctx context.Context, userID string, req NoteRequest) (*model.Note, error) {
	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	note := &model.Note{
		Title:  strings.TrimSpace(req.Title),
		Body:   strings.TrimSpace(req.Body),
		UserID: ownerID,
	}
	if err := note.Validate(); err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, note); err != nil {
		return nil, err
	}

	return note, nil
}

// GetNote retrieves one owned note
func (uc *NoteUsecase) GetNote(ctx context.Context, userID, noteID string) (*model.Note, error) {
	return uc.repo.GetByID(ctx, userID, noteID)
}

// ListNotes retrieves all notes owned by the user
func (uc *NoteUsecase) ListNotes(ctx context.Context, userID string) ([]*model.Note, error) {
	return uc.repo.ListByUser(ctx, userID)
}

// UpdateNote patches an owned note
func (uc *NoteUsecase) UpdateNote(ctx context.Context, userID, noteID string, req NoteRequest) error {
	return uc.repo.Update(ctx, userID, noteID, strings.TrimSpace(req.Title), strings.TrimSpace(req.Body))
}

// DeleteNote removes an owned note and returns the removed document
func (uc *NoteUsecase) DeleteNote(ctx context.Context, userID, noteID string) (*model.Note, error) {
	return uc.repo.Delete(ctx, userID, noteID)
}

// Ensure NoteUsecase implements NoteUsecaseInterface
var _ NoteUsecaseInterface = (*NoteUsecase)(nil)
