package notes

import (
	"fmt"

	noteshttp "notemate/internal/notes/adapter/http"
	"notemate/internal/notes/adapter/persistence/mongodb"
	"notemate/internal/notes/domain/repository"
	"notemate/internal/notes/usecase"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// NotesModule represents the complete notes module
type NotesModule struct {
	repository repository.NoteRepository
	usecase    usecase.NoteUsecaseInterface
	handler    *noteshttp.NoteHTTPHandler
}

// NewNotesModule creates a new notes module instance
func NewNotesModule(db *mongo.Database) (*NotesModule, error) {
	noteRepo, err := mongodb.NewMongoNoteRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create note repository: %w", err)
	}

	noteUsecase := usecase.NewNoteUsecase(noteRepo)
	handler := noteshttp.NewNoteHTTPHandler(noteUsecase)

	return &NotesModule{
		repository: noteRepo,
		usecase:    noteUsecase,
		handler:    handler,
	}, nil
}

// RegisterRoutes registers note routes behind the provided authentication guard
func (nm *NotesModule) RegisterRoutes(router fiber.Router, authenticate fiber.Handler) {
	nm.handler.SetupNoteRoutes(router, authenticate)
}

// GetUsecase returns the note usecase for external access
func (nm *NotesModule) GetUsecase() usecase.NoteUsecaseInterface {
	return nm.usecase
}
