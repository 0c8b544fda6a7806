package http

import (
	"errors"

	"notemate/internal/notes/usecase"
	apperrors "notemate/internal/shared/errors"
	"notemate/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
)

// NoteHTTPHandler handles HTTP requests for notes. All routes sit behind the
// authentication guard; the verified user id arrives via the request context.
type NoteHTTPHandler struct {
	usecase usecase.NoteUsecaseInterface
}

// NewNoteHTTPHandler creates a new note HTTP handler
func NewNoteHTTPHandler(uc usecase.NoteUsecaseInterface) *NoteHTTPHandler {
	return &NoteHTTPHandler{
		usecase: uc,
	}
}

// SetupNoteRoutes registers note routes behind the given guard
func (h *NoteHTTPHandler) SetupNoteRoutes(router fiber.Router, authenticate fiber.Handler) {
	notes := router.Group("/notes", authenticate)
	notes.Get("/", h.ListNotes)
	notes.Get("/:id", h.GetNote)
	notes.Post("/", h.CreateNote)
	notes.Patch("/:id", h.UpdateNote)
	notes.Delete("/:id", h.DeleteNote)
}

// ListNotes returns all notes owned by the caller
func (h *NoteHTTPHandler) ListNotes(c *fiber.Ctx) error {
	userID, err := utils.GetUserIDFromContext(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	notes, err := h.usecase.ListNotes(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(notes)
}

// GetNote returns one owned note
func (h *NoteHTTPHandler) GetNote(c *fiber.Ctx) error {
	userID, err := utils.GetUserIDFromContext(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	note, err := h.usecase.GetNote(c.Context(), userID, c.Params("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNoteNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Note not found",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(note)
}

// CreateNote creates a note owned by the caller
func (h *NoteHTTPHandler) CreateNote(c *fiber.Ctx) error {
	userID, err := utils.GetUserIDFromContext(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req usecase.NoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	note, err := h.usecase.CreateNote(c.Context(), userID, req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(note)
}

// UpdateNote patches one owned note
func (h *NoteHTTPHandler) UpdateNote(c *fiber.Ctx) error {
	userID, err := utils.GetUserIDFromContext(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req usecase.NoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.usecase.UpdateNote(c.Context(), userID, c.Params("id"), req); err != nil {
		if errors.Is(err, apperrors.ErrNoteNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Note not found",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

// DeleteNote removes one owned note and echoes the removed document
func (h *NoteHTTPHandler) DeleteNote(c *fiber.Ctx) error {
	userID, err := utils.GetUserIDFromContext(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	note, err := h.usecase.DeleteNote(c.Context(), userID, c.Params("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNoteNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Note not found",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(note)
}
