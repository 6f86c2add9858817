package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/notehub/core/internal/application/services"
	"github.com/notehub/core/internal/domain/entities"
	"github.com/notehub/core/internal/infrastructure/logger"
	"github.com/notehub/core/internal/ports"
)

// userIDKey is the echo context key carrying the verified owner id.
const userIDKey = "user_id"

// UserIDFromContext returns the verified owner id set by the auth
// middleware.
func UserIDFromContext(c echo.Context) string {
	if id, ok := c.Get(userIDKey).(string); ok {
		return id
	}
	return ""
}

// SetUserID stores the verified owner id on the request context.
func SetUserID(c echo.Context, userID string) {
	c.Set(userIDKey, userID)
}

// statusCode translates a result status into a transport status code.
// Failed deliberately maps to a generic 400 with no internal detail.
func statusCode(status entities.ResultStatus) int {
	switch status {
	case entities.StatusSuccess:
		return http.StatusOK
	case entities.StatusBadRequest, entities.StatusFailed:
		return http.StatusBadRequest
	case entities.StatusAlreadyExists:
		return http.StatusConflict
	case entities.StatusNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// NoteHandler handles note-related requests
type NoteHandler struct {
	noteService *services.NoteService
	logger      *logger.Logger
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(noteService *services.NoteService, logger *logger.Logger) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
		logger:      logger,
	}
}

// CreateNote handles note creation
func (h *NoteHandler) CreateNote(c echo.Context) error {
	var dto ports.NoteDTO
	if err := c.Bind(&dto); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	result, err := h.noteService.Create(c.Request().Context(), dto, UserIDFromContext(c))
	if err != nil {
		return err
	}

	if result.IsSuccess() {
		return c.JSON(http.StatusOK, result.Value)
	}
	return c.NoContent(statusCode(result.Status))
}

// UpdateNote handles note updates
func (h *NoteHandler) UpdateNote(c echo.Context) error {
	var dto ports.NoteDTO
	if err := c.Bind(&dto); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	result, err := h.noteService.Update(c.Request().Context(), dto, UserIDFromContext(c))
	if err != nil {
		return err
	}

	if result.IsSuccess() {
		return c.JSON(http.StatusOK, result.Value)
	}
	return c.NoContent(statusCode(result.Status))
}

// GetNote handles getting a note by id
func (h *NoteHandler) GetNote(c echo.Context) error {
	result, err := h.noteService.Get(c.Request().Context(), c.Param("id"), UserIDFromContext(c))
	if err != nil {
		return err
	}

	if result.IsSuccess() {
		return c.JSON(http.StatusOK, result.Value)
	}
	return c.NoContent(statusCode(result.Status))
}

// ListNotes handles listing the caller's notes with optional filters
func (h *NoteHandler) ListNotes(c echo.Context) error {
	filter := ports.NoteFilter{
		Category:       c.QueryParam("category"),
		IncludeDeleted: c.QueryParam("deleted") == "true",
	}

	result, err := h.noteService.List(c.Request().Context(), UserIDFromContext(c), filter)
	if err != nil {
		return err
	}

	if result.IsSuccess() {
		return c.JSON(http.StatusOK, result.Value)
	}
	return c.NoContent(statusCode(result.Status))
}

// DeleteNote handles soft-deleting a note
func (h *NoteHandler) DeleteNote(c echo.Context) error {
	result, err := h.noteService.Delete(c.Request().Context(), c.Param("id"), UserIDFromContext(c))
	if err != nil {
		return err
	}

	return c.NoContent(statusCode(result.Status))
}
