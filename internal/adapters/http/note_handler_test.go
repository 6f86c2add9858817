package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notehub/core/internal/adapters/repository/memory"
	"github.com/notehub/core/internal/application/services"
	"github.com/notehub/core/internal/infrastructure/logger"
	"github.com/notehub/core/internal/ports"
)

type testValidator struct {
	validate *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validate: validator.New()}
	return e
}

func newNoteHandler(t *testing.T) (*NoteHandler, *services.NoteService) {
	t.Helper()
	noteService := services.NewNoteService(memory.NewNoteRepository(), logger.NewNop())
	return NewNoteHandler(noteService, logger.NewNop()), noteService
}

func doJSON(e *echo.Echo, method, target, body, userID string) (echo.Context, *httptest.ResponseRecorder) {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		SetUserID(c, userID)
	}
	return c, rec
}

func TestNoteHandler_CreateReturnsNote(t *testing.T) {
	handler, _ := newNoteHandler(t)
	e := newTestEcho()

	c, rec := doJSON(e, http.MethodPost, "/api/v1/notes", `{"title":"hello","category":"work"}`, "alice")

	require.NoError(t, handler.CreateNote(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var note ports.NoteDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &note))
	assert.NotEmpty(t, note.ID)
	assert.Equal(t, "hello", note.Title)
}

func TestNoteHandler_CreateRejectsMalformedBody(t *testing.T) {
	handler, _ := newNoteHandler(t)
	e := newTestEcho()

	c, _ := doJSON(e, http.MethodPost, "/api/v1/notes", `{"title":`, "alice")

	err := handler.CreateNote(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestNoteHandler_GetUnknownIs404(t *testing.T) {
	handler, _ := newNoteHandler(t)
	e := newTestEcho()

	c, rec := doJSON(e, http.MethodGet, "/api/v1/notes/missing", "", "alice")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	require.NoError(t, handler.GetNote(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNoteHandler_GetForeignNoteIs404(t *testing.T) {
	handler, noteService := newNoteHandler(t)
	e := newTestEcho()

	created, err := noteService.Create(context.Background(), ports.NoteDTO{Title: "private"}, "alice")
	require.NoError(t, err)

	c, rec := doJSON(e, http.MethodGet, "/api/v1/notes/"+created.Value.ID, "", "mallory")
	c.SetParamNames("id")
	c.SetParamValues(created.Value.ID)

	require.NoError(t, handler.GetNote(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNoteHandler_UpdateWithoutIDIs400(t *testing.T) {
	handler, _ := newNoteHandler(t)
	e := newTestEcho()

	c, rec := doJSON(e, http.MethodPut, "/api/v1/notes", `{"title":"no id"}`, "alice")

	require.NoError(t, handler.UpdateNote(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNoteHandler_DeleteThenList(t *testing.T) {
	handler, noteService := newNoteHandler(t)
	e := newTestEcho()

	created, err := noteService.Create(context.Background(), ports.NoteDTO{Title: "bye"}, "alice")
	require.NoError(t, err)

	c, rec := doJSON(e, http.MethodDelete, "/api/v1/notes/"+created.Value.ID, "", "alice")
	c.SetParamNames("id")
	c.SetParamValues(created.Value.ID)
	require.NoError(t, handler.DeleteNote(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Default listing no longer shows it
	c, rec = doJSON(e, http.MethodGet, "/api/v1/notes", "", "alice")
	require.NoError(t, handler.ListNotes(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var notes []ports.NoteDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notes))
	assert.Empty(t, notes)

	// The deleted filter brings it back
	c, rec = doJSON(e, http.MethodGet, "/api/v1/notes?deleted=true", "", "alice")
	require.NoError(t, handler.ListNotes(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notes))
	require.Len(t, notes, 1)
	assert.True(t, notes[0].IsDeleted)
}

func TestNoteHandler_ListEmptyIsJSONArray(t *testing.T) {
	handler, _ := newNoteHandler(t)
	e := newTestEcho()

	c, rec := doJSON(e, http.MethodGet, "/api/v1/notes", "", "alice")

	require.NoError(t, handler.ListNotes(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
