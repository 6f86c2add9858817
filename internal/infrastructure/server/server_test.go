package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notehub/core/internal/adapters/repository/memory"
	"github.com/notehub/core/internal/application/services"
	"github.com/notehub/core/internal/domain/entities"
	"github.com/notehub/core/internal/infrastructure/database"
	"github.com/notehub/core/internal/infrastructure/logger"
	"github.com/notehub/core/internal/ports"
)

func newProbeContext(e *echo.Echo, target string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHealthCheck_Healthy(t *testing.T) {
	noteService := services.NewNoteService(memory.NewNoteRepository(), logger.NewNop())
	s := &Server{
		echo:   echo.New(),
		logger: logger.NewNop(),
		health: services.NewHealthService(noteService, "probe", logger.NewNop()),
	}

	c, rec := newProbeContext(s.echo, "/healthz")

	require.NoError(t, s.healthCheck(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

// unreachableNoteRepo models a store that cannot be reached at all.
type unreachableNoteRepo struct{}

func (unreachableNoteRepo) Create(ctx context.Context, note *entities.Note) error {
	return errors.New("store unreachable")
}
func (unreachableNoteRepo) Get(ctx context.Context, id, userID string) (*entities.Note, error) {
	return nil, errors.New("store unreachable")
}
func (unreachableNoteRepo) Replace(ctx context.Context, note *entities.Note) error {
	return errors.New("store unreachable")
}
func (unreachableNoteRepo) List(ctx context.Context, userID string, filter ports.NoteFilter) ([]*entities.Note, error) {
	return nil, errors.New("store unreachable")
}
func (unreachableNoteRepo) MarkDeleted(ctx context.Context, id, userID string) error {
	return errors.New("store unreachable")
}
func (unreachableNoteRepo) ListDueUnsent(ctx context.Context, now time.Time) ([]*entities.Note, error) {
	return nil, errors.New("store unreachable")
}
func (unreachableNoteRepo) MarkNotificationSent(ctx context.Context, id string) error {
	return errors.New("store unreachable")
}

func TestHealthCheck_Unhealthy(t *testing.T) {
	noteService := services.NewNoteService(unreachableNoteRepo{}, logger.NewNop())
	s := &Server{
		echo:   echo.New(),
		logger: logger.NewNop(),
		health: services.NewHealthService(noteService, "probe", logger.NewNop()),
	}

	c, rec := newProbeContext(s.echo, "/healthz")

	require.NoError(t, s.healthCheck(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "unhealthy")
}

func TestReadinessCheck_DatabaseUnreachable(t *testing.T) {
	// sqlx.Open is lazy, so this never connects; the readiness probe's
	// health check is the first thing to dial and must fail.
	sqlxDB, err := sqlx.Open("postgres", "host=127.0.0.1 port=1 user=none dbname=none sslmode=disable connect_timeout=1")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlxDB.Close() })

	s := &Server{
		echo:   echo.New(),
		logger: logger.NewNop(),
		db:     &database.DB{DB: sqlxDB},
	}

	c, rec := newProbeContext(s.echo, "/ready")

	require.NoError(t, s.readinessCheck(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "database_not_ready")
}
