package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notehub/core/internal/adapters/repository/memory"
	"github.com/notehub/core/internal/application/services"
	"github.com/notehub/core/internal/infrastructure/config"
	"github.com/notehub/core/internal/infrastructure/logger"
	"github.com/notehub/core/internal/ports"
	"github.com/notehub/core/internal/security"
)

const testSignupSecret = "test-signup-secret"

func newAuthHandler(t *testing.T) (*AuthHandler, *services.UserService) {
	t.Helper()
	authConfig := config.AuthConfig{
		SignupSecret: testSignupSecret,
		JWTSecret:    "jwt-secret",
		JWTExpiresIn: time.Hour,
		JWTIssuer:    "notehub-test",
	}
	userService := services.NewUserService(memory.NewUserRepository(), security.NewPasswordHasher(), logger.NewNop())
	authService := services.NewAuthService(userService, authConfig, logger.NewNop())
	return NewAuthHandler(userService, authService, authConfig, logger.NewNop()), userService
}

func TestAuthHandler_SignUp(t *testing.T) {
	handler, _ := newAuthHandler(t)
	e := newTestEcho()

	c, rec := doJSON(e, http.MethodPost, "/api/v1/auth/signup", `{"login":"alice","password":"s3cret"}`, "")
	c.Request().Header.Set(SignupSecretHeader, testSignupSecret)

	require.NoError(t, handler.SignUp(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var info ports.UserInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "alice", info.Login)
	assert.NotEmpty(t, info.ID)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestAuthHandler_SignUpMissingSecret(t *testing.T) {
	handler, _ := newAuthHandler(t)
	e := newTestEcho()

	c, _ := doJSON(e, http.MethodPost, "/api/v1/auth/signup", `{"login":"alice","password":"s3cret"}`, "")

	err := handler.SignUp(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuthHandler_SignUpWrongSecret(t *testing.T) {
	handler, _ := newAuthHandler(t)
	e := newTestEcho()

	c, _ := doJSON(e, http.MethodPost, "/api/v1/auth/signup", `{"login":"alice","password":"s3cret"}`, "")
	c.Request().Header.Set(SignupSecretHeader, "guess")

	err := handler.SignUp(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuthHandler_SignUpEmptyCredentials(t *testing.T) {
	handler, _ := newAuthHandler(t)
	e := newTestEcho()

	c, _ := doJSON(e, http.MethodPost, "/api/v1/auth/signup", `{"login":"","password":""}`, "")
	c.Request().Header.Set(SignupSecretHeader, testSignupSecret)

	err := handler.SignUp(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestAuthHandler_SignUpDuplicateIsConflict(t *testing.T) {
	handler, userService := newAuthHandler(t)
	e := newTestEcho()

	_, err := userService.CreateUser(context.Background(), ports.Credentials{Login: "alice", Password: "first"})
	require.NoError(t, err)

	c, rec := doJSON(e, http.MethodPost, "/api/v1/auth/signup", `{"login":"alice","password":"second"}`, "")
	c.Request().Header.Set(SignupSecretHeader, testSignupSecret)

	require.NoError(t, handler.SignUp(c))
	require.Equal(t, http.StatusConflict, rec.Code)

	var problem ProblemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "Conflict", problem.Title)
}

func TestAuthHandler_GetInfo(t *testing.T) {
	handler, userService := newAuthHandler(t)
	e := newTestEcho()

	created, err := userService.CreateUser(context.Background(), ports.Credentials{Login: "alice", Password: "s3cret"})
	require.NoError(t, err)

	c, rec := doJSON(e, http.MethodPost, "/api/v1/auth/info", `{"login":"alice","password":"s3cret"}`, "")
	c.Request().Header.Set(SignupSecretHeader, testSignupSecret)

	require.NoError(t, handler.GetInfo(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var info ports.UserInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, created.Value.ID, info.ID)
}

func TestAuthHandler_GetInfoWrongPassword(t *testing.T) {
	handler, userService := newAuthHandler(t)
	e := newTestEcho()

	_, err := userService.CreateUser(context.Background(), ports.Credentials{Login: "alice", Password: "s3cret"})
	require.NoError(t, err)

	c, rec := doJSON(e, http.MethodPost, "/api/v1/auth/info", `{"login":"alice","password":"wrong"}`, "")
	c.Request().Header.Set(SignupSecretHeader, testSignupSecret)

	require.NoError(t, handler.GetInfo(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthHandler_IssueToken(t *testing.T) {
	handler, userService := newAuthHandler(t)
	e := newTestEcho()

	_, err := userService.CreateUser(context.Background(), ports.Credentials{Login: "alice", Password: "s3cret"})
	require.NoError(t, err)

	c, rec := doJSON(e, http.MethodPost, "/api/v1/auth/token", `{"login":"alice","password":"s3cret"}`, "")

	require.NoError(t, handler.IssueToken(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var token TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &token))
	assert.NotEmpty(t, token.Token)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, int64(3600), token.ExpiresIn)
}

func TestAuthHandler_IssueTokenBadCredentials(t *testing.T) {
	handler, _ := newAuthHandler(t)
	e := newTestEcho()

	c, _ := doJSON(e, http.MethodPost, "/api/v1/auth/token", `{"login":"nobody","password":"nope"}`, "")

	err := handler.IssueToken(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
