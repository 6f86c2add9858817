package http

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/notehub/core/internal/application/services"
	"github.com/notehub/core/internal/domain/entities"
	"github.com/notehub/core/internal/infrastructure/config"
	"github.com/notehub/core/internal/infrastructure/logger"
	"github.com/notehub/core/internal/ports"
)

// SignupSecretHeader guards the account endpoints. The secret is shared
// out of band and is distinct from per-user credentials.
const SignupSecretHeader = "X-Signup-Secret"

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	ExpiresIn int64  `json:"expiresIn"`
}

// ProblemResponse is the client-facing error shape. It never carries
// internal diagnostics.
type ProblemResponse struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// AuthHandler handles account and token requests
type AuthHandler struct {
	userService *services.UserService
	authService *services.AuthService
	authConfig  config.AuthConfig
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService *services.UserService, authService *services.AuthService, authConfig config.AuthConfig, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		authService: authService,
		authConfig:  authConfig,
		logger:      logger,
	}
}

func (h *AuthHandler) checkSignupSecret(c echo.Context) error {
	secret := c.Request().Header.Get(SignupSecretHeader)
	if secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(h.authConfig.SignupSecret)) != 1 {
		return echo.NewHTTPError(http.StatusUnauthorized, ProblemResponse{
			Title:  "Unauthorized",
			Detail: "Signup secret is missing or incorrect",
		})
	}
	return nil
}

// SignUp handles account creation
func (h *AuthHandler) SignUp(c echo.Context) error {
	if err := h.checkSignupSecret(c); err != nil {
		return err
	}

	var credentials ports.Credentials
	if err := c.Bind(&credentials); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&credentials); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, ProblemResponse{
			Title:  "Bad request",
			Detail: "Login or password were empty",
		})
	}

	result, err := h.userService.CreateUser(c.Request().Context(), credentials)
	if err != nil {
		return err
	}

	switch result.Status {
	case entities.StatusSuccess:
		return c.JSON(http.StatusOK, result.Value)
	case entities.StatusAlreadyExists:
		return c.JSON(http.StatusConflict, ProblemResponse{
			Title:  "Conflict",
			Detail: "Record with given login already exists",
		})
	default:
		return c.JSON(http.StatusBadRequest, ProblemResponse{
			Title:  "Bad request",
			Detail: "Failed to create account",
		})
	}
}

// GetInfo handles credential verification and account info retrieval
func (h *AuthHandler) GetInfo(c echo.Context) error {
	if err := h.checkSignupSecret(c); err != nil {
		return err
	}

	var credentials ports.Credentials
	if err := c.Bind(&credentials); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&credentials); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, ProblemResponse{
			Title:  "Bad request",
			Detail: "Login or password were empty",
		})
	}

	result, err := h.userService.GetInfo(c.Request().Context(), credentials)
	if err != nil {
		return err
	}

	switch result.Status {
	case entities.StatusSuccess:
		return c.JSON(http.StatusOK, result.Value)
	case entities.StatusNotFound:
		return c.JSON(http.StatusNotFound, ProblemResponse{
			Title:  "Not Found",
			Detail: "Record does not exist",
		})
	default:
		return c.JSON(http.StatusBadRequest, ProblemResponse{
			Title:  "Bad request",
			Detail: "Failed to retrieve account",
		})
	}
}

// IssueToken exchanges basic credentials for a signed bearer token
func (h *AuthHandler) IssueToken(c echo.Context) error {
	var credentials ports.Credentials
	if err := c.Bind(&credentials); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&credentials); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, ProblemResponse{
			Title:  "Bad request",
			Detail: "Login or password were empty",
		})
	}

	token, err := h.authService.IssueToken(c.Request().Context(), credentials)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidCredential) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		return err
	}

	return c.JSON(http.StatusOK, TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(h.authConfig.JWTExpiresIn.Seconds()),
	})
}
