package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/notehub/core/internal/domain/entities"
	"github.com/notehub/core/internal/infrastructure/config"
	"github.com/notehub/core/internal/infrastructure/logger"
	"github.com/notehub/core/internal/ports"
)

// Claims represents the JWT claims
type Claims struct {
	UserID string `json:"user_id"`
	Login  string `json:"login"`
	jwt.RegisteredClaims
}

// AuthService is the identity verification capability. It resolves
// either a bearer token or basic credentials to a verified owner id,
// which the note and user services trust completely for scoping.
type AuthService struct {
	userService *UserService
	authConfig  config.AuthConfig
	logger      *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userService *UserService, authConfig config.AuthConfig, logger *logger.Logger) *AuthService {
	return &AuthService{
		userService: userService,
		authConfig:  authConfig,
		logger:      logger,
	}
}

// IssueToken verifies the credentials and returns a signed bearer token.
func (s *AuthService) IssueToken(ctx context.Context, credentials ports.Credentials) (string, error) {
	result, err := s.userService.GetInfo(ctx, credentials)
	if err != nil {
		return "", fmt.Errorf("verify credentials: %w", err)
	}
	if !result.IsSuccess() {
		return "", entities.ErrInvalidCredential
	}

	claims := &Claims{
		UserID: result.Value.ID,
		Login:  result.Value.Login,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.authConfig.JWTExpiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    s.authConfig.JWTIssuer,
			Subject:   result.Value.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.authConfig.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info("Token issued", "user_id", result.Value.ID)

	return signed, nil
}

// ValidateToken validates a bearer token and returns the owner id.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.authConfig.JWTSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}

	return claims.UserID, nil
}

// VerifyBasic resolves basic credentials to a verified owner id.
func (s *AuthService) VerifyBasic(ctx context.Context, login, password string) (string, error) {
	result, err := s.userService.GetInfo(ctx, ports.Credentials{Login: login, Password: password})
	if err != nil {
		return "", fmt.Errorf("verify credentials: %w", err)
	}
	if !result.IsSuccess() {
		return "", entities.ErrInvalidCredential
	}

	return result.Value.ID, nil
}
