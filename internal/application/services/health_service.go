package services

import (
	"context"

	"github.com/notehub/core/internal/infrastructure/logger"
	"github.com/notehub/core/internal/ports"
)

// HealthStatus is the probe outcome.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthService performs a lightweight store round-trip against a
// designated probe identity. It never returns an error: a failing store
// call becomes an unhealthy result.
type HealthService struct {
	noteService *NoteService
	probeUserID string
	logger      *logger.Logger
}

// NewHealthService creates a new health service
func NewHealthService(noteService *NoteService, probeUserID string, logger *logger.Logger) *HealthService {
	return &HealthService{
		noteService: noteService,
		probeUserID: probeUserID,
		logger:      logger,
	}
}

// Check lists the probe user's notes. A clean round-trip is healthy, a
// non-success result is degraded and a store error is unhealthy.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	result, err := s.noteService.List(ctx, s.probeUserID, ports.NoteFilter{})
	if err != nil {
		s.logger.Error("Health probe failed to reach the store", "error", err)
		return HealthStatusUnhealthy
	}

	if !result.IsSuccess() {
		return HealthStatusDegraded
	}

	return HealthStatusHealthy
}
