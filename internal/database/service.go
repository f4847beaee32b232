package database

import (
	"github.com/scidept/sentinel/internal/database/service"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Service provides access to all business logic services.
type Service struct {
	strike      *service.StrikeService
	activity    *service.ActivityService
	orientation *service.OrientationService
}

// NewService creates a new service instance with all services.
func NewService(db *bun.DB, repository *Repository, logger *zap.Logger) *Service {
	return &Service{
		strike:      service.NewStrike(db, repository.Strike(), logger),
		activity:    service.NewActivity(db, repository.Activity(), repository.TaskLog(), repository.Link(), logger),
		orientation: service.NewOrientation(db, repository.Orientation(), logger),
	}
}

// Strike returns the strike service.
func (s *Service) Strike() *service.StrikeService {
	return s.strike
}

// Activity returns the activity service.
func (s *Service) Activity() *service.ActivityService {
	return s.activity
}

// Orientation returns the orientation service.
func (s *Service) Orientation() *service.OrientationService {
	return s.orientation
}
