package database

import (
	"github.com/scidept/sentinel/internal/database/models"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Repository provides access to all database models.
type Repository struct {
	strike      *models.StrikeModel
	activity    *models.ActivityModel
	orientation *models.OrientationModel
	excuse      *models.ExcuseModel
	taskLog     *models.TaskLogModel
	link        *models.LinkModel
}

// NewRepository creates a new repository instance with all models.
func NewRepository(db *bun.DB, logger *zap.Logger) *Repository {
	return &Repository{
		strike:      models.NewStrike(db, logger),
		activity:    models.NewActivity(db, logger),
		orientation: models.NewOrientation(db, logger),
		excuse:      models.NewExcuse(db, logger),
		taskLog:     models.NewTaskLog(db, logger),
		link:        models.NewLink(db, logger),
	}
}

// Strike returns the strike model repository.
func (r *Repository) Strike() *models.StrikeModel {
	return r.strike
}

// Activity returns the activity model repository.
func (r *Repository) Activity() *models.ActivityModel {
	return r.activity
}

// Orientation returns the orientation model repository.
func (r *Repository) Orientation() *models.OrientationModel {
	return r.orientation
}

// Excuse returns the excuse model repository.
func (r *Repository) Excuse() *models.ExcuseModel {
	return r.excuse
}

// TaskLog returns the task log model repository.
func (r *Repository) TaskLog() *models.TaskLogModel {
	return r.taskLog
}

// Link returns the link model repository.
func (r *Repository) Link() *models.LinkModel {
	return r.link
}
