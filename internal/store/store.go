// Package store persists alert definitions and their trigger state.
package store

import (
	"context"
	"errors"
	"time"

	"ratewatch/internal/models"
)

// ErrNotFound is returned when no alert exists for the given id.
var ErrNotFound = errors.New("alert not found")

// StateUpdate carries the evaluator-owned fields of an alert. The evaluator
// never touches user-owned fields (target, condition, active flag) and never
// deletes.
type StateUpdate struct {
	Triggered         bool
	NotificationCount int
	LastCheckedAt     time.Time
}

// AlertStore is the persistence port for alerts. The evaluation core only
// needs List and UpdateState; the rest serves the HTTP API.
type AlertStore interface {
	List(ctx context.Context) ([]models.Alert, error)
	Get(ctx context.Context, id string) (*models.Alert, error)
	Create(ctx context.Context, alert *models.Alert) error
	Update(ctx context.Context, alert *models.Alert) error
	UpdateState(ctx context.Context, id string, update StateUpdate) error
	Delete(ctx context.Context, id string) error
}
