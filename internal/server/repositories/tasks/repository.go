// Package tasks provides persistence for task records. Every query is scoped
// to one owning user; cross-owner reads are impossible by construction.
package tasks

import (
	"context"

	"github.com/taskdeck/taskdeck/internal/server/models"
)

// Filter narrows a task listing. Zero-valued fields are ignored; present
// fields combine with logical AND. Title and Description match
// case-insensitive substrings, State matches exactly.
type Filter struct {
	Title       string
	Description string
	State       models.TaskState
}

type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	GetByID(ctx context.Context, ownerID, id int64) (*models.Task, error)
	List(ctx context.Context, ownerID int64, f Filter, skip, limit uint64) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, ownerID, id int64) error
}
