package services

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/taskdeck/taskdeck/internal/server/models"
	"github.com/taskdeck/taskdeck/internal/server/repositories/repomanager"
	"github.com/taskdeck/taskdeck/internal/server/repositories/tasks"
)

// TaskPatch describes a partial task update; nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	State       *models.TaskState
}

// TaskService handles task CRUD, always on behalf of an owning principal.
type TaskService struct {
	db    *sqlx.DB
	repos repomanager.RepositoryManager
}

func NewTaskService(db *sqlx.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repos: m}
}

func (s *TaskService) Create(ctx context.Context, owner *models.User, title, description string, state models.TaskState) (*models.Task, error) {
	task := &models.Task{
		Title:       title,
		Description: description,
		State:       state,
		UserID:      owner.ID,
	}

	created, err := s.repos.Tasks(s.db).Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}

	return created, nil
}

// List returns the owner's tasks matching f. An empty result is not an error.
func (s *TaskService) List(ctx context.Context, owner *models.User, f tasks.Filter, skip, limit uint64) ([]*models.Task, error) {
	result, err := s.repos.Tasks(s.db).List(ctx, owner.ID, f, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	return result, nil
}

// Update applies a partial update to the owner's task. The load and the write
// are both owner-scoped, so a foreign task id reads as not found.
func (s *TaskService) Update(ctx context.Context, owner *models.User, taskID int64, patch TaskPatch) (*models.Task, error) {
	repo := s.repos.Tasks(s.db)

	task, err := repo.GetByID(ctx, owner.ID, taskID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.State != nil {
		task.State = *patch.State
	}

	if err := repo.Update(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, owner *models.User, taskID int64) error {
	return s.repos.Tasks(s.db).Delete(ctx, owner.ID, taskID)
}
