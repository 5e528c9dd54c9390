// Package services contains server-side business logic over the repositories:
// user account management and task CRUD with owner scoping.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/taskdeck/taskdeck/internal/common"
	"github.com/taskdeck/taskdeck/internal/cryptox"
	"github.com/taskdeck/taskdeck/internal/dbx"
	"github.com/taskdeck/taskdeck/internal/server/models"
	"github.com/taskdeck/taskdeck/internal/server/repositories/repomanager"
)

// UserService handles registration, profile updates, deletion, and listing.
type UserService struct {
	db    *sqlx.DB
	repos repomanager.RepositoryManager
}

func NewUserService(db *sqlx.DB, m repomanager.RepositoryManager) *UserService {
	return &UserService{db: db, repos: m}
}

// Register creates a new account. A pre-check distinguishes which unique key
// is taken; the insert runs in the same transaction, and a concurrent insert
// that slips past the pre-check still surfaces as the same conflict via the
// storage constraint.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	var created *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Users(tx)

		existing, err := repo.GetByUsernameOrEmail(ctx, username, email)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		if existing != nil {
			if existing.Username == username {
				return common.ErrorUsernameExists
			}
			return common.ErrorEmailExists
		}

		created, err = repo.Create(ctx, &models.User{
			Username:     username,
			Email:        email,
			PasswordHash: hash,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Update replaces the principal's username, email, and password. Only
// self-updates are allowed; anything else is a permission error. Changing the
// email invalidates previously issued tokens, since their subject no longer
// resolves.
func (s *UserService) Update(ctx context.Context, principal *models.User, targetID int64, username, email, password string) (*models.User, error) {
	if principal.ID != targetID {
		return nil, common.ErrorPermissionDenied
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	updated := &models.User{
		ID:           principal.ID,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    principal.CreatedAt,
	}

	if err := s.repos.Users(s.db).Update(ctx, updated); err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes the principal's own account. A mismatched id reads as a
// missing user, not a permission error.
func (s *UserService) Delete(ctx context.Context, principal *models.User, targetID int64) error {
	if principal.ID != targetID {
		return common.ErrorNotFound
	}

	if err := s.repos.Users(s.db).Delete(ctx, principal.ID); err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}

	return nil
}

// List returns a page of users in insertion order.
func (s *UserService) List(ctx context.Context, skip, limit uint64) ([]*models.User, error) {
	result, err := s.repos.Users(s.db).List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return result, nil
}
