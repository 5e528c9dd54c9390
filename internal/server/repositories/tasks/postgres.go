package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/taskdeck/taskdeck/internal/common"
	"github.com/taskdeck/taskdeck/internal/dbx"
	"github.com/taskdeck/taskdeck/internal/server/models"
)

// PostgresRepository implements task storage over a dbx.DBTX
// (*sqlx.DB or *sqlx.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {

	query :=
		`INSERT INTO todos (title, description, state, user_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowxContext(ctx, query,
		task.Title, task.Description, task.State, task.UserID).Scan(&task.ID, &task.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, ownerID, id int64) (*models.Task, error) {
	query :=
		`SELECT id, title, description, state, user_id, created_at FROM todos
		 WHERE id = $1 AND user_id = $2
		 `

	task := &models.Task{}
	err := sqlx.GetContext(ctx, r.db, task, query, id, ownerID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

// List selects the owner's tasks matching f, in insertion order, skipping
// skip rows and returning at most limit. The owner predicate is applied
// unconditionally and cannot be filtered away.
func (r *PostgresRepository) List(ctx context.Context, ownerID int64, f Filter, skip, limit uint64) ([]*models.Task, error) {

	qb := squirrel.Select("id", "title", "description", "state", "user_id", "created_at").
		From("todos").
		Where(squirrel.Eq{"user_id": ownerID}).
		PlaceholderFormat(squirrel.Dollar)

	if f.Title != "" {
		qb = qb.Where(squirrel.ILike{"title": "%" + f.Title + "%"})
	}
	if f.Description != "" {
		qb = qb.Where(squirrel.ILike{"description": "%" + f.Description + "%"})
	}
	if f.State != "" {
		qb = qb.Where(squirrel.Eq{"state": f.State})
	}

	query, args, err := qb.OrderBy("id").Offset(skip).Limit(limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("query build error: %w", err)
	}

	result := []*models.Task{}
	if err := sqlx.SelectContext(ctx, r.db, &result, query, args...); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, task *models.Task) error {
	query :=
		`UPDATE todos SET title = $1, description = $2, state = $3
		 WHERE id = $4 AND user_id = $5
		 `

	res, err := r.db.ExecContext(ctx, query,
		task.Title, task.Description, task.State, task.ID, task.UserID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
