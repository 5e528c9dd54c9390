package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/taskdeck/taskdeck/internal/common"
	"github.com/taskdeck/taskdeck/internal/dbx"
	"github.com/taskdeck/taskdeck/internal/server/models"
)

// PostgresRepository implements user storage over a dbx.DBTX
// (*sqlx.DB or *sqlx.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// translateUnique maps a unique-constraint violation (SQLSTATE 23505) to the
// sentinel for whichever column collided. Other errors pass through wrapped.
func translateUnique(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "email") {
			return common.ErrorEmailExists
		}
		return common.ErrorUsernameExists
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (username, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowxContext(ctx, query,
		user.Username, user.Email, user.PasswordHash).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		return nil, translateUnique(err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, username, email, password_hash, created_at FROM users
		 WHERE email = $1
		 `

	user := &models.User{}
	err := sqlx.GetContext(ctx, r.db, user, query, email)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// GetByUsernameOrEmail returns a user matching either unique key. It backs
// the registration pre-check that distinguishes which key is taken.
func (r *PostgresRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	query :=
		`SELECT id, username, email, password_hash, created_at FROM users
		 WHERE username = $1 OR email = $2
		 LIMIT 1
		 `

	user := &models.User{}
	err := sqlx.GetContext(ctx, r.db, user, query, username, email)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) Update(ctx context.Context, user *models.User) error {
	query :=
		`UPDATE users SET username = $1, email = $2, password_hash = $3
		 WHERE id = $4
		 `

	res, err := r.db.ExecContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.ID)
	if err != nil {
		return translateUnique(err)
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

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
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

func (r *PostgresRepository) List(ctx context.Context, skip, limit uint64) ([]*models.User, error) {
	query :=
		`SELECT id, username, email, password_hash, created_at FROM users
		 ORDER BY id
		 OFFSET $1 LIMIT $2
		 `

	var result []*models.User
	if err := sqlx.SelectContext(ctx, r.db, &result, query, skip, limit); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
