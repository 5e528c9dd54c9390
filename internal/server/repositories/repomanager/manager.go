package repomanager

import (
	"context"
	"database/sql"

	"github.com/taskdeck/taskdeck/internal/dbx"
	"github.com/taskdeck/taskdeck/internal/server/repositories/tasks"
	"github.com/taskdeck/taskdeck/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX, so
// services can run the same repositories against the pool or a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Tasks(db dbx.DBTX) tasks.Repository
}
