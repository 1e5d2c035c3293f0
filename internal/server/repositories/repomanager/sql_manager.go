// Package repomanager provides the RepositoryManager for both supported SQL
// dialects, wiring repository constructors and goose migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/taskledger/internal/dbx"
	"github.com/dmitrijs2005/taskledger/internal/server/migrations"
	"github.com/dmitrijs2005/taskledger/internal/server/repositories/balances"
	"github.com/dmitrijs2005/taskledger/internal/server/repositories/events"
	"github.com/dmitrijs2005/taskledger/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskledger/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

// SQLRepositoryManager vends repositories bound to a DBTX. The queries are
// shared; only migrations differ per dialect.
type SQLRepositoryManager struct {
	dialect Dialect
}

func (m *SQLRepositoryManager) Dialect() Dialect { return m.dialect }

func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Tasks(db dbx.DBTX) tasks.Repository {
	return tasks.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Events(db dbx.DBTX) events.Repository {
	return events.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Balances(db dbx.DBTX) balances.Repository {
	return balances.NewSQLRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

// RunMigrations applies the embedded migrations of the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.dialect.gooseDialect()); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, m.dialect.migrationsDir())
}

// NewRepositoryManager constructs a RepositoryManager for dialect.
func NewRepositoryManager(dialect Dialect) (RepositoryManager, error) {
	if dialect != Postgres && dialect != SQLite {
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
	return &SQLRepositoryManager{dialect: dialect}, nil
}
