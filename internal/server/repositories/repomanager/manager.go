package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/taskledger/internal/dbx"
	"github.com/dmitrijs2005/taskledger/internal/server/repositories/balances"
	"github.com/dmitrijs2005/taskledger/internal/server/repositories/events"
	"github.com/dmitrijs2005/taskledger/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskledger/internal/server/repositories/users"
)

type RepositoryManager interface {
	Dialect() Dialect
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Tasks(db dbx.DBTX) tasks.Repository
	Events(db dbx.DBTX) events.Repository
	Balances(db dbx.DBTX) balances.Repository
}
