// Package server wires the ledger together: storage, the write sequencer,
// the directory and ledger services, snapshot export and the gRPC endpoint.
// It also handles graceful shutdown on SIGINT/SIGTERM/SIGQUIT.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/taskledger/internal/identity"
	"github.com/dmitrijs2005/taskledger/internal/logging"
	"github.com/dmitrijs2005/taskledger/internal/server/access"
	"github.com/dmitrijs2005/taskledger/internal/server/config"
	"github.com/dmitrijs2005/taskledger/internal/server/notify"
	"github.com/dmitrijs2005/taskledger/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskledger/internal/server/services"
	"github.com/dmitrijs2005/taskledger/internal/server/snapshots"

	gs "github.com/dmitrijs2005/taskledger/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	services gs.Services
}

// openDB and newS3Store are seams for tests.
var (
	openDB     = repomanager.Open
	newS3Store = func(ctx context.Context, c *config.Config) (snapshots.Store, error) {
		return snapshots.NewS3Store(ctx, c)
	}
)

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	owner, err := identity.ParseMember(c.OwnerAddress)
	if err != nil {
		return nil, fmt.Errorf("owner address: %w", err)
	}

	db, rm, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	// an empty bucket leaves the store nil and export disabled
	var store snapshots.Store
	if c.S3Bucket != "" {
		store, err = newS3Store(ctx, c)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("snapshot store: %w", err)
		}
	}

	seq := services.NewSequencer(db, rm, notify.NewLogSink(logger.With("module", "events")))
	policy := access.NewPolicy(owner)
	directory := services.NewDirectoryService(seq, rm, policy)
	ledger := services.NewLedgerService(seq, rm, directory, policy, services.NewBalanceBook(rm))
	snaps := services.NewSnapshotService(seq, rm, directory, policy, store, c.SnapshotPrefix)

	logger.Info(ctx, "ledger ready",
		"dialect", string(rm.Dialect()),
		"owner", owner.Hex(),
		"snapshots", store != nil,
	)

	return &App{
		config: c,
		logger: logger,
		db:     db,
		services: gs.Services{
			Directory: directory,
			Ledger:    ledger,
			Events:    seq,
			Snapshots: snaps,
		},
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.services, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a shutdown signal arrives, then
// closes the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err.Error())
	}
	app.logger.Info(ctx, "Stopped")
}
