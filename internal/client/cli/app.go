// Package cli is the operator command line of the ledger: one subcommand
// per service operation, plus an interactive shell and token minting.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/pflag"

	"github.com/dmitrijs2005/taskledger/internal/api"
	"github.com/dmitrijs2005/taskledger/internal/client/client"
	"github.com/dmitrijs2005/taskledger/internal/client/config"
	"github.com/dmitrijs2005/taskledger/internal/identity"
	"github.com/dmitrijs2005/taskledger/internal/money"
	"github.com/dmitrijs2005/taskledger/internal/server/models"
)

// ErrUsage marks a malformed command line.
var ErrUsage = errors.New("usage")

// Ledger is the remote surface the commands drive; *client.GRPCClient
// implements it.
type Ledger interface {
	Ping(ctx context.Context) error
	AddUser(ctx context.Context, address string, role models.Role) error
	RemoveUser(ctx context.Context, address string) error
	ChangeRole(ctx context.Context, address string, role models.Role) error
	SetUsername(ctx context.Context, name string) error
	GetUser(ctx context.Context, address string) (*models.User, error)
	GetRole(ctx context.Context, address string) (models.Role, error)
	HasUser(ctx context.Context, address string) (bool, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	CreateTask(ctx context.Context, title, description string) (*models.Task, error)
	SetAssignee(ctx context.Context, id int64, assignee string) error
	UpdateTaskStatus(ctx context.Context, id int64, st models.TaskStatus) error
	DepositETH(ctx context.Context, id int64, amount string) error
	CompleteTask(ctx context.Context, id int64) error
	GetTaskByID(ctx context.Context, id int64) (*models.Task, error)
	GetAllTasks(ctx context.Context) ([]models.Task, error)
	GetBalance(ctx context.Context, address string) (identity.Address, money.Amount, error)
	ListEvents(ctx context.Context, afterSeq int64, limit int) ([]models.Event, error)
	VerifyEvents(ctx context.Context) (*api.VerifyEventsResponse, error)
	ExportSnapshot(ctx context.Context) (*models.SnapshotRef, error)
}

var _ Ledger = (*client.GRPCClient)(nil)

type App struct {
	ledger  Ledger
	out     io.Writer
	in      *bufio.Reader
	timeout time.Duration
}

func NewApp(ledger Ledger, in io.Reader, out io.Writer, timeout time.Duration) *App {
	return &App{ledger: ledger, in: bufio.NewReader(in), out: out, timeout: timeout}
}

// dial is a test seam for connecting to the server.
var dial = func(cfg *config.Config) (Ledger, io.Closer, error) {
	c, err := client.NewGRPCClient(cfg.ServerEndpointAddr, cfg.AccessToken)
	if err != nil {
		return nil, nil, err
	}
	return c, c, nil
}

// Main parses global flags, then runs the subcommand in args.
func Main(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	fs := pflag.NewFlagSet("taskledger", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.SetOutput(out)

	cfgPath := fs.StringP("config", "c", "", "path to a JSON config file")
	addr := fs.StringP("addr", "a", "", "server address (host:port)")
	token := fs.StringP("token", "t", "", "access token (default $"+config.EnvToken+")")
	timeout := fs.Duration("timeout", 0, "per-request timeout")
	fs.Usage = func() {
		fmt.Fprintf(out, "Usage: taskledger [flags] <command> [args]\n\nFlags:\n%s\nCommands:\n", fs.FlagUsages())
		printCommands(out)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return ErrUsage
	}

	// token minting never talks to the server
	if rest[0] == "token" {
		return mintToken(rest[1:], in, out)
	}

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		return err
	}
	if fs.Changed("addr") {
		cfg.ServerEndpointAddr = *addr
	}
	if fs.Changed("token") {
		cfg.AccessToken = *token
	}
	if fs.Changed("timeout") {
		cfg.RequestTimeout = *timeout
	}

	ledger, closer, err := dial(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	return NewApp(ledger, in, out, cfg.RequestTimeout).Exec(ctx, rest)
}

// Exec runs one command line.
func (a *App) Exec(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	if args[0] == "shell" {
		return a.shell(ctx)
	}

	cmd, ok := lookup(args[0])
	if !ok {
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}

	fs := pflag.NewFlagSet(cmd.name, pflag.ContinueOnError)
	fs.SetOutput(a.out)
	opts := cmd.flags(fs)
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != len(cmd.args) {
		return fmt.Errorf("%w: %s %s", ErrUsage, cmd.name, cmd.argsUsage())
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	return cmd.run(ctx, a, fs.Args(), opts)
}

// ExitCode maps an error from Main to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage):
		return 2
	case client.IsUnavailable(err):
		return 3
	default:
		return 1
	}
}
