// Package grpc exposes the ledger services over gRPC with the CBOR codec.
package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/taskledger/internal/api"
	"github.com/dmitrijs2005/taskledger/internal/identity"
	"github.com/dmitrijs2005/taskledger/internal/logging"
	"github.com/dmitrijs2005/taskledger/internal/money"
	"github.com/dmitrijs2005/taskledger/internal/server/models"
	"github.com/dmitrijs2005/taskledger/internal/server/services"
)

// Directory is the user directory as the transport sees it.
type Directory interface {
	AddUser(ctx context.Context, caller identity.Address, target string, role models.Role) error
	RemoveUser(ctx context.Context, caller identity.Address, target string) error
	ChangeRole(ctx context.Context, caller identity.Address, target string, role models.Role) error
	SetUsername(ctx context.Context, caller identity.Address, name string) error
	GetUser(ctx context.Context, target string) (*models.User, error)
	GetRole(ctx context.Context, addr identity.Address) (models.Role, error)
	HasUser(ctx context.Context, addr identity.Address) (bool, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
}

// Ledger is the task ledger as the transport sees it.
type Ledger interface {
	CreateTask(ctx context.Context, caller identity.Address, title, description string) (*models.Task, error)
	SetAssignee(ctx context.Context, caller identity.Address, id int64, assignee string) error
	UpdateTaskStatus(ctx context.Context, caller identity.Address, id int64, status models.TaskStatus) error
	DepositETH(ctx context.Context, caller identity.Address, id int64, amount string) error
	CompleteTask(ctx context.Context, caller identity.Address, id int64) error
	GetTaskByID(ctx context.Context, id int64) (*models.Task, error)
	GetAllTasks(ctx context.Context) ([]models.Task, error)
	GetBalance(ctx context.Context, addr identity.Address) (money.Amount, error)
}

// EventLog reads the committed notification log.
type EventLog interface {
	ListEvents(ctx context.Context, afterSeq int64, limit int) ([]models.Event, error)
	VerifyEvents(ctx context.Context) (*services.ChainReport, error)
}

// Exporter uploads ledger snapshots.
type Exporter interface {
	Export(ctx context.Context, caller identity.Address) (*models.SnapshotRef, error)
}

// Services bundles the handlers' dependencies.
type Services struct {
	Directory Directory
	Ledger    Ledger
	Events    EventLog
	Snapshots Exporter
}

type GRPCServer struct {
	address   string
	directory Directory
	ledger    Ledger
	events    EventLog
	snapshots Exporter
	logger    logging.Logger
	jwtSecret []byte
}

var _ api.TaskLedgerServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, svc Services, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		directory: svc.Directory,
		ledger:    svc.Ledger,
		events:    svc.Events,
		snapshots: svc.Snapshots,
		jwtSecret: []byte(secretKey),
	}
}

// NewServer builds a grpc.Server with the ledger service registered.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(s.accessTokenInterceptor)}, opts...)
	srv := grpc.NewServer(opts...)
	api.RegisterTaskLedgerServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
