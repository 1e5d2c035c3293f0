package grpc

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/dmitrijs2005/taskledger/internal/api"
	"github.com/dmitrijs2005/taskledger/internal/common"
	"github.com/dmitrijs2005/taskledger/internal/identity"
	"github.com/dmitrijs2005/taskledger/internal/logging"
	"github.com/dmitrijs2005/taskledger/internal/server/access"
	"github.com/dmitrijs2005/taskledger/internal/server/auth"
	"github.com/dmitrijs2005/taskledger/internal/server/models"
	"github.com/dmitrijs2005/taskledger/internal/server/notify"
	"github.com/dmitrijs2005/taskledger/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskledger/internal/server/services"
)

const e2eSecret = "e2e-secret"

// startLedger serves real services over sqlite on an in-memory listener.
func startLedger(t *testing.T) *api.TaskLedgerClient {
	t.Helper()
	ctx := context.Background()

	db, rm, err := repomanager.Open(ctx, filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, rm.RunMigrations(ctx, db))

	seq := services.NewSequencer(db, rm, notify.Discard{})
	policy := access.NewPolicy(identity.MustParse(ownerHex))
	directory := services.NewDirectoryService(seq, rm, policy)
	ledger := services.NewLedgerService(seq, rm, directory, policy, services.NewBalanceBook(rm))
	snaps := services.NewSnapshotService(seq, rm, directory, policy, nil, "snapshots")

	s := NewGRPCServer("", logging.Nop(), Services{Directory: directory, Ledger: ledger, Events: seq, Snapshots: snaps}, e2eSecret)

	lis := bufconn.Listen(1 << 20)
	srv := s.NewServer()
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return api.NewTaskLedgerClient(conn)
}

func as(t *testing.T, hex string) context.Context {
	t.Helper()
	token, err := auth.GenerateToken(identity.MustParse(hex), []byte(e2eSecret), time.Hour)
	require.NoError(t, err)
	return metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, token)
}

func TestE2E_TaskLifecycle(t *testing.T) {
	c := startLedger(t)
	owner := as(t, ownerHex)
	maint := as(t, maintainerHex)
	anon := context.Background()

	_, err := c.AddUser(owner, &api.AddUserRequest{Address: maintainerHex, Role: models.RoleMaintainer})
	require.NoError(t, err)
	_, err = c.AddUser(maint, &api.AddUserRequest{Address: assigneeHex, Role: models.RoleAssignee})
	require.NoError(t, err)

	created, err := c.CreateTask(maint, &api.CreateTaskRequest{Title: "audit", Description: "review contracts"})
	require.NoError(t, err)
	id := created.Task.ID
	assert.Equal(t, int64(0), id)

	_, err = c.SetAssignee(maint, &api.SetAssigneeRequest{ID: id, Assignee: assigneeHex})
	require.NoError(t, err)
	_, err = c.DepositETH(owner, &api.DepositETHRequest{ID: id, Amount: "1000"})
	require.NoError(t, err)
	_, err = c.UpdateTaskStatus(maint, &api.UpdateTaskStatusRequest{ID: id, Status: models.StatusValidate})
	require.NoError(t, err)
	_, err = c.CompleteTask(maint, &api.TaskRequest{ID: id})
	require.NoError(t, err)

	got, err := c.GetTaskByID(anon, &api.TaskRequest{ID: id})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDone, got.Task.Status)
	assert.True(t, got.Task.Reward.IsZero())
	assert.Equal(t, identity.MustParse(assigneeHex), got.Task.Assignee)

	bal, err := c.GetBalance(anon, &api.GetBalanceRequest{Address: assigneeHex})
	require.NoError(t, err)
	assert.Equal(t, "1000", bal.Amount.String())

	events, err := c.ListEvents(anon, &api.ListEventsRequest{})
	require.NoError(t, err)
	names := make([]string, 0, len(events.Events))
	for _, e := range events.Events {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{
		models.EventUserAdded, models.EventUserAdded, models.EventTaskCreated, models.EventAssigneeSet,
		models.EventETHDeposited, models.EventTaskStatusUpdated, models.EventTaskCompleted,
	}, names)

	report, err := c.VerifyEvents(anon, &api.Empty{})
	require.NoError(t, err)
	assert.Equal(t, int64(7), report.Count)
	assert.Zero(t, report.BrokenAt)
}

func TestE2E_Rejections(t *testing.T) {
	c := startLedger(t)
	owner := as(t, ownerHex)

	_, err := c.AddUser(owner, &api.AddUserRequest{Address: viewerHex, Role: models.RoleViewer})
	require.NoError(t, err)

	_, err = c.CreateTask(as(t, viewerHex), &api.CreateTaskRequest{Title: "x"})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = c.CreateTask(context.Background(), &api.CreateTaskRequest{Title: "x"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = c.AddUser(owner, &api.AddUserRequest{Address: viewerHex, Role: models.RoleViewer})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	task, err := c.CreateTask(owner, &api.CreateTaskRequest{Title: "paid"})
	require.NoError(t, err)
	for _, amount := range []string{"abc", "5", "-1e50000000"} {
		_, err = c.DepositETH(as(t, maintainerHex), &api.DepositETHRequest{ID: task.Task.ID, Amount: amount})
		assert.Equal(t, codes.PermissionDenied, status.Code(err), amount)
	}
	_, err = c.DepositETH(owner, &api.DepositETHRequest{ID: task.Task.ID, Amount: "1e3"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = c.GetUser(context.Background(), &api.GetUserRequest{Address: maintainerHex})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = c.ExportSnapshot(owner, &api.Empty{})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	ping, err := c.Ping(context.Background(), &api.Empty{})
	require.NoError(t, err)
	assert.Equal(t, "OK", ping.Status)
}
