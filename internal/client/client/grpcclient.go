// Package client is the typed gRPC client of the ledger server. Errors the
// server reports with an ErrorInfo reason come back as the matching
// common sentinel, so callers use errors.Is exactly as on the server.
package client

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/taskledger/internal/api"
	"github.com/dmitrijs2005/taskledger/internal/common"
	"github.com/dmitrijs2005/taskledger/internal/identity"
	"github.com/dmitrijs2005/taskledger/internal/money"
	"github.com/dmitrijs2005/taskledger/internal/server/models"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      *api.TaskLedgerClient
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.accessToken != "" {
		ctx = withAccessToken(ctx, s.accessToken)
	} else if api.RequiresIdentity(method) {
		return ErrNoToken
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient dials endpointURL lazily. token may be empty for read-only
// use.
func NewGRPCClient(endpointURL, token string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, accessToken: token}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = api.NewTaskLedgerClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

// mapError turns a status error back into the sentinel named by its
// ErrorInfo reason. The server's message is kept as context.
func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	for _, d := range st.Details() {
		info, ok := d.(*errdetails.ErrorInfo)
		if !ok || info.Domain != api.ErrorDomain {
			continue
		}
		if sentinel := api.ErrorForReason(info.Reason); sentinel != nil {
			if st.Message() == sentinel.Error() {
				return sentinel
			}
			return fmt.Errorf("%w (%s)", sentinel, st.Message())
		}
	}

	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", common.ErrorUnauthorized, st.Message())
	case codes.Internal:
		return fmt.Errorf("%w: %s", common.ErrorInternal, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &api.Empty{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return fmt.Errorf("%w: ping status %q", ErrUnavailable, resp.Status)
	}
	return nil
}

func (s *GRPCClient) AddUser(ctx context.Context, address string, role models.Role) error {
	_, err := s.client.AddUser(ctx, &api.AddUserRequest{Address: address, Role: role})
	return s.mapError(err)
}

func (s *GRPCClient) RemoveUser(ctx context.Context, address string) error {
	_, err := s.client.RemoveUser(ctx, &api.RemoveUserRequest{Address: address})
	return s.mapError(err)
}

func (s *GRPCClient) ChangeRole(ctx context.Context, address string, role models.Role) error {
	_, err := s.client.ChangeRole(ctx, &api.ChangeRoleRequest{Address: address, Role: role})
	return s.mapError(err)
}

func (s *GRPCClient) SetUsername(ctx context.Context, name string) error {
	_, err := s.client.SetUsername(ctx, &api.SetUsernameRequest{Username: name})
	return s.mapError(err)
}

func (s *GRPCClient) GetUser(ctx context.Context, address string) (*models.User, error) {
	resp, err := s.client.GetUser(ctx, &api.GetUserRequest{Address: address})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.User, nil
}

func (s *GRPCClient) GetRole(ctx context.Context, address string) (models.Role, error) {
	resp, err := s.client.GetRole(ctx, &api.GetRoleRequest{Address: address})
	if err != nil {
		return models.RoleNone, s.mapError(err)
	}
	return resp.Role, nil
}

func (s *GRPCClient) HasUser(ctx context.Context, address string) (bool, error) {
	resp, err := s.client.HasUser(ctx, &api.HasUserRequest{Address: address})
	if err != nil {
		return false, s.mapError(err)
	}
	return resp.Exists, nil
}

func (s *GRPCClient) GetAllUsers(ctx context.Context) ([]models.User, error) {
	resp, err := s.client.GetAllUsers(ctx, &api.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Users, nil
}

func (s *GRPCClient) CreateTask(ctx context.Context, title, description string) (*models.Task, error) {
	resp, err := s.client.CreateTask(ctx, &api.CreateTaskRequest{Title: title, Description: description})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.Task, nil
}

func (s *GRPCClient) SetAssignee(ctx context.Context, id int64, assignee string) error {
	_, err := s.client.SetAssignee(ctx, &api.SetAssigneeRequest{ID: id, Assignee: assignee})
	return s.mapError(err)
}

func (s *GRPCClient) UpdateTaskStatus(ctx context.Context, id int64, st models.TaskStatus) error {
	_, err := s.client.UpdateTaskStatus(ctx, &api.UpdateTaskStatusRequest{ID: id, Status: st})
	return s.mapError(err)
}

// DepositETH sends amount in base units as a decimal string.
func (s *GRPCClient) DepositETH(ctx context.Context, id int64, amount string) error {
	_, err := s.client.DepositETH(ctx, &api.DepositETHRequest{ID: id, Amount: amount})
	return s.mapError(err)
}

func (s *GRPCClient) CompleteTask(ctx context.Context, id int64) error {
	_, err := s.client.CompleteTask(ctx, &api.TaskRequest{ID: id})
	return s.mapError(err)
}

func (s *GRPCClient) GetTaskByID(ctx context.Context, id int64) (*models.Task, error) {
	resp, err := s.client.GetTaskByID(ctx, &api.TaskRequest{ID: id})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.Task, nil
}

func (s *GRPCClient) GetAllTasks(ctx context.Context) ([]models.Task, error) {
	resp, err := s.client.GetAllTasks(ctx, &api.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Tasks, nil
}

func (s *GRPCClient) GetBalance(ctx context.Context, address string) (identity.Address, money.Amount, error) {
	resp, err := s.client.GetBalance(ctx, &api.GetBalanceRequest{Address: address})
	if err != nil {
		return identity.Zero, money.Zero, s.mapError(err)
	}
	return resp.Address, resp.Amount, nil
}

func (s *GRPCClient) ListEvents(ctx context.Context, afterSeq int64, limit int) ([]models.Event, error) {
	resp, err := s.client.ListEvents(ctx, &api.ListEventsRequest{AfterSeq: afterSeq, Limit: limit})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Events, nil
}

func (s *GRPCClient) VerifyEvents(ctx context.Context) (*api.VerifyEventsResponse, error) {
	resp, err := s.client.VerifyEvents(ctx, &api.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) ExportSnapshot(ctx context.Context) (*models.SnapshotRef, error) {
	resp, err := s.client.ExportSnapshot(ctx, &api.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.Ref, nil
}

// IsUnavailable reports whether err means the server could not be reached.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
