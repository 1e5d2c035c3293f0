package grpc

import (
	"context"

	"github.com/dmitrijs2005/taskledger/internal/api"
	"github.com/dmitrijs2005/taskledger/internal/identity"
	"github.com/dmitrijs2005/taskledger/internal/server/models"
)

var empty = &api.Empty{}

func (s *GRPCServer) AddUser(ctx context.Context, req *api.AddUserRequest) (*api.Empty, error) {
	if err := s.directory.AddUser(ctx, CallerFrom(ctx), req.Address, req.Role); err != nil {
		return nil, s.fail(ctx, "add user", err)
	}
	s.loggerFrom(ctx).Info(ctx, "user added", "address", req.Address, "role", req.Role.String())
	return empty, nil
}

func (s *GRPCServer) RemoveUser(ctx context.Context, req *api.RemoveUserRequest) (*api.Empty, error) {
	if err := s.directory.RemoveUser(ctx, CallerFrom(ctx), req.Address); err != nil {
		return nil, s.fail(ctx, "remove user", err)
	}
	return empty, nil
}

func (s *GRPCServer) ChangeRole(ctx context.Context, req *api.ChangeRoleRequest) (*api.Empty, error) {
	if err := s.directory.ChangeRole(ctx, CallerFrom(ctx), req.Address, req.Role); err != nil {
		return nil, s.fail(ctx, "change role", err)
	}
	return empty, nil
}

func (s *GRPCServer) SetUsername(ctx context.Context, req *api.SetUsernameRequest) (*api.Empty, error) {
	if err := s.directory.SetUsername(ctx, CallerFrom(ctx), req.Username); err != nil {
		return nil, s.fail(ctx, "set username", err)
	}
	return empty, nil
}

func (s *GRPCServer) GetUser(ctx context.Context, req *api.GetUserRequest) (*api.GetUserResponse, error) {
	u, err := s.directory.GetUser(ctx, req.Address)
	if err != nil {
		return nil, s.fail(ctx, "get user", err)
	}
	return &api.GetUserResponse{User: *u}, nil
}

// GetRole answers RoleNone for any address that cannot be a member,
// malformed input included.
func (s *GRPCServer) GetRole(ctx context.Context, req *api.GetRoleRequest) (*api.GetRoleResponse, error) {
	addr, err := identity.Parse(req.Address)
	if err != nil {
		return &api.GetRoleResponse{Role: models.RoleNone}, nil
	}
	role, err := s.directory.GetRole(ctx, addr)
	if err != nil {
		return nil, s.fail(ctx, "get role", err)
	}
	return &api.GetRoleResponse{Role: role}, nil
}

func (s *GRPCServer) HasUser(ctx context.Context, req *api.HasUserRequest) (*api.HasUserResponse, error) {
	addr, err := identity.Parse(req.Address)
	if err != nil {
		return &api.HasUserResponse{Exists: false}, nil
	}
	ok, err := s.directory.HasUser(ctx, addr)
	if err != nil {
		return nil, s.fail(ctx, "has user", err)
	}
	return &api.HasUserResponse{Exists: ok}, nil
}

func (s *GRPCServer) GetAllUsers(ctx context.Context, _ *api.Empty) (*api.GetAllUsersResponse, error) {
	list, err := s.directory.GetAllUsers(ctx)
	if err != nil {
		return nil, s.fail(ctx, "get all users", err)
	}
	return &api.GetAllUsersResponse{Users: list}, nil
}

func (s *GRPCServer) CreateTask(ctx context.Context, req *api.CreateTaskRequest) (*api.TaskResponse, error) {
	task, err := s.ledger.CreateTask(ctx, CallerFrom(ctx), req.Title, req.Description)
	if err != nil {
		return nil, s.fail(ctx, "create task", err)
	}
	s.loggerFrom(ctx).Info(ctx, "task created", "task_id", task.ID)
	return &api.TaskResponse{Task: *task}, nil
}

func (s *GRPCServer) SetAssignee(ctx context.Context, req *api.SetAssigneeRequest) (*api.Empty, error) {
	if err := s.ledger.SetAssignee(ctx, CallerFrom(ctx), req.ID, req.Assignee); err != nil {
		return nil, s.fail(ctx, "set assignee", err)
	}
	return empty, nil
}

func (s *GRPCServer) UpdateTaskStatus(ctx context.Context, req *api.UpdateTaskStatusRequest) (*api.Empty, error) {
	if err := s.ledger.UpdateTaskStatus(ctx, CallerFrom(ctx), req.ID, req.Status); err != nil {
		return nil, s.fail(ctx, "update task status", err)
	}
	return empty, nil
}

func (s *GRPCServer) DepositETH(ctx context.Context, req *api.DepositETHRequest) (*api.Empty, error) {
	if err := s.ledger.DepositETH(ctx, CallerFrom(ctx), req.ID, req.Amount); err != nil {
		return nil, s.fail(ctx, "deposit", err)
	}
	return empty, nil
}

func (s *GRPCServer) CompleteTask(ctx context.Context, req *api.TaskRequest) (*api.Empty, error) {
	if err := s.ledger.CompleteTask(ctx, CallerFrom(ctx), req.ID); err != nil {
		return nil, s.fail(ctx, "complete task", err)
	}
	s.loggerFrom(ctx).Info(ctx, "task completed", "task_id", req.ID)
	return empty, nil
}

func (s *GRPCServer) GetTaskByID(ctx context.Context, req *api.TaskRequest) (*api.TaskResponse, error) {
	task, err := s.ledger.GetTaskByID(ctx, req.ID)
	if err != nil {
		return nil, s.fail(ctx, "get task", err)
	}
	return &api.TaskResponse{Task: *task}, nil
}

func (s *GRPCServer) GetAllTasks(ctx context.Context, _ *api.Empty) (*api.GetAllTasksResponse, error) {
	list, err := s.ledger.GetAllTasks(ctx)
	if err != nil {
		return nil, s.fail(ctx, "get all tasks", err)
	}
	return &api.GetAllTasksResponse{Tasks: list}, nil
}

func (s *GRPCServer) GetBalance(ctx context.Context, req *api.GetBalanceRequest) (*api.GetBalanceResponse, error) {
	addr, err := identity.Parse(req.Address)
	if err != nil {
		return nil, s.fail(ctx, "get balance", err)
	}
	amount, err := s.ledger.GetBalance(ctx, addr)
	if err != nil {
		return nil, s.fail(ctx, "get balance", err)
	}
	return &api.GetBalanceResponse{Address: addr, Amount: amount}, nil
}

func (s *GRPCServer) ListEvents(ctx context.Context, req *api.ListEventsRequest) (*api.ListEventsResponse, error) {
	list, err := s.events.ListEvents(ctx, req.AfterSeq, req.Limit)
	if err != nil {
		return nil, s.fail(ctx, "list events", err)
	}
	return &api.ListEventsResponse{Events: list}, nil
}

func (s *GRPCServer) VerifyEvents(ctx context.Context, _ *api.Empty) (*api.VerifyEventsResponse, error) {
	r, err := s.events.VerifyEvents(ctx)
	if err != nil {
		return nil, s.fail(ctx, "verify events", err)
	}
	if r.BrokenAt != 0 {
		s.loggerFrom(ctx).Warn(ctx, "event chain broken", "seq", r.BrokenAt)
	}
	return &api.VerifyEventsResponse{Count: r.Count, HeadSeq: r.HeadSeq, HeadHash: r.HeadHash, BrokenAt: r.BrokenAt}, nil
}

func (s *GRPCServer) ExportSnapshot(ctx context.Context, _ *api.Empty) (*api.ExportSnapshotResponse, error) {
	ref, err := s.snapshots.Export(ctx, CallerFrom(ctx))
	if err != nil {
		return nil, s.fail(ctx, "export snapshot", err)
	}
	s.loggerFrom(ctx).Info(ctx, "snapshot exported", "key", ref.Key, "digest", ref.Digest, "event_seq", ref.EventSeq)
	return &api.ExportSnapshotResponse{Ref: *ref}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *api.Empty) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}
