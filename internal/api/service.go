package api

import (
	"context"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/taskledger/internal/codec"
)

// TaskLedgerServer is implemented by the server-side handlers.
type TaskLedgerServer interface {
	AddUser(context.Context, *AddUserRequest) (*Empty, error)
	RemoveUser(context.Context, *RemoveUserRequest) (*Empty, error)
	ChangeRole(context.Context, *ChangeRoleRequest) (*Empty, error)
	SetUsername(context.Context, *SetUsernameRequest) (*Empty, error)
	GetUser(context.Context, *GetUserRequest) (*GetUserResponse, error)
	GetRole(context.Context, *GetRoleRequest) (*GetRoleResponse, error)
	HasUser(context.Context, *HasUserRequest) (*HasUserResponse, error)
	GetAllUsers(context.Context, *Empty) (*GetAllUsersResponse, error)
	CreateTask(context.Context, *CreateTaskRequest) (*TaskResponse, error)
	SetAssignee(context.Context, *SetAssigneeRequest) (*Empty, error)
	UpdateTaskStatus(context.Context, *UpdateTaskStatusRequest) (*Empty, error)
	DepositETH(context.Context, *DepositETHRequest) (*Empty, error)
	CompleteTask(context.Context, *TaskRequest) (*Empty, error)
	GetTaskByID(context.Context, *TaskRequest) (*TaskResponse, error)
	GetAllTasks(context.Context, *Empty) (*GetAllTasksResponse, error)
	GetBalance(context.Context, *GetBalanceRequest) (*GetBalanceResponse, error)
	ListEvents(context.Context, *ListEventsRequest) (*ListEventsResponse, error)
	VerifyEvents(context.Context, *Empty) (*VerifyEventsResponse, error)
	ExportSnapshot(context.Context, *Empty) (*ExportSnapshotResponse, error)
	Ping(context.Context, *Empty) (*PingResponse, error)
}

func unary[Req, Resp any](name string, call func(TaskLedgerServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(TaskLedgerServer), ctx, req.(*Req))
			}
			if interceptor == nil {
				return handler(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// TaskLedgerServiceDesc is registered with grpc.Server.RegisterService.
var TaskLedgerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TaskLedgerServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodAddUser, TaskLedgerServer.AddUser),
		unary(MethodRemoveUser, TaskLedgerServer.RemoveUser),
		unary(MethodChangeRole, TaskLedgerServer.ChangeRole),
		unary(MethodSetUsername, TaskLedgerServer.SetUsername),
		unary(MethodGetUser, TaskLedgerServer.GetUser),
		unary(MethodGetRole, TaskLedgerServer.GetRole),
		unary(MethodHasUser, TaskLedgerServer.HasUser),
		unary(MethodGetAllUsers, TaskLedgerServer.GetAllUsers),
		unary(MethodCreateTask, TaskLedgerServer.CreateTask),
		unary(MethodSetAssignee, TaskLedgerServer.SetAssignee),
		unary(MethodUpdateTaskStatus, TaskLedgerServer.UpdateTaskStatus),
		unary(MethodDepositETH, TaskLedgerServer.DepositETH),
		unary(MethodCompleteTask, TaskLedgerServer.CompleteTask),
		unary(MethodGetTaskByID, TaskLedgerServer.GetTaskByID),
		unary(MethodGetAllTasks, TaskLedgerServer.GetAllTasks),
		unary(MethodGetBalance, TaskLedgerServer.GetBalance),
		unary(MethodListEvents, TaskLedgerServer.ListEvents),
		unary(MethodVerifyEvents, TaskLedgerServer.VerifyEvents),
		unary(MethodExportSnapshot, TaskLedgerServer.ExportSnapshot),
		unary(MethodPing, TaskLedgerServer.Ping),
	},
	Metadata: "taskledger/v1",
}

// RegisterTaskLedgerServer attaches srv to s.
func RegisterTaskLedgerServer(s grpc.ServiceRegistrar, srv TaskLedgerServer) {
	s.RegisterService(&TaskLedgerServiceDesc, srv)
}

// TaskLedgerClient is the typed client stub. Every call is sent with the
// CBOR content-subtype.
type TaskLedgerClient struct {
	cc grpc.ClientConnInterface
}

func NewTaskLedgerClient(cc grpc.ClientConnInterface) *TaskLedgerClient {
	return &TaskLedgerClient{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codec.Name)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *TaskLedgerClient) AddUser(ctx context.Context, in *AddUserRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[AddUserRequest, Empty](ctx, c.cc, MethodAddUser, in, opts...)
}

func (c *TaskLedgerClient) RemoveUser(ctx context.Context, in *RemoveUserRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[RemoveUserRequest, Empty](ctx, c.cc, MethodRemoveUser, in, opts...)
}

func (c *TaskLedgerClient) ChangeRole(ctx context.Context, in *ChangeRoleRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[ChangeRoleRequest, Empty](ctx, c.cc, MethodChangeRole, in, opts...)
}

func (c *TaskLedgerClient) SetUsername(ctx context.Context, in *SetUsernameRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[SetUsernameRequest, Empty](ctx, c.cc, MethodSetUsername, in, opts...)
}

func (c *TaskLedgerClient) GetUser(ctx context.Context, in *GetUserRequest, opts ...grpc.CallOption) (*GetUserResponse, error) {
	return invoke[GetUserRequest, GetUserResponse](ctx, c.cc, MethodGetUser, in, opts...)
}

func (c *TaskLedgerClient) GetRole(ctx context.Context, in *GetRoleRequest, opts ...grpc.CallOption) (*GetRoleResponse, error) {
	return invoke[GetRoleRequest, GetRoleResponse](ctx, c.cc, MethodGetRole, in, opts...)
}

func (c *TaskLedgerClient) HasUser(ctx context.Context, in *HasUserRequest, opts ...grpc.CallOption) (*HasUserResponse, error) {
	return invoke[HasUserRequest, HasUserResponse](ctx, c.cc, MethodHasUser, in, opts...)
}

func (c *TaskLedgerClient) GetAllUsers(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*GetAllUsersResponse, error) {
	return invoke[Empty, GetAllUsersResponse](ctx, c.cc, MethodGetAllUsers, in, opts...)
}

func (c *TaskLedgerClient) CreateTask(ctx context.Context, in *CreateTaskRequest, opts ...grpc.CallOption) (*TaskResponse, error) {
	return invoke[CreateTaskRequest, TaskResponse](ctx, c.cc, MethodCreateTask, in, opts...)
}

func (c *TaskLedgerClient) SetAssignee(ctx context.Context, in *SetAssigneeRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[SetAssigneeRequest, Empty](ctx, c.cc, MethodSetAssignee, in, opts...)
}

func (c *TaskLedgerClient) UpdateTaskStatus(ctx context.Context, in *UpdateTaskStatusRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[UpdateTaskStatusRequest, Empty](ctx, c.cc, MethodUpdateTaskStatus, in, opts...)
}

func (c *TaskLedgerClient) DepositETH(ctx context.Context, in *DepositETHRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[DepositETHRequest, Empty](ctx, c.cc, MethodDepositETH, in, opts...)
}

func (c *TaskLedgerClient) CompleteTask(ctx context.Context, in *TaskRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[TaskRequest, Empty](ctx, c.cc, MethodCompleteTask, in, opts...)
}

func (c *TaskLedgerClient) GetTaskByID(ctx context.Context, in *TaskRequest, opts ...grpc.CallOption) (*TaskResponse, error) {
	return invoke[TaskRequest, TaskResponse](ctx, c.cc, MethodGetTaskByID, in, opts...)
}

func (c *TaskLedgerClient) GetAllTasks(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*GetAllTasksResponse, error) {
	return invoke[Empty, GetAllTasksResponse](ctx, c.cc, MethodGetAllTasks, in, opts...)
}

func (c *TaskLedgerClient) GetBalance(ctx context.Context, in *GetBalanceRequest, opts ...grpc.CallOption) (*GetBalanceResponse, error) {
	return invoke[GetBalanceRequest, GetBalanceResponse](ctx, c.cc, MethodGetBalance, in, opts...)
}

func (c *TaskLedgerClient) ListEvents(ctx context.Context, in *ListEventsRequest, opts ...grpc.CallOption) (*ListEventsResponse, error) {
	return invoke[ListEventsRequest, ListEventsResponse](ctx, c.cc, MethodListEvents, in, opts...)
}

func (c *TaskLedgerClient) VerifyEvents(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*VerifyEventsResponse, error) {
	return invoke[Empty, VerifyEventsResponse](ctx, c.cc, MethodVerifyEvents, in, opts...)
}

func (c *TaskLedgerClient) ExportSnapshot(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ExportSnapshotResponse, error) {
	return invoke[Empty, ExportSnapshotResponse](ctx, c.cc, MethodExportSnapshot, in, opts...)
}

func (c *TaskLedgerClient) Ping(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[Empty, PingResponse](ctx, c.cc, MethodPing, in, opts...)
}
