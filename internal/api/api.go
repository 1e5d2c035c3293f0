// Package api is the wire contract of the TaskLedger gRPC service: method
// names, request and response messages, and the error reason table.
// Messages travel in CBOR (content-subtype codec.Name), not protobuf.
package api

import (
	"github.com/dmitrijs2005/taskledger/internal/identity"
	"github.com/dmitrijs2005/taskledger/internal/money"
	"github.com/dmitrijs2005/taskledger/internal/server/models"
)

const ServiceName = "taskledger.v1.TaskLedger"

const (
	MethodAddUser          = "AddUser"
	MethodRemoveUser       = "RemoveUser"
	MethodChangeRole       = "ChangeRole"
	MethodSetUsername      = "SetUsername"
	MethodGetUser          = "GetUser"
	MethodGetRole          = "GetRole"
	MethodHasUser          = "HasUser"
	MethodGetAllUsers      = "GetAllUsers"
	MethodCreateTask       = "CreateTask"
	MethodSetAssignee      = "SetAssignee"
	MethodUpdateTaskStatus = "UpdateTaskStatus"
	MethodDepositETH       = "DepositETH"
	MethodCompleteTask     = "CompleteTask"
	MethodGetTaskByID      = "GetTaskByID"
	MethodGetAllTasks      = "GetAllTasks"
	MethodGetBalance       = "GetBalance"
	MethodListEvents       = "ListEvents"
	MethodVerifyEvents     = "VerifyEvents"
	MethodExportSnapshot   = "ExportSnapshot"
	MethodPing             = "Ping"
)

// FullMethod returns the "/service/method" path gRPC routes on.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

var identityRequired = map[string]struct{}{
	FullMethod(MethodAddUser):          {},
	FullMethod(MethodRemoveUser):       {},
	FullMethod(MethodChangeRole):       {},
	FullMethod(MethodSetUsername):      {},
	FullMethod(MethodCreateTask):       {},
	FullMethod(MethodSetAssignee):      {},
	FullMethod(MethodUpdateTaskStatus): {},
	FullMethod(MethodDepositETH):       {},
	FullMethod(MethodCompleteTask):     {},
	FullMethod(MethodExportSnapshot):   {},
}

// RequiresIdentity reports whether fullMethod must carry an access token.
// Everything else may be called anonymously.
func RequiresIdentity(fullMethod string) bool {
	_, ok := identityRequired[fullMethod]
	return ok
}

// Empty is the response of mutations that return nothing.
type Empty struct{}

// Addresses and amounts in requests are strings so the server, not the
// decoder, reports malformed input with the right sentinel.

type AddUserRequest struct {
	Address string      `cbor:"address"`
	Role    models.Role `cbor:"role"`
}

type RemoveUserRequest struct {
	Address string `cbor:"address"`
}

type ChangeRoleRequest struct {
	Address string      `cbor:"address"`
	Role    models.Role `cbor:"role"`
}

type SetUsernameRequest struct {
	Username string `cbor:"username"`
}

type GetUserRequest struct {
	Address string `cbor:"address"`
}

type GetUserResponse struct {
	User models.User `cbor:"user"`
}

type GetRoleRequest struct {
	Address string `cbor:"address"`
}

type GetRoleResponse struct {
	Role models.Role `cbor:"role"`
}

type HasUserRequest struct {
	Address string `cbor:"address"`
}

type HasUserResponse struct {
	Exists bool `cbor:"exists"`
}

type GetAllUsersResponse struct {
	Users []models.User `cbor:"users"`
}

type CreateTaskRequest struct {
	Title       string `cbor:"title"`
	Description string `cbor:"description"`
}

type SetAssigneeRequest struct {
	ID       int64  `cbor:"id"`
	Assignee string `cbor:"assignee"`
}

type UpdateTaskStatusRequest struct {
	ID     int64             `cbor:"id"`
	Status models.TaskStatus `cbor:"status"`
}

type DepositETHRequest struct {
	ID     int64  `cbor:"id"`
	Amount string `cbor:"amount"`
}

type TaskRequest struct {
	ID int64 `cbor:"id"`
}

type TaskResponse struct {
	Task models.Task `cbor:"task"`
}

type GetAllTasksResponse struct {
	Tasks []models.Task `cbor:"tasks"`
}

type GetBalanceRequest struct {
	Address string `cbor:"address"`
}

type GetBalanceResponse struct {
	Address identity.Address `cbor:"address"`
	Amount  money.Amount     `cbor:"amount"`
}

type ListEventsRequest struct {
	AfterSeq int64 `cbor:"after_seq"`
	Limit    int   `cbor:"limit"`
}

type ListEventsResponse struct {
	Events []models.Event `cbor:"events"`
}

type VerifyEventsResponse struct {
	Count    int64  `cbor:"count"`
	HeadSeq  int64  `cbor:"head_seq"`
	HeadHash []byte `cbor:"head_hash"`
	// BrokenAt is the first seq that fails verification, 0 if none.
	BrokenAt int64 `cbor:"broken_at"`
}

type ExportSnapshotResponse struct {
	Ref models.SnapshotRef `cbor:"ref"`
}

type PingResponse struct {
	Status string `cbor:"status"`
}
