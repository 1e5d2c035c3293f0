package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/taskledger/internal/api"
	"github.com/dmitrijs2005/taskledger/internal/identity"
	"github.com/dmitrijs2005/taskledger/internal/money"
	"github.com/dmitrijs2005/taskledger/internal/server/models"
)

// fakeLedger records every call as a formatted line.
type fakeLedger struct {
	calls  []string
	err    error
	users  []models.User
	tasks  []models.Task
	events []models.Event
	report *api.VerifyEventsResponse
	ref    *models.SnapshotRef
}

func (f *fakeLedger) rec(format string, args ...any) error {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	return f.err
}

func (f *fakeLedger) Ping(context.Context) error { return f.rec("ping") }
func (f *fakeLedger) AddUser(_ context.Context, a string, r models.Role) error {
	return f.rec("add %s %s", a, r)
}
func (f *fakeLedger) RemoveUser(_ context.Context, a string) error { return f.rec("remove %s", a) }
func (f *fakeLedger) ChangeRole(_ context.Context, a string, r models.Role) error {
	return f.rec("role %s %s", a, r)
}
func (f *fakeLedger) SetUsername(_ context.Context, n string) error { return f.rec("name %s", n) }
func (f *fakeLedger) GetUser(_ context.Context, a string) (*models.User, error) {
	if err := f.rec("user %s", a); err != nil {
		return nil, err
	}
	return &f.users[0], nil
}
func (f *fakeLedger) GetRole(_ context.Context, a string) (models.Role, error) {
	return models.RoleAssignee, f.rec("getrole %s", a)
}
func (f *fakeLedger) HasUser(_ context.Context, a string) (bool, error) {
	return true, f.rec("has %s", a)
}
func (f *fakeLedger) GetAllUsers(context.Context) ([]models.User, error) {
	return f.users, f.rec("users")
}
func (f *fakeLedger) CreateTask(_ context.Context, title, desc string) (*models.Task, error) {
	if err := f.rec("create %q %q", title, desc); err != nil {
		return nil, err
	}
	return &models.Task{ID: 9, Title: title, Description: desc}, nil
}
func (f *fakeLedger) SetAssignee(_ context.Context, id int64, a string) error {
	return f.rec("assign %d %s", id, a)
}
func (f *fakeLedger) UpdateTaskStatus(_ context.Context, id int64, st models.TaskStatus) error {
	return f.rec("status %d %s", id, st)
}
func (f *fakeLedger) DepositETH(_ context.Context, id int64, amount string) error {
	return f.rec("deposit %d %s", id, amount)
}
func (f *fakeLedger) CompleteTask(_ context.Context, id int64) error { return f.rec("complete %d", id) }
func (f *fakeLedger) GetTaskByID(_ context.Context, id int64) (*models.Task, error) {
	if err := f.rec("task %d", id); err != nil {
		return nil, err
	}
	return &f.tasks[0], nil
}
func (f *fakeLedger) GetAllTasks(context.Context) ([]models.Task, error) {
	return f.tasks, f.rec("tasks")
}
func (f *fakeLedger) GetBalance(_ context.Context, a string) (identity.Address, money.Amount, error) {
	return identity.MustParse(a), money.MustParse("77"), f.rec("balance %s", a)
}
func (f *fakeLedger) ListEvents(_ context.Context, after int64, limit int) ([]models.Event, error) {
	return f.events, f.rec("events %d %d", after, limit)
}
func (f *fakeLedger) VerifyEvents(context.Context) (*api.VerifyEventsResponse, error) {
	return f.report, f.rec("verify")
}
func (f *fakeLedger) ExportSnapshot(context.Context) (*models.SnapshotRef, error) {
	return f.ref, f.rec("snapshot")
}
