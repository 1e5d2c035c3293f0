package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/taskledger/internal/common"
	"github.com/dmitrijs2005/taskledger/internal/identity"
	"github.com/dmitrijs2005/taskledger/internal/money"
)

// Amount is re-exported so model users need a single import.
type Amount = money.Amount

// TaskStatus is the lifecycle position of a task.
type TaskStatus uint8

const (
	StatusBacklog TaskStatus = iota
	StatusInProgress
	StatusValidate
	StatusDone
)

var statusNames = [...]string{"backlog", "in_progress", "validate", "done"}

func (s TaskStatus) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "status(" + strconv.Itoa(int(s)) + ")"
}

func (s TaskStatus) Valid() bool { return s <= StatusDone }

// ParseStatus accepts a status name (dash or underscore) or its ordinal.
func ParseStatus(s string) (TaskStatus, error) {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for i, name := range statusNames {
		if s == name {
			return TaskStatus(i), nil
		}
	}
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil || n >= uint64(len(statusNames)) {
		return StatusBacklog, fmt.Errorf("%w: %q", common.ErrInvalidStatus, s)
	}
	return TaskStatus(n), nil
}

// Task is a unit of work with value escrowed against it.
// Assignee is identity.Zero until set.
type Task struct {
	ID          int64            `cbor:"id"`
	Title       string           `cbor:"title"`
	Description string           `cbor:"description"`
	Assignee    identity.Address `cbor:"assignee"`
	Reward      Amount           `cbor:"reward"`
	Status      TaskStatus       `cbor:"status"`
}

func (t *Task) HasAssignee() bool { return !t.Assignee.IsZero() }

func (t *Task) Done() bool { return t.Status == StatusDone }
