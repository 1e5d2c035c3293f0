package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskledger/internal/codec"
	"github.com/dmitrijs2005/taskledger/internal/identity"
)

// Event is a committed notification as stored in the event log.
// Hash chains every event to its predecessor.
type Event struct {
	Seq       int64     `cbor:"seq"`
	Name      string    `cbor:"name"`
	Payload   []byte    `cbor:"payload"`
	PrevHash  []byte    `cbor:"prev_hash"`
	Hash      []byte    `cbor:"hash"`
	CreatedAt time.Time `cbor:"created_at"`
}

// Notification is a state-change announcement. Each implementation
// encodes as a CBOR array holding its positional arguments.
type Notification interface {
	EventName() string
}

const (
	EventUserAdded         = "UserAdded"
	EventUserRemoved       = "UserRemoved"
	EventRoleChanged       = "RoleChanged"
	EventUsernameUpdated   = "UsernameUpdated"
	EventTaskCreated       = "TaskCreated"
	EventAssigneeSet       = "AssigneeSet"
	EventTaskStatusUpdated = "TaskStatusUpdated"
	EventETHDeposited      = "ETHDeposited"
	EventTaskCompleted     = "TaskCompleted"
)

type UserAdded struct {
	_       struct{} `cbor:",toarray"`
	Address identity.Address
}

type UserRemoved struct {
	_       struct{} `cbor:",toarray"`
	Address identity.Address
}

type RoleChanged struct {
	_       struct{} `cbor:",toarray"`
	Address identity.Address
	Role    Role
}

type UsernameUpdated struct {
	_        struct{} `cbor:",toarray"`
	Address  identity.Address
	Username string
}

type TaskCreated struct {
	_           struct{} `cbor:",toarray"`
	ID          int64
	Title       string
	Description string
}

type AssigneeSet struct {
	_        struct{} `cbor:",toarray"`
	ID       int64
	Assignee identity.Address
}

type TaskStatusUpdated struct {
	_      struct{} `cbor:",toarray"`
	ID     int64
	Status TaskStatus
}

type ETHDeposited struct {
	_      struct{} `cbor:",toarray"`
	ID     int64
	Amount Amount
}

type TaskCompleted struct {
	_        struct{} `cbor:",toarray"`
	ID       int64
	Assignee identity.Address
}

func (UserAdded) EventName() string         { return EventUserAdded }
func (UserRemoved) EventName() string       { return EventUserRemoved }
func (RoleChanged) EventName() string       { return EventRoleChanged }
func (UsernameUpdated) EventName() string   { return EventUsernameUpdated }
func (TaskCreated) EventName() string       { return EventTaskCreated }
func (AssigneeSet) EventName() string       { return EventAssigneeSet }
func (TaskStatusUpdated) EventName() string { return EventTaskStatusUpdated }
func (ETHDeposited) EventName() string      { return EventETHDeposited }
func (TaskCompleted) EventName() string     { return EventTaskCompleted }

var notificationTypes = map[string]func() Notification{
	EventUserAdded:         func() Notification { return &UserAdded{} },
	EventUserRemoved:       func() Notification { return &UserRemoved{} },
	EventRoleChanged:       func() Notification { return &RoleChanged{} },
	EventUsernameUpdated:   func() Notification { return &UsernameUpdated{} },
	EventTaskCreated:       func() Notification { return &TaskCreated{} },
	EventAssigneeSet:       func() Notification { return &AssigneeSet{} },
	EventTaskStatusUpdated: func() Notification { return &TaskStatusUpdated{} },
	EventETHDeposited:      func() Notification { return &ETHDeposited{} },
	EventTaskCompleted:     func() Notification { return &TaskCompleted{} },
}

// EncodeNotification returns the CBOR payload of n.
func EncodeNotification(n Notification) ([]byte, error) {
	return codec.Marshal(n)
}

// DecodeNotification rebuilds the typed notification stored under name.
// The result is a pointer to one of the notification structs.
func DecodeNotification(name string, payload []byte) (Notification, error) {
	newFn, ok := notificationTypes[name]
	if !ok {
		return nil, fmt.Errorf("unknown event %q", name)
	}
	n := newFn()
	if err := codec.Unmarshal(payload, n); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return n, nil
}

// Args decodes an event payload into its positional arguments.
func (e *Event) Args() ([]any, error) {
	var args []any
	if err := codec.Unmarshal(e.Payload, &args); err != nil {
		return nil, err
	}
	return args, nil
}
