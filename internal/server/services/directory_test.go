package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/taskledger/internal/common"
	"github.com/dmitrijs2005/taskledger/internal/identity"
	"github.com/dmitrijs2005/taskledger/internal/server/models"
)

func TestAddUser(t *testing.T) {
	env := newTestEnv(t)
	env.seedUsers(t)
	ctx := context.Background()

	require.NoError(t, env.directory.AddUser(ctx, maintainer, none.Hex(), models.RoleViewer))
	assert.Equal(t, &models.UserAdded{Address: none}, env.sink.last(t))

	u, err := env.directory.GetUser(ctx, none.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.User{Address: none, Role: models.RoleViewer}, *u)
}

func TestAddUser_Rejections(t *testing.T) {
	env := newTestEnv(t)
	env.seedUsers(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		caller identity.Address
		target string
		role   models.Role
		want   error
	}{
		{"viewer caller", viewer, none.Hex(), models.RoleViewer, common.ErrAccessDenied},
		{"assignee caller", assignee, none.Hex(), models.RoleViewer, common.ErrAccessDenied},
		{"unknown caller", none, none.Hex(), models.RoleViewer, common.ErrAccessDenied},
		{"access checked before input", viewer, "0x12", models.RoleNone, common.ErrAccessDenied},
		{"role none", maintainer, none.Hex(), models.RoleNone, common.ErrRoleRequired},
		{"role out of range", maintainer, none.Hex(), models.Role(4), common.ErrRoleRequired},
		{"duplicate", maintainer, viewer.Hex(), models.RoleViewer, common.ErrAlreadyExists},
		{"owner is reserved", maintainer, owner.Hex(), models.RoleViewer, common.ErrAlreadyExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.directory.AddUser(ctx, tt.caller, tt.target, tt.role)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	for _, addr := range invalidAddresses {
		err := env.directory.AddUser(ctx, owner, addr, models.RoleViewer)
		assert.ErrorIs(t, err, common.ErrInvalidIdentity, addr)
	}

	assert.Empty(t, env.sink.names())
	all, err := env.directory.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRemoveUser(t *testing.T) {
	env := newTestEnv(t)
	env.seedUsers(t)
	ctx := context.Background()

	require.NoError(t, env.directory.RemoveUser(ctx, maintainer, viewer.Hex()))
	assert.Equal(t, &models.UserRemoved{Address: viewer}, env.sink.last(t))

	_, err := env.directory.GetUser(ctx, viewer.Hex())
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorContains(t, err, "user with given address is not added")

	err = env.directory.RemoveUser(ctx, maintainer, none.Hex())
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorContains(t, err, "user does not exist")

	assert.ErrorIs(t, env.directory.RemoveUser(ctx, assignee, maintainer.Hex()), common.ErrAccessDenied)
}

func TestRemoveUser_OwnerIsNotAMember(t *testing.T) {
	env := newTestEnv(t)
	env.seedUsers(t)

	err := env.directory.RemoveUser(context.Background(), maintainer, owner.Hex())
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestChangeRole(t *testing.T) {
	env := newTestEnv(t)
	env.seedUsers(t)
	ctx := context.Background()

	require.NoError(t, env.directory.ChangeRole(ctx, maintainer, assignee.Hex(), models.RoleViewer))
	assert.Equal(t, &models.RoleChanged{Address: assignee, Role: models.RoleViewer}, env.sink.last(t))

	role, err := env.directory.GetRole(ctx, assignee)
	require.NoError(t, err)
	assert.Equal(t, models.RoleViewer, role)
}

func TestChangeRole_UnregisteredIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.seedUsers(t)

	err := env.directory.ChangeRole(context.Background(), maintainer, none.Hex(), models.RoleViewer)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorContains(t, err, "user must be added first")
	assert.NotContains(t, env.sink.names(), models.EventRoleChanged)
}

func TestChangeRole_Rejections(t *testing.T) {
	env := newTestEnv(t)
	env.seedUsers(t)
	ctx := context.Background()

	for _, r := range []models.Role{models.RoleNone, 4, 10, 255} {
		err := env.directory.ChangeRole(ctx, maintainer, viewer.Hex(), r)
		assert.ErrorIs(t, err, common.ErrRoleRequired, r.String())
	}
	for _, addr := range invalidAddresses {
		err := env.directory.ChangeRole(ctx, maintainer, addr, models.RoleViewer)
		assert.ErrorIs(t, err, common.ErrInvalidIdentity, addr)
	}
	assert.ErrorIs(t, env.directory.ChangeRole(ctx, viewer, viewer.Hex(), models.RoleMaintainer), common.ErrAccessDenied)
	assert.Empty(t, env.sink.names())
}

func TestChangeRole_DemotedMaintainerLosesAccess(t *testing.T) {
	env := newTestEnv(t)
	env.seedUsers(t)
	ctx := context.Background()

	require.NoError(t, env.directory.ChangeRole(ctx, owner, maintainer.Hex(), models.RoleViewer))
	err := env.directory.AddUser(ctx, maintainer, none.Hex(), models.RoleViewer)
	assert.ErrorIs(t, err, common.ErrAccessDenied)
}

func TestSetUsername(t *testing.T) {
	env := newTestEnv(t)
	env.seedUsers(t)
	ctx := context.Background()

	require.NoError(t, env.directory.SetUsername(ctx, viewer, "Username"))
	assert.Equal(t, &models.UsernameUpdated{Address: viewer, Username: "Username"}, env.sink.last(t))

	u, err := env.directory.GetUser(ctx, viewer.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Username", u.Username)
}

func TestSetUsername_Rejections(t *testing.T) {
	env := newTestEnv(t)
	env.seedUsers(t)
	ctx := context.Background()

	require.NoError(t, env.directory.SetUsername(ctx, maintainer, "keep"))
	env.sink.reset()

	assert.ErrorIs(t, env.directory.SetUsername(ctx, maintainer, ""), common.ErrEmptyName)
	u, err := env.directory.GetUser(ctx, maintainer.Hex())
	require.NoError(t, err)
	assert.Equal(t, "keep", u.Username)

	// membership is checked before the name
	assert.ErrorIs(t, env.directory.SetUsername(ctx, none, ""), common.ErrorNotFound)
	assert.ErrorIs(t, env.directory.SetUsername(ctx, owner, "boss"), common.ErrorNotFound)
	assert.ErrorIs(t, env.directory.SetUsername(ctx, identity.Zero, "x"), common.ErrorNotFound)
	assert.Empty(t, env.sink.names())
}

func TestReads(t *testing.T) {
	env := newTestEnv(t)
	env.seedUsers(t)
	ctx := context.Background()

	role, err := env.directory.GetRole(ctx, none)
	require.NoError(t, err)
	assert.Equal(t, models.RoleNone, role)

	role, err = env.directory.GetRole(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, models.RoleNone, role)

	ok, err := env.directory.HasUser(ctx, viewer)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = env.directory.HasUser(ctx, none)
	require.NoError(t, err)
	assert.False(t, ok)

	for _, addr := range invalidAddresses {
		_, err := env.directory.GetUser(ctx, addr)
		assert.ErrorIs(t, err, common.ErrInvalidIdentity, addr)
	}
}

func TestGetAllUsers_InsertionOrder(t *testing.T) {
	env := newTestEnv(t)
	env.seedUsers(t)
	ctx := context.Background()

	all, err := env.directory.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.User{
		{Address: maintainer, Role: models.RoleMaintainer},
		{Address: assignee, Role: models.RoleAssignee},
		{Address: viewer, Role: models.RoleViewer},
	}, all)

	require.NoError(t, env.directory.RemoveUser(ctx, owner, maintainer.Hex()))
	require.NoError(t, env.directory.AddUser(ctx, owner, maintainer.Hex(), models.RoleViewer))

	all, err = env.directory.GetAllUsers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, maintainer, all[2].Address)
}

func TestNeverAddedIdentity_IsDeniedEverywhere(t *testing.T) {
	env := newTestEnv(t)
	env.seedUsers(t)
	ctx := context.Background()

	task, err := env.ledger.CreateTask(ctx, owner, "t", "")
	require.NoError(t, err)
	env.sink.reset()

	role, err := env.directory.GetRole(ctx, none)
	require.NoError(t, err)
	assert.Equal(t, models.RoleNone, role)

	denied := []error{
		env.directory.AddUser(ctx, none, none.Hex(), models.RoleViewer),
		env.directory.RemoveUser(ctx, none, viewer.Hex()),
		env.directory.ChangeRole(ctx, none, viewer.Hex(), models.RoleMaintainer),
		env.ledger.SetAssignee(ctx, none, task.ID, viewer.Hex()),
		env.ledger.UpdateTaskStatus(ctx, none, task.ID, models.StatusInProgress),
		env.ledger.DepositETH(ctx, none, task.ID, "1"),
		env.ledger.CompleteTask(ctx, none, task.ID),
	}
	_, err = env.ledger.CreateTask(ctx, none, "x", "")
	denied = append(denied, err)

	for i, err := range denied {
		assert.ErrorIs(t, err, common.ErrAccessDenied, "op %d", i)
	}
	assert.Empty(t, env.sink.names())
}
