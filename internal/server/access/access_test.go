package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/taskledger/internal/common"
	"github.com/dmitrijs2005/taskledger/internal/identity"
	"github.com/dmitrijs2005/taskledger/internal/server/models"
)

type fakeRoles struct {
	roles map[identity.Address]models.Role
	calls int
	err   error
}

func (f *fakeRoles) GetRole(_ context.Context, addr identity.Address) (models.Role, error) {
	f.calls++
	if f.err != nil {
		return models.RoleNone, f.err
	}
	return f.roles[addr], nil
}

var (
	owner      = identity.MustParse("0x5b38da6a701c568545dcfcb03fcb875f56beddc4")
	maintainer = identity.MustParse("0xab8483f64d9c6d1ecf9b849ae677dd3315835cb2")
	viewer     = identity.MustParse("0x4b20993bc481177ec7e8f571cecae8a9e22c02db")
	stranger   = identity.MustParse("0x78731d3ca6b7e34ac0f824c42a7cc18a495cabab")
)

func newRoles() *fakeRoles {
	return &fakeRoles{roles: map[identity.Address]models.Role{
		maintainer: models.RoleMaintainer,
		viewer:     models.RoleViewer,
	}}
}

func TestResolve_OwnerSkipsDirectory(t *testing.T) {
	roles := newRoles()
	p := NewPolicy(owner)

	c, err := p.Resolve(context.Background(), roles, owner)
	require.NoError(t, err)
	assert.True(t, c.Owner)
	assert.True(t, c.CanMaintain())
	assert.Equal(t, 0, roles.calls)
}

func TestResolve_Members(t *testing.T) {
	p := NewPolicy(owner)
	tests := []struct {
		name  string
		addr  identity.Address
		role  models.Role
		maint bool
	}{
		{"maintainer", maintainer, models.RoleMaintainer, true},
		{"viewer", viewer, models.RoleViewer, false},
		{"unknown", stranger, models.RoleNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := p.Resolve(context.Background(), newRoles(), tt.addr)
			require.NoError(t, err)
			assert.False(t, c.Owner)
			assert.Equal(t, tt.role, c.Role)
			assert.Equal(t, tt.maint, c.CanMaintain())
		})
	}
}

func TestResolve_AnonymousIsNone(t *testing.T) {
	roles := newRoles()
	c, err := NewPolicy(owner).Resolve(context.Background(), roles, identity.Zero)
	require.NoError(t, err)
	assert.Equal(t, Caller{}, c)
	assert.Equal(t, 0, roles.calls)
}

func TestResolve_ZeroOwnerNeverMatches(t *testing.T) {
	c, err := NewPolicy(identity.Zero).Resolve(context.Background(), newRoles(), identity.Zero)
	require.NoError(t, err)
	assert.False(t, c.Owner)
}

func TestRequireMaintainer(t *testing.T) {
	p := NewPolicy(owner)

	_, err := p.RequireMaintainer(context.Background(), newRoles(), viewer)
	assert.ErrorIs(t, err, common.ErrAccessDenied)

	_, err = p.RequireMaintainer(context.Background(), newRoles(), stranger)
	assert.ErrorIs(t, err, common.ErrAccessDenied)

	c, err := p.RequireMaintainer(context.Background(), newRoles(), maintainer)
	require.NoError(t, err)
	assert.Equal(t, models.RoleMaintainer, c.Role)
}

func TestRequireMaintainer_LookupError(t *testing.T) {
	boom := errors.New("db down")
	_, err := NewPolicy(owner).RequireMaintainer(context.Background(), &fakeRoles{err: boom}, viewer)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, common.ErrAccessDenied)
}

func TestAtLeast(t *testing.T) {
	c := Caller{Role: models.RoleAssignee}
	assert.True(t, c.AtLeast(models.RoleViewer))
	assert.True(t, c.AtLeast(models.RoleAssignee))
	assert.False(t, c.AtLeast(models.RoleMaintainer))
	assert.True(t, Caller{Owner: true}.AtLeast(models.RoleMaintainer))
}
