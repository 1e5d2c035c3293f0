// Package access resolves who is calling and decides what they may do.
//
// The Owner is configured at startup and never stored in the directory.
// Every other caller is a Member whose role is read from the directory,
// with RoleNone for unknown identities.
package access

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/taskledger/internal/common"
	"github.com/dmitrijs2005/taskledger/internal/identity"
	"github.com/dmitrijs2005/taskledger/internal/server/models"
)

// Caller is the resolved principal of a single operation.
type Caller struct {
	Address identity.Address
	Owner   bool
	Role    models.Role
}

// AtLeast reports whether the caller clears the given role bar.
// The Owner clears every bar.
func (c Caller) AtLeast(r models.Role) bool {
	return c.Owner || c.Role >= r
}

// CanMaintain is the Owner-or-Maintainer bar guarding all mutations.
func (c Caller) CanMaintain() bool {
	return c.AtLeast(models.RoleMaintainer)
}

func (c Caller) String() string {
	if c.Owner {
		return "owner(" + c.Address.Hex() + ")"
	}
	return c.Role.String() + "(" + c.Address.Hex() + ")"
}

// RoleReader is the directory capability the policy needs.
type RoleReader interface {
	GetRole(ctx context.Context, addr identity.Address) (models.Role, error)
}

// Policy binds the owner identity.
type Policy struct {
	owner identity.Address
}

func NewPolicy(owner identity.Address) *Policy {
	return &Policy{owner: owner}
}

// IsOwner reports whether addr is the configured owner.
func (p *Policy) IsOwner(addr identity.Address) bool {
	return !p.owner.IsZero() && addr == p.owner
}

// Resolve classifies addr. The owner never hits the directory.
func (p *Policy) Resolve(ctx context.Context, roles RoleReader, addr identity.Address) (Caller, error) {
	if p.IsOwner(addr) {
		return Caller{Address: addr, Owner: true}, nil
	}
	if addr.IsZero() {
		return Caller{}, nil
	}
	role, err := roles.GetRole(ctx, addr)
	if err != nil {
		return Caller{}, fmt.Errorf("resolve caller: %w", err)
	}
	return Caller{Address: addr, Role: role}, nil
}

// RequireMaintainer resolves addr and fails with ErrAccessDenied unless
// it is the owner or a maintainer.
func (p *Policy) RequireMaintainer(ctx context.Context, roles RoleReader, addr identity.Address) (Caller, error) {
	c, err := p.Resolve(ctx, roles, addr)
	if err != nil {
		return Caller{}, err
	}
	if !c.CanMaintain() {
		return c, fmt.Errorf("%w: %s is not an owner or maintainer", common.ErrAccessDenied, c)
	}
	return c, nil
}
