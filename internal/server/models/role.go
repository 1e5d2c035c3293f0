// Package models defines the ledger's persisted records and the
// notifications emitted when they change.
package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/taskledger/internal/common"
)

// Role is an ordinal permission tier. Comparisons are by ordinal.
type Role uint8

const (
	RoleNone Role = iota
	RoleViewer
	RoleAssignee
	RoleMaintainer
)

var roleNames = [...]string{"none", "viewer", "assignee", "maintainer"}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "role(" + strconv.Itoa(int(r)) + ")"
}

// Assignable reports whether r may be stored in the directory.
// RoleNone and values past RoleMaintainer are not.
func (r Role) Assignable() bool {
	return r >= RoleViewer && r <= RoleMaintainer
}

// ParseRole accepts a role name or its ordinal.
func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range roleNames {
		if s == name {
			return Role(i), nil
		}
	}
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil || n >= uint64(len(roleNames)) {
		return RoleNone, fmt.Errorf("%w: %q", common.ErrRoleRequired, s)
	}
	return Role(n), nil
}
