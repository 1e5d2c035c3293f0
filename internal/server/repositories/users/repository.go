package users

import (
	"context"

	"github.com/dmitrijs2005/taskledger/internal/identity"
	"github.com/dmitrijs2005/taskledger/internal/server/models"
)

// Reader is the read-only view of the directory handed to other
// components.
type Reader interface {
	Get(ctx context.Context, addr identity.Address) (*models.User, error)
	Exists(ctx context.Context, addr identity.Address) (bool, error)
	// GetRole returns models.RoleNone for unknown addresses.
	GetRole(ctx context.Context, addr identity.Address) (models.Role, error)
	// List returns members in insertion order.
	List(ctx context.Context) ([]models.User, error)
}

type Repository interface {
	Reader
	Create(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, addr identity.Address) error
	UpdateRole(ctx context.Context, addr identity.Address, role models.Role) error
	UpdateUsername(ctx context.Context, addr identity.Address, username string) error
}
