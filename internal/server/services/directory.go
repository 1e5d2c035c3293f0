package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskledger/internal/common"
	"github.com/dmitrijs2005/taskledger/internal/dbx"
	"github.com/dmitrijs2005/taskledger/internal/identity"
	"github.com/dmitrijs2005/taskledger/internal/server/access"
	"github.com/dmitrijs2005/taskledger/internal/server/models"
	"github.com/dmitrijs2005/taskledger/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskledger/internal/server/repositories/users"
)

// DirectoryService owns user records. Mutations require the owner or a
// maintainer, except SetUsername which is self-service for members.
type DirectoryService struct {
	seq    *Sequencer
	rm     repomanager.RepositoryManager
	policy *access.Policy
}

func NewDirectoryService(seq *Sequencer, rm repomanager.RepositoryManager, policy *access.Policy) *DirectoryService {
	return &DirectoryService{seq: seq, rm: rm, policy: policy}
}

// View returns the read-only directory bound to q. It is the only handle
// other components get.
func (s *DirectoryService) View(q dbx.DBTX) users.Reader {
	return s.rm.Users(q)
}

func (s *DirectoryService) AddUser(ctx context.Context, caller identity.Address, target string, role models.Role) error {
	return s.seq.Write(ctx, func(ctx context.Context, tx dbx.DBTX, emit Emit) error {
		repo := s.rm.Users(tx)
		if _, err := s.policy.RequireMaintainer(ctx, repo, caller); err != nil {
			return err
		}
		addr, err := identity.ParseMember(target)
		if err != nil {
			return err
		}
		if !role.Assignable() {
			return fmt.Errorf("%w: %s", common.ErrRoleRequired, role)
		}
		if s.policy.IsOwner(addr) {
			return fmt.Errorf("%w: %s is the owner", common.ErrAlreadyExists, addr)
		}
		exists, err := repo.Exists(ctx, addr)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s", common.ErrAlreadyExists, addr)
		}

		if err := repo.Create(ctx, &models.User{Address: addr, Role: role}); err != nil {
			return err
		}
		emit(models.UserAdded{Address: addr})
		return nil
	})
}

func (s *DirectoryService) RemoveUser(ctx context.Context, caller identity.Address, target string) error {
	return s.seq.Write(ctx, func(ctx context.Context, tx dbx.DBTX, emit Emit) error {
		repo := s.rm.Users(tx)
		if _, err := s.policy.RequireMaintainer(ctx, repo, caller); err != nil {
			return err
		}
		addr, err := identity.ParseMember(target)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, addr); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return fmt.Errorf("%w: user does not exist", common.ErrorNotFound)
			}
			return err
		}
		emit(models.UserRemoved{Address: addr})
		return nil
	})
}

func (s *DirectoryService) ChangeRole(ctx context.Context, caller identity.Address, target string, role models.Role) error {
	return s.seq.Write(ctx, func(ctx context.Context, tx dbx.DBTX, emit Emit) error {
		repo := s.rm.Users(tx)
		if _, err := s.policy.RequireMaintainer(ctx, repo, caller); err != nil {
			return err
		}
		addr, err := identity.ParseMember(target)
		if err != nil {
			return err
		}
		if err := requireMember(ctx, repo, addr); err != nil {
			return err
		}
		if !role.Assignable() {
			return fmt.Errorf("%w: %s", common.ErrRoleRequired, role)
		}

		if err := repo.UpdateRole(ctx, addr, role); err != nil {
			return err
		}
		emit(models.RoleChanged{Address: addr, Role: role})
		return nil
	})
}

// SetUsername renames the caller's own record. The owner is never a
// member and gets ErrorNotFound.
func (s *DirectoryService) SetUsername(ctx context.Context, caller identity.Address, name string) error {
	return s.seq.Write(ctx, func(ctx context.Context, tx dbx.DBTX, emit Emit) error {
		repo := s.rm.Users(tx)
		if err := requireMember(ctx, repo, caller); err != nil {
			return err
		}
		if name == "" {
			return common.ErrEmptyName
		}

		if err := repo.UpdateUsername(ctx, caller, name); err != nil {
			return err
		}
		emit(models.UsernameUpdated{Address: caller, Username: name})
		return nil
	})
}

func requireMember(ctx context.Context, repo users.Reader, addr identity.Address) error {
	if addr.IsZero() {
		return fmt.Errorf("%w: user must be added first", common.ErrorNotFound)
	}
	ok, err := repo.Exists(ctx, addr)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: user must be added first", common.ErrorNotFound)
	}
	return nil
}

func (s *DirectoryService) GetUser(ctx context.Context, target string) (*models.User, error) {
	addr, err := identity.ParseMember(target)
	if err != nil {
		return nil, err
	}
	u, err := s.View(s.seq.DB()).Get(ctx, addr)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("%w: user with given address is not added", common.ErrorNotFound)
	}
	return u, err
}

// GetRole returns models.RoleNone for unknown addresses.
func (s *DirectoryService) GetRole(ctx context.Context, addr identity.Address) (models.Role, error) {
	return s.View(s.seq.DB()).GetRole(ctx, addr)
}

func (s *DirectoryService) HasUser(ctx context.Context, addr identity.Address) (bool, error) {
	return s.View(s.seq.DB()).Exists(ctx, addr)
}

// GetAllUsers returns members in insertion order.
func (s *DirectoryService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.View(s.seq.DB()).List(ctx)
}
