package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/taskledger/internal/common"
	"github.com/dmitrijs2005/taskledger/internal/dbx"
	"github.com/dmitrijs2005/taskledger/internal/identity"
	"github.com/dmitrijs2005/taskledger/internal/money"
	"github.com/dmitrijs2005/taskledger/internal/server/access"
	"github.com/dmitrijs2005/taskledger/internal/server/models"
	"github.com/dmitrijs2005/taskledger/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskledger/internal/server/repositories/users"
)

// DirectoryView is the read-only directory capability the ledger is
// constructed with.
type DirectoryView interface {
	View(q dbx.DBTX) users.Reader
}

// LedgerService owns tasks and the value escrowed against them. Every
// mutation requires the owner or a maintainer.
type LedgerService struct {
	seq       *Sequencer
	rm        repomanager.RepositoryManager
	directory DirectoryView
	policy    *access.Policy
	payer     Payer
}

func NewLedgerService(seq *Sequencer, rm repomanager.RepositoryManager, directory DirectoryView, policy *access.Policy, payer Payer) *LedgerService {
	return &LedgerService{seq: seq, rm: rm, directory: directory, policy: policy, payer: payer}
}

// authorize resolves caller against the directory view bound to tx.
func (s *LedgerService) authorize(ctx context.Context, tx dbx.DBTX, caller identity.Address) error {
	_, err := s.policy.RequireMaintainer(ctx, s.directory.View(tx), caller)
	return err
}

func (s *LedgerService) CreateTask(ctx context.Context, caller identity.Address, title, description string) (*models.Task, error) {
	var task *models.Task
	err := s.seq.Write(ctx, func(ctx context.Context, tx dbx.DBTX, emit Emit) error {
		if err := s.authorize(ctx, tx, caller); err != nil {
			return err
		}
		if title == "" {
			return common.ErrEmptyTitle
		}

		t := &models.Task{Title: title, Description: description, Status: models.StatusBacklog}
		if err := s.rm.Tasks(tx).Create(ctx, t); err != nil {
			return err
		}
		emit(models.TaskCreated{ID: t.ID, Title: t.Title, Description: t.Description})
		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// SetAssignee sets the task's assignee once. The candidate must be a
// directory member of any role.
func (s *LedgerService) SetAssignee(ctx context.Context, caller identity.Address, id int64, assignee string) error {
	return s.seq.Write(ctx, func(ctx context.Context, tx dbx.DBTX, emit Emit) error {
		if err := s.authorize(ctx, tx, caller); err != nil {
			return err
		}
		addr, err := identity.ParseMember(assignee)
		if err != nil {
			return err
		}
		repo := s.rm.Tasks(tx)
		task, err := getTask(ctx, repo.Get, id)
		if err != nil {
			return err
		}
		if task.HasAssignee() {
			return fmt.Errorf("%w: task %d", common.ErrAssigneeAlreadySet, id)
		}
		member, err := s.directory.View(tx).Exists(ctx, addr)
		if err != nil {
			return err
		}
		if !member {
			return fmt.Errorf("%w: %s", common.ErrUnknownAssignee, addr)
		}

		if err := repo.SetAssignee(ctx, id, addr); err != nil {
			return err
		}
		emit(models.AssigneeSet{ID: id, Assignee: addr})
		return nil
	})
}

// UpdateTaskStatus moves a task among Backlog, InProgress and Validate.
// Done is reachable only through CompleteTask.
func (s *LedgerService) UpdateTaskStatus(ctx context.Context, caller identity.Address, id int64, status models.TaskStatus) error {
	return s.seq.Write(ctx, func(ctx context.Context, tx dbx.DBTX, emit Emit) error {
		if err := s.authorize(ctx, tx, caller); err != nil {
			return err
		}
		if !status.Valid() {
			return fmt.Errorf("%w: %s", common.ErrInvalidStatus, status)
		}
		repo := s.rm.Tasks(tx)
		task, err := getTask(ctx, repo.Get, id)
		if err != nil {
			return err
		}
		if !task.HasAssignee() {
			return common.ErrNoAssignee
		}
		if status == models.StatusDone {
			return fmt.Errorf("%w: cannot set status to Done using this function", common.ErrInvalidTransition)
		}
		if task.Done() {
			return fmt.Errorf("%w: cannot update status of a completed task", common.ErrInvalidTransition)
		}

		if err := repo.SetStatus(ctx, id, status); err != nil {
			return err
		}
		emit(models.TaskStatusUpdated{ID: id, Status: status})
		return nil
	})
}

// DepositETH adds amount, a base-10 count of base units, to the task's
// escrowed reward.
func (s *LedgerService) DepositETH(ctx context.Context, caller identity.Address, id int64, rawAmount string) error {
	return s.seq.Write(ctx, func(ctx context.Context, tx dbx.DBTX, emit Emit) error {
		if err := s.authorize(ctx, tx, caller); err != nil {
			return err
		}
		amount, err := money.Parse(rawAmount)
		if err != nil {
			return err
		}
		repo := s.rm.Tasks(tx)
		task, err := getTask(ctx, repo.Get, id)
		if err != nil {
			return err
		}
		if task.Done() {
			return fmt.Errorf("%w: task %d", common.ErrTaskCompleted, id)
		}

		reward, err := task.Reward.CheckedAdd(amount)
		if err != nil {
			return err
		}
		if err := repo.SetReward(ctx, id, reward); err != nil {
			return err
		}
		emit(models.ETHDeposited{ID: id, Amount: amount})
		return nil
	})
}

// CompleteTask pays the whole reward to the assignee and marks the task
// done. A failed payment aborts the operation with the task unchanged.
func (s *LedgerService) CompleteTask(ctx context.Context, caller identity.Address, id int64) error {
	return s.seq.Write(ctx, func(ctx context.Context, tx dbx.DBTX, emit Emit) error {
		if err := s.authorize(ctx, tx, caller); err != nil {
			return err
		}
		repo := s.rm.Tasks(tx)
		task, err := getTask(ctx, repo.Get, id)
		if err != nil {
			return err
		}
		if task.Status != models.StatusValidate {
			return fmt.Errorf("%w: task %d is %s", common.ErrNotInValidation, id, task.Status)
		}
		if task.Reward.IsZero() {
			return fmt.Errorf("%w: task %d", common.ErrNoReward, id)
		}

		if err := repo.Settle(ctx, id); err != nil {
			return err
		}
		if err := s.payer.Pay(ctx, tx, task.Assignee, task.Reward); err != nil {
			return fmt.Errorf("pay task %d reward: %w", id, err)
		}
		emit(models.TaskCompleted{ID: id, Assignee: task.Assignee})
		return nil
	})
}

func (s *LedgerService) GetTaskByID(ctx context.Context, id int64) (*models.Task, error) {
	return getTask(ctx, s.rm.Tasks(s.seq.DB()).Get, id)
}

// GetAllTasks returns every task in creation order.
func (s *LedgerService) GetAllTasks(ctx context.Context) ([]models.Task, error) {
	return s.rm.Tasks(s.seq.DB()).List(ctx)
}

// GetBalance returns value paid out to addr so far.
func (s *LedgerService) GetBalance(ctx context.Context, addr identity.Address) (money.Amount, error) {
	return s.rm.Balances(s.seq.DB()).Get(ctx, addr)
}

func getTask(ctx context.Context, get func(context.Context, int64) (*models.Task, error), id int64) (*models.Task, error) {
	if id < 0 {
		return nil, fmt.Errorf("task %d: %w", id, common.ErrorNotFound)
	}
	return get(ctx, id)
}
