package tasks

import (
	"context"

	"github.com/dmitrijs2005/taskledger/internal/identity"
	"github.com/dmitrijs2005/taskledger/internal/money"
	"github.com/dmitrijs2005/taskledger/internal/server/models"
)

type Repository interface {
	// Create stores task under the next sequential id and sets task.ID.
	Create(ctx context.Context, task *models.Task) error
	Get(ctx context.Context, id int64) (*models.Task, error)
	List(ctx context.Context) ([]models.Task, error)
	SetAssignee(ctx context.Context, id int64, assignee identity.Address) error
	SetStatus(ctx context.Context, id int64, status models.TaskStatus) error
	SetReward(ctx context.Context, id int64, reward money.Amount) error
	// Settle zeroes the reward and marks the task done.
	Settle(ctx context.Context, id int64) error
}
