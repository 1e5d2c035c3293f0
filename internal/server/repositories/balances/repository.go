package balances

import (
	"context"

	"github.com/dmitrijs2005/taskledger/internal/identity"
	"github.com/dmitrijs2005/taskledger/internal/money"
	"github.com/dmitrijs2005/taskledger/internal/server/models"
)

type Repository interface {
	// Get returns money.Zero for an address never paid.
	Get(ctx context.Context, addr identity.Address) (money.Amount, error)
	Put(ctx context.Context, addr identity.Address, amount money.Amount) error
	List(ctx context.Context) ([]models.Balance, error)
}
