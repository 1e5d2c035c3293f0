package services

import (
	"context"

	"github.com/dmitrijs2005/taskledger/internal/dbx"
	"github.com/dmitrijs2005/taskledger/internal/identity"
	"github.com/dmitrijs2005/taskledger/internal/money"
	"github.com/dmitrijs2005/taskledger/internal/server/repositories/repomanager"
)

// Payer transfers value to an identity inside the caller's transaction.
// Returning an error aborts the surrounding operation.
type Payer interface {
	Pay(ctx context.Context, tx dbx.DBTX, to identity.Address, amount money.Amount) error
}

// BalanceBook pays by crediting the payee's withdrawable balance.
type BalanceBook struct {
	rm repomanager.RepositoryManager
}

func NewBalanceBook(rm repomanager.RepositoryManager) *BalanceBook {
	return &BalanceBook{rm: rm}
}

func (b *BalanceBook) Pay(ctx context.Context, tx dbx.DBTX, to identity.Address, amount money.Amount) error {
	repo := b.rm.Balances(tx)
	current, err := repo.Get(ctx, to)
	if err != nil {
		return err
	}
	balance, err := current.CheckedAdd(amount)
	if err != nil {
		return err
	}
	return repo.Put(ctx, to, balance)
}
