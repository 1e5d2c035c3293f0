// Package balances stores value credited to assignees on completion.
package balances

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskledger/internal/dbx"
	"github.com/dmitrijs2005/taskledger/internal/identity"
	"github.com/dmitrijs2005/taskledger/internal/money"
	"github.com/dmitrijs2005/taskledger/internal/server/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Get(ctx context.Context, addr identity.Address) (money.Amount, error) {
	var amount money.Amount
	err := r.db.QueryRowContext(ctx, `SELECT amount FROM balances WHERE address = $1`, addr).Scan(&amount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return money.Zero, nil
		}
		return money.Zero, fmt.Errorf("db error: %w", err)
	}
	return amount, nil
}

func (r *SQLRepository) Put(ctx context.Context, addr identity.Address, amount money.Amount) error {
	query :=
		`INSERT INTO balances (address, amount)
		 VALUES ($1, $2)
		 ON CONFLICT (address) DO UPDATE SET amount = excluded.amount
		 `

	if _, err := r.db.ExecContext(ctx, query, addr, amount); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) List(ctx context.Context) ([]models.Balance, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT address, amount FROM balances ORDER BY address`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Balance{}
	for rows.Next() {
		var b models.Balance
		if err := rows.Scan(&b.Address, &b.Amount); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
