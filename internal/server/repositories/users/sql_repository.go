// Package users stores directory members.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskledger/internal/common"
	"github.com/dmitrijs2005/taskledger/internal/dbx"
	"github.com/dmitrijs2005/taskledger/internal/identity"
	"github.com/dmitrijs2005/taskledger/internal/server/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Get(ctx context.Context, addr identity.Address) (*models.User, error) {
	query :=
		`SELECT address, role, username FROM users
		 WHERE address = $1
		 `

	user := &models.User{}
	var role int64
	err := r.db.QueryRowContext(ctx, query, addr).Scan(&user.Address, &role, &user.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", addr, common.ErrorNotFound)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	user.Role = models.Role(role)

	return user, nil
}

func (r *SQLRepository) Exists(ctx context.Context, addr identity.Address) (bool, error) {
	query := `SELECT COUNT(*) FROM users WHERE address = $1`

	var n int64
	if err := r.db.QueryRowContext(ctx, query, addr).Scan(&n); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *SQLRepository) GetRole(ctx context.Context, addr identity.Address) (models.Role, error) {
	query := `SELECT role FROM users WHERE address = $1`

	var role int64
	err := r.db.QueryRowContext(ctx, query, addr).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RoleNone, nil
		}
		return models.RoleNone, fmt.Errorf("db error: %w", err)
	}
	return models.Role(role), nil
}

func (r *SQLRepository) List(ctx context.Context) ([]models.User, error) {
	query :=
		`SELECT address, role, username FROM users
		 ORDER BY seq
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.User{}
	for rows.Next() {
		var u models.User
		var role int64
		if err := rows.Scan(&u.Address, &role, &u.Username); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		u.Role = models.Role(role)
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Create appends user after every existing member.
func (r *SQLRepository) Create(ctx context.Context, user *models.User) error {
	var seq int64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM users`).Scan(&seq)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	query :=
		`INSERT INTO users (address, role, username, seq)
		 VALUES ($1, $2, $3, $4)
		 `

	_, err = r.db.ExecContext(ctx, query, user.Address, int64(user.Role), user.Username, seq)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, addr identity.Address) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE address = $1`, addr)
	return checkAffected(res, err, addr)
}

func (r *SQLRepository) UpdateRole(ctx context.Context, addr identity.Address, role models.Role) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET role = $2 WHERE address = $1`, addr, int64(role))
	return checkAffected(res, err, addr)
}

func (r *SQLRepository) UpdateUsername(ctx context.Context, addr identity.Address, username string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET username = $2 WHERE address = $1`, addr, username)
	return checkAffected(res, err, addr)
}

func checkAffected(res sql.Result, err error, addr identity.Address) error {
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %s: %w", addr, common.ErrorNotFound)
	}
	return nil
}
