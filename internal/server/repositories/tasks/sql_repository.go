// Package tasks stores ledger tasks and their escrowed rewards.
package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskledger/internal/common"
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

const selectTask = `SELECT id, title, description, assignee, reward, status FROM tasks`

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (models.Task, error) {
	var t models.Task
	var status int64
	err := s.Scan(&t.ID, &t.Title, &t.Description, &t.Assignee, &t.Reward, &status)
	t.Status = models.TaskStatus(status)
	return t, err
}

// Create assigns ids densely from zero.
func (r *SQLRepository) Create(ctx context.Context, task *models.Task) error {
	var id int64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), -1) + 1 FROM tasks`).Scan(&id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	query :=
		`INSERT INTO tasks (id, title, description, reward, status)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	_, err = r.db.ExecContext(ctx, query, id, task.Title, task.Description, task.Reward, int64(task.Status))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	task.ID = id
	return nil
}

func (r *SQLRepository) Get(ctx context.Context, id int64) (*models.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, selectTask+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %d: %w", id, common.ErrorNotFound)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &t, nil
}

func (r *SQLRepository) List(ctx context.Context) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, selectTask+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLRepository) SetAssignee(ctx context.Context, id int64, assignee identity.Address) error {
	return r.update(ctx, id, `UPDATE tasks SET assignee = $2 WHERE id = $1`, assignee)
}

func (r *SQLRepository) SetStatus(ctx context.Context, id int64, status models.TaskStatus) error {
	return r.update(ctx, id, `UPDATE tasks SET status = $2 WHERE id = $1`, int64(status))
}

func (r *SQLRepository) SetReward(ctx context.Context, id int64, reward money.Amount) error {
	return r.update(ctx, id, `UPDATE tasks SET reward = $2 WHERE id = $1`, reward)
}

func (r *SQLRepository) Settle(ctx context.Context, id int64) error {
	return r.update(ctx, id, `UPDATE tasks SET reward = $2, status = $3 WHERE id = $1`,
		money.Zero, int64(models.StatusDone))
}

func (r *SQLRepository) update(ctx context.Context, id int64, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("task %d: %w", id, common.ErrorNotFound)
	}
	return nil
}
