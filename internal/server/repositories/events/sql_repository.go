// Package events persists the notification log.
package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskledger/internal/dbx"
	"github.com/dmitrijs2005/taskledger/internal/server/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Append(ctx context.Context, e *models.Event) error {
	query :=
		`INSERT INTO events (seq, name, payload, prev_hash, hash, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `

	_, err := r.db.ExecContext(ctx, query, e.Seq, e.Name, e.Payload, e.PrevHash, e.Hash, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) Head(ctx context.Context) (int64, []byte, error) {
	var seq int64
	var hash []byte
	err := r.db.QueryRowContext(ctx, `SELECT seq, hash FROM events ORDER BY seq DESC LIMIT 1`).Scan(&seq, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil, nil
		}
		return 0, nil, fmt.Errorf("db error: %w", err)
	}
	return seq, hash, nil
}

func (r *SQLRepository) List(ctx context.Context, afterSeq int64, limit int) ([]models.Event, error) {
	query :=
		`SELECT seq, name, payload, prev_hash, hash, created_at FROM events
		 WHERE seq > $1
		 ORDER BY seq
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, afterSeq, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Event{}
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.Seq, &e.Name, &e.Payload, &e.PrevHash, &e.Hash, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		e.CreatedAt = e.CreatedAt.UTC()
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
