// Package services contains the ledger's business logic: the single-writer
// Sequencer, the user directory, the task ledger with its value transfer
// primitive, and snapshot export.
package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskledger/internal/dbx"
	"github.com/dmitrijs2005/taskledger/internal/server/models"
	"github.com/dmitrijs2005/taskledger/internal/server/notify"
	"github.com/dmitrijs2005/taskledger/internal/server/repositories/repomanager"
	"github.com/zeebo/blake3"
)

// GenesisHash is the PrevHash of the first event in the log.
var GenesisHash = make([]byte, blake3Size)

const blake3Size = 32

// Emit queues a notification for the running write.
type Emit func(models.Notification)

// WriteFunc is the body of a mutating operation.
type WriteFunc func(ctx context.Context, tx dbx.DBTX, emit Emit) error

// Sequencer serializes every mutation of the directory and the ledger.
// A write runs under one mutex and one transaction; the notifications it
// emits are appended to the event log in that transaction and published
// to the sink only after commit.
type Sequencer struct {
	mu   sync.Mutex
	db   *sql.DB
	rm   repomanager.RepositoryManager
	sink notify.Sink
	now  func() time.Time
}

func NewSequencer(db *sql.DB, rm repomanager.RepositoryManager, sink notify.Sink) *Sequencer {
	if sink == nil {
		sink = notify.Discard{}
	}
	return &Sequencer{db: db, rm: rm, sink: sink, now: time.Now}
}

// DB is the handle for reads, which never take the writer lock.
func (s *Sequencer) DB() *sql.DB { return s.db }

// Write runs fn as one atomic, totally ordered mutation. If fn fails
// nothing is stored and nothing is published.
func (s *Sequencer) Write(ctx context.Context, fn WriteFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var committed []models.Event
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var pending []models.Notification
		if err := fn(ctx, tx, func(n models.Notification) { pending = append(pending, n) }); err != nil {
			return err
		}
		var err error
		committed, err = s.appendEvents(ctx, tx, pending)
		return err
	})
	if err != nil {
		return err
	}

	for _, e := range committed {
		s.sink.Publish(ctx, e)
	}
	return nil
}

// Read runs fn in a read-only transaction over the latest committed state.
func (s *Sequencer) Read(ctx context.Context, fn dbx.TxFunc) error {
	return dbx.WithReadTx(ctx, s.db, fn)
}

func (s *Sequencer) appendEvents(ctx context.Context, tx dbx.DBTX, pending []models.Notification) ([]models.Event, error) {
	if len(pending) == 0 {
		return nil, nil
	}

	repo := s.rm.Events(tx)
	seq, prev, err := repo.Head(ctx)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		prev = GenesisHash
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	out := make([]models.Event, 0, len(pending))
	for _, n := range pending {
		payload, err := models.EncodeNotification(n)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", n.EventName(), err)
		}
		seq++
		e := models.Event{
			Seq:       seq,
			Name:      n.EventName(),
			Payload:   payload,
			PrevHash:  prev,
			CreatedAt: now,
		}
		e.Hash = ChainHash(e)
		if err := repo.Append(ctx, &e); err != nil {
			return nil, err
		}
		out = append(out, e)
		prev = e.Hash
	}
	return out, nil
}

// ChainHash is blake3(prev_hash || seq || name || 0x00 || payload).
func ChainHash(e models.Event) []byte {
	h := blake3.New()
	h.Write(e.PrevHash)
	var seq [8]byte
	binary.BigEndian.PutUint64(seq[:], uint64(e.Seq))
	h.Write(seq[:])
	h.Write([]byte(e.Name))
	h.Write([]byte{0})
	h.Write(e.Payload)
	return h.Sum(nil)
}

const (
	defaultEventPage = 100
	maxEventPage     = 1000
)

// ListEvents returns committed events with seq > afterSeq in order.
// A non-positive limit selects the default page size.
func (s *Sequencer) ListEvents(ctx context.Context, afterSeq int64, limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = defaultEventPage
	}
	if limit > maxEventPage {
		limit = maxEventPage
	}
	if afterSeq < 0 {
		afterSeq = 0
	}
	return s.rm.Events(s.db).List(ctx, afterSeq, limit)
}

// ChainReport is the outcome of VerifyEvents. BrokenAt is zero when the
// whole chain verifies.
type ChainReport struct {
	Count    int64
	HeadSeq  int64
	HeadHash []byte
	BrokenAt int64
}

// VerifyEvents recomputes the hash chain over the whole log.
func (s *Sequencer) VerifyEvents(ctx context.Context) (*ChainReport, error) {
	report := &ChainReport{}
	err := s.Read(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Events(tx)
		prev := GenesisHash
		var after int64
		for {
			page, err := repo.List(ctx, after, maxEventPage)
			if err != nil {
				return err
			}
			for _, e := range page {
				report.Count++
				if e.Seq != after+1 || !bytes.Equal(e.PrevHash, prev) || !bytes.Equal(e.Hash, ChainHash(e)) {
					report.BrokenAt = e.Seq
					return nil
				}
				prev, after = e.Hash, e.Seq
				report.HeadSeq, report.HeadHash = e.Seq, e.Hash
			}
			if len(page) < maxEventPage {
				return nil
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
