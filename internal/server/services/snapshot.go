package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/taskledger/internal/common"
	"github.com/dmitrijs2005/taskledger/internal/dbx"
	"github.com/dmitrijs2005/taskledger/internal/identity"
	"github.com/dmitrijs2005/taskledger/internal/server/access"
	"github.com/dmitrijs2005/taskledger/internal/server/models"
	"github.com/dmitrijs2005/taskledger/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskledger/internal/server/snapshots"
)

// SnapshotService exports the whole ledger to object storage. Exports
// read one consistent committed state and emit no events.
type SnapshotService struct {
	seq       *Sequencer
	rm        repomanager.RepositoryManager
	directory DirectoryView
	policy    *access.Policy
	store     snapshots.Store
	prefix    string
	now       func() time.Time
}

// NewSnapshotService returns a service that rejects every export when
// store is nil.
func NewSnapshotService(seq *Sequencer, rm repomanager.RepositoryManager, directory DirectoryView,
	policy *access.Policy, store snapshots.Store, prefix string) *SnapshotService {
	return &SnapshotService{
		seq:       seq,
		rm:        rm,
		directory: directory,
		policy:    policy,
		store:     store,
		prefix:    prefix,
		now:       time.Now,
	}
}

func (s *SnapshotService) Export(ctx context.Context, caller identity.Address) (*models.SnapshotRef, error) {
	snap := &models.Snapshot{Version: models.SnapshotVersion, TakenAt: s.now().UTC()}

	err := s.seq.Read(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		view := s.directory.View(tx)
		if _, err := s.policy.RequireMaintainer(ctx, view, caller); err != nil {
			return err
		}
		if s.store == nil {
			return common.ErrSnapshotsDisabled
		}

		var err error
		if snap.Users, err = view.List(ctx); err != nil {
			return err
		}
		if snap.Tasks, err = s.rm.Tasks(tx).List(ctx); err != nil {
			return err
		}
		if snap.Balances, err = s.rm.Balances(tx).List(ctx); err != nil {
			return err
		}
		snap.EventSeq, snap.EventHash, err = s.rm.Events(tx).Head(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	body, digest, err := snapshots.Encode(snap)
	if err != nil {
		return nil, err
	}
	key := snapshots.ObjectKey(s.prefix, snap.TakenAt)
	if err := s.store.Put(ctx, key, body); err != nil {
		return nil, err
	}

	ref := &models.SnapshotRef{Key: key, Digest: digest, Size: len(body), EventSeq: snap.EventSeq}
	if url, err := s.store.PresignGet(ctx, key); err == nil {
		ref.URL = url
	}
	return ref, nil
}
