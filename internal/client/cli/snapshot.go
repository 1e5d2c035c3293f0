package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskledger/internal/cryptox"
	"github.com/dmitrijs2005/taskledger/internal/filex"
	"github.com/dmitrijs2005/taskledger/internal/netx"
	"github.com/dmitrijs2005/taskledger/internal/server/models"
	"github.com/dmitrijs2005/taskledger/internal/server/snapshots"
)

// ErrDigestMismatch means the downloaded body is not the exported one.
var ErrDigestMismatch = errors.New("snapshot digest mismatch")

var download = netx.Download

// saveSnapshot fetches ref, checks its digest and decodes it before
// writing the compressed body to path.
func (a *App) saveSnapshot(ctx context.Context, ref *models.SnapshotRef, path string) error {
	body, err := download(ctx, ref.URL)
	if err != nil {
		return fmt.Errorf("download snapshot: %w", err)
	}
	if !cryptox.VerifyDigest(body, ref.Digest) {
		return fmt.Errorf("%w: got %s, want %s", ErrDigestMismatch, cryptox.Digest(body), ref.Digest)
	}

	snap, err := snapshots.Decode(body)
	if err != nil {
		return err
	}
	if err := filex.WriteFile(path, body); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "saved %s: %d users, %d tasks, %d balances, taken %s\n",
		path, len(snap.Users), len(snap.Tasks), len(snap.Balances), snap.TakenAt.Format("2006-01-02 15:04:05"))
	return nil
}
