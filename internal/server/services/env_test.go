package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/taskledger/internal/identity"
	"github.com/dmitrijs2005/taskledger/internal/server/access"
	"github.com/dmitrijs2005/taskledger/internal/server/models"
	"github.com/dmitrijs2005/taskledger/internal/server/repositories/repomanager"
)

var (
	owner      = identity.MustParse("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
	maintainer = identity.MustParse("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
	assignee   = identity.MustParse("0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc")
	viewer     = identity.MustParse("0x90f79bf6eb2c4f870365e785982e1f101e93b906")
	none       = identity.MustParse("0x15d34aaf54267db7d7c367839aaf71a00a2c6a65")
)

// invalidAddresses are malformed or reserved identity strings.
var invalidAddresses = []string{
	"0x0000000000000000000000000000000000000000",
	"0x12345",
	"0x1234567890abcdef1234567890abcdef1234567890abcdef",
	"0x1234567890ABCDEF1234567890GHIJKLMNOPQRSTUVWX",
	"1234567890abcdef1234567890abcdef12345678",
	"0x",
	"0x1234567890abcdef1234567890abcdef1234567g",
}

type recordingSink struct {
	mu     sync.Mutex
	events []models.Event
}

func (r *recordingSink) Publish(_ context.Context, e models.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingSink) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Name)
	}
	return out
}

func (r *recordingSink) last(t *testing.T) models.Notification {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.events)
	e := r.events[len(r.events)-1]
	n, err := models.DecodeNotification(e.Name, e.Payload)
	require.NoError(t, err)
	return n
}

func (r *recordingSink) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

type testEnv struct {
	seq       *Sequencer
	rm        repomanager.RepositoryManager
	sink      *recordingSink
	policy    *access.Policy
	directory *DirectoryService
	ledger    *LedgerService
}

// newTestEnv opens a migrated sqlite database in a temp dir.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithPayer(t, nil)
}

func newTestEnvWithPayer(t *testing.T, payer Payer) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, rm, err := repomanager.Open(ctx, filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, rm.RunMigrations(ctx, db))

	sink := &recordingSink{}
	seq := NewSequencer(db, rm, sink)
	policy := access.NewPolicy(owner)
	directory := NewDirectoryService(seq, rm, policy)
	if payer == nil {
		payer = NewBalanceBook(rm)
	}
	ledger := NewLedgerService(seq, rm, directory, policy, payer)

	return &testEnv{seq: seq, rm: rm, sink: sink, policy: policy, directory: directory, ledger: ledger}
}

// seedUsers adds maintainer, assignee and viewer as the owner.
func (e *testEnv) seedUsers(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.directory.AddUser(ctx, owner, maintainer.Hex(), models.RoleMaintainer))
	require.NoError(t, e.directory.AddUser(ctx, owner, assignee.Hex(), models.RoleAssignee))
	require.NoError(t, e.directory.AddUser(ctx, owner, viewer.Hex(), models.RoleViewer))
	e.sink.reset()
}
