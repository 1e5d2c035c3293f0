package server

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/taskledger/internal/common"
	"github.com/dmitrijs2005/taskledger/internal/identity"
	"github.com/dmitrijs2005/taskledger/internal/server/config"
	"github.com/dmitrijs2005/taskledger/internal/server/snapshots"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.DatabaseDSN = filepath.Join(t.TempDir(), "ledger.db")
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.LogLevel = "error"
	return c
}

func TestNewApp_SQLite(t *testing.T) {
	c := testConfig(t)
	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.db.Close() })

	require.NotNil(t, app.services.Directory)
	require.NotNil(t, app.services.Ledger)
	require.NotNil(t, app.services.Events)

	_, err = app.services.Snapshots.Export(context.Background(), identity.MustParse(c.OwnerAddress))
	assert.ErrorIs(t, err, common.ErrSnapshotsDisabled)
}

func TestNewApp_BadOwner(t *testing.T) {
	c := testConfig(t)
	c.OwnerAddress = "0x0000000000000000000000000000000000000000"

	_, err := NewApp(context.Background(), c)
	assert.ErrorIs(t, err, common.ErrInvalidIdentity)
}

func TestNewApp_SnapshotStoreError(t *testing.T) {
	c := testConfig(t)
	c.S3Bucket = "ledger"

	orig := newS3Store
	newS3Store = func(context.Context, *config.Config) (snapshots.Store, error) {
		return nil, errors.New("no credentials")
	}
	t.Cleanup(func() { newS3Store = orig })

	_, err := NewApp(context.Background(), c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot store")
}

func TestRun_StopsOnCancel(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Error(t, app.db.Ping(), "db should be closed")
}
