package ledger_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refcanon/refcanon/internal/ledger"
	"github.com/refcanon/refcanon/internal/store"
	"github.com/refcanon/refcanon/pkg/errors"
)

func testLedgerContract(t *testing.T, l ledger.Ledger) {
	t.Helper()
	ctx := context.Background()

	t.Run("version gating", func(t *testing.T) {
		ok, err := l.ShouldIngest(ctx, "municipalities", "2024-01")
		require.NoError(t, err)
		assert.True(t, ok, "no prior success means ingest")

		run, err := l.Begin(ctx, "municipalities", "municipalities.csv", "2024-01")
		require.NoError(t, err)
		assert.Equal(t, ledger.StateRunning, run.State)
		assert.Nil(t, run.Finished)

		// A RUNNING run does not gate; only SUCCESS does.
		ok, err = l.ShouldIngest(ctx, "municipalities", "2024-01")
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, l.MarkSuccess(ctx, run))
		assert.Equal(t, ledger.StateSuccess, run.State)
		require.NotNil(t, run.Finished)

		ok, err = l.ShouldIngest(ctx, "municipalities", "2024-01")
		require.NoError(t, err)
		assert.False(t, ok, "same version after success skips")

		ok, err = l.ShouldIngest(ctx, "municipalities", "2024-02")
		require.NoError(t, err)
		assert.True(t, ok, "any other version re-ingests")
	})

	t.Run("failure does not advance the gate", func(t *testing.T) {
		run, err := l.Begin(ctx, "municipalities", "municipalities.csv", "2024-02")
		require.NoError(t, err)
		require.NoError(t, l.MarkFailed(ctx, run, errors.New("source unreadable")))
		assert.Equal(t, ledger.StateFailed, run.State)
		assert.Equal(t, "source unreadable", run.Error)

		ok, err := l.ShouldIngest(ctx, "municipalities", "2024-02")
		require.NoError(t, err)
		assert.True(t, ok, "last success is still 2024-01")

		last, err := l.LastSuccess(ctx, "municipalities")
		require.NoError(t, err)
		assert.Equal(t, "2024-01", last.Version)
	})

	t.Run("idempotent terminal transitions", func(t *testing.T) {
		run, err := l.Begin(ctx, "regions", "regions.csv", "v1")
		require.NoError(t, err)

		require.NoError(t, l.MarkSuccess(ctx, run))
		require.NoError(t, l.MarkSuccess(ctx, run), "repeating success is a no-op")
		assert.Equal(t, ledger.StateSuccess, run.State)

		err = l.MarkFailed(ctx, run, errors.New("late failure"))
		assert.ErrorIs(t, err, errors.ErrRunNotActive, "crossing transitions is rejected")
		assert.Equal(t, ledger.StateSuccess, run.State)

		failed, err := l.Begin(ctx, "regions", "regions.csv", "v2")
		require.NoError(t, err)
		require.NoError(t, l.MarkFailed(ctx, failed, errors.New("boom")))
		require.NoError(t, l.MarkFailed(ctx, failed, errors.New("boom again")))
		assert.Equal(t, "boom", failed.Error, "repeat keeps the first cause")

		err = l.MarkSuccess(ctx, failed)
		assert.ErrorIs(t, err, errors.ErrRunNotActive)
	})

	t.Run("history", func(t *testing.T) {
		runs, err := l.History(ctx, "municipalities")
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, ledger.StateFailed, runs[0].State, "most recent first")
		assert.Equal(t, ledger.StateSuccess, runs[1].State)

		runs, err = l.History(ctx, "postal-codes")
		require.NoError(t, err)
		assert.Empty(t, runs)

		_, err = l.LastSuccess(ctx, "postal-codes")
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestMemoryLedger(t *testing.T) {
	testLedgerContract(t, ledger.NewMemory())
}

func TestSQLiteLedger(t *testing.T) {
	db, err := store.OpenDB(filepath.Join(t.TempDir(), "refcanon.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	l, err := ledger.NewSQLite(db)
	require.NoError(t, err)
	testLedgerContract(t, l)
}
