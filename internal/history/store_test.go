package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRecordAndRecentRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err = store.RecordRun(ctx, RunSummary{
		TestPath: "levels/boss.gmt", Mode: "record", StartedAt: base,
		FrameCount: 120, AssertionCount: 4,
	})
	require.NoError(t, err)

	id, err := store.RecordRun(ctx, RunSummary{
		TestPath: "levels/boss.gmt", Mode: "replay", StartedAt: base.Add(time.Hour),
		FrameCount: 120, AssertionCount: 4, Failed: true, FailureDetail: "track mismatch at key 7",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	runs, err := store.RecentRuns(ctx, "levels/boss.gmt", 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, "replay", runs[0].Mode)
	require.True(t, runs[0].Failed)
	require.Equal(t, "track mismatch at key 7", runs[0].FailureDetail)
	require.Equal(t, "record", runs[1].Mode)
}

func TestRecentRunsRespectsLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := store.RecordRun(ctx, RunSummary{
			TestPath: "a.gmt", Mode: "record", StartedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	runs, err := store.RecentRuns(ctx, "a.gmt", 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
}

func TestPruneOlderThanRemovesOldRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err = store.RecordRun(ctx, RunSummary{TestPath: "a.gmt", Mode: "record", StartedAt: base})
	require.NoError(t, err)
	_, err = store.RecordRun(ctx, RunSummary{TestPath: "a.gmt", Mode: "record", StartedAt: base.Add(30 * 24 * time.Hour)})
	require.NoError(t, err)

	removed, err := store.PruneOlderThan(ctx, base.Add(24*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	runs, err := store.RecentRuns(ctx, "a.gmt", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
}
