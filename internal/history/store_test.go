package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/harrison/featverify/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "history", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testRun(expected string, startedAt time.Time, errors int) *Run {
	return &Run{
		ExpectedPath:  expected,
		ActualPath:    "actual.xml",
		ExpectedCases: 3,
		ActualCases:   2,
		ErrorCount:    errors,
		WarningCount:  1,
		StartedAt:     startedAt,
		Duration:      1500 * time.Millisecond,
	}
}

func TestNewStore_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "runs.db")
	store, err := NewStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	assert.FileExists(t, dbPath)
	assert.Equal(t, dbPath, store.Path())
}

func TestNewStore_InMemory(t *testing.T) {
	store, err := NewStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	_, err = store.RecordRun(context.Background(), testRun("e.xml", time.Now(), 0), nil)
	require.NoError(t, err)

	runs, err := store.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRecordRun_AssignsIDAndRoundTrips(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	started := time.Date(2026, 3, 1, 12, 30, 0, 123456789, time.UTC)
	run := testRun("expected.xml", started, 2)
	findings := []models.Finding{
		{CaseKey: "global results", Severity: models.SeverityError, Message: "Missing case [k1]"},
		{CaseKey: "Process:server Kernel:k Roots:r", Severity: models.SeverityError, Message: "Extra [ b ]"},
		{CaseKey: "Process:server Kernel:k Roots:r", Severity: models.SeverityWarning, Message: "Order error at [0]: Expected [a] Actual [b]"},
	}

	id, err := store.RecordRun(ctx, run, findings)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, id, run.ID)

	got, err := store.GetRun(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "expected.xml", got.ExpectedPath)
	assert.Equal(t, "actual.xml", got.ActualPath)
	assert.Equal(t, 3, got.ExpectedCases)
	assert.Equal(t, 2, got.ActualCases)
	assert.Equal(t, 2, got.ErrorCount)
	assert.Equal(t, 1, got.WarningCount)
	assert.True(t, started.Equal(got.StartedAt))
	assert.Equal(t, 1500*time.Millisecond, got.Duration)
	assert.False(t, got.Passed())

	gotFindings, err := store.GetFindings(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, findings, gotFindings)
}

func TestRecordRun_KeepsExplicitID(t *testing.T) {
	store := setupTestStore(t)
	run := testRun("e.xml", time.Now(), 0)
	run.ID = "fixed-id"

	id, err := store.RecordRun(context.Background(), run, nil)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", id)

	_, err = store.RecordRun(context.Background(), run, nil)
	assert.Error(t, err, "duplicate run id should fail")
}

func TestGetRun_Unknown(t *testing.T) {
	store := setupTestStore(t)
	run, err := store.GetRun(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, run)
}

func TestListRuns_NewestFirstWithLimit(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"first.xml", "second.xml", "third.xml"} {
		_, err := store.RecordRun(ctx, testRun(name, base.Add(time.Duration(i)*time.Hour), 0), nil)
		require.NoError(t, err)
	}

	all, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third.xml", all[0].ExpectedPath)
	assert.Equal(t, "first.xml", all[2].ExpectedPath)

	limited, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "third.xml", limited[0].ExpectedPath)
	assert.Equal(t, "second.xml", limited[1].ExpectedPath)
}

func TestPruneRuns(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 5; i++ {
		id, err := store.RecordRun(ctx, testRun("e.xml", base.Add(time.Duration(i)*time.Minute), 1),
			[]models.Finding{{CaseKey: "k", Severity: models.SeverityError, Message: "m"}})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	deleted, err := store.PruneRuns(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, deleted, "keep=0 keeps everything")

	deleted, err = store.PruneRuns(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[4], runs[0].ID)
	assert.Equal(t, ids[3], runs[1].ID)

	oldFindings, err := store.GetFindings(ctx, ids[0])
	require.NoError(t, err)
	assert.Empty(t, oldFindings)

	keptFindings, err := store.GetFindings(ctx, ids[4])
	require.NoError(t, err)
	assert.Len(t, keptFindings, 1)
}

func TestNewRunFromSummary(t *testing.T) {
	started := time.Now()
	run := NewRun(models.RunSummary{
		ExpectedPath:  "e.xml",
		ActualPath:    "a.xml",
		ExpectedCases: 4,
		ActualCases:   4,
		Errors:        0,
		Warnings:      2,
		Duration:      time.Second,
	}, started)

	assert.Empty(t, run.ID)
	assert.Equal(t, 4, run.ExpectedCases)
	assert.Equal(t, 2, run.WarningCount)
	assert.True(t, run.Passed())
	assert.Equal(t, started, run.StartedAt)
}

func TestResolveRunID(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	for _, id := range []string{"abc12345-one", "abc99999-two", "def00000-three"} {
		run := testRun("e.xml", time.Now(), 0)
		run.ID = id
		_, err := store.RecordRun(ctx, run, nil)
		require.NoError(t, err)
	}

	id, err := store.ResolveRunID(ctx, "def")
	require.NoError(t, err)
	assert.Equal(t, "def00000-three", id)

	id, err = store.ResolveRunID(ctx, "abc12345-one")
	require.NoError(t, err)
	assert.Equal(t, "abc12345-one", id)

	_, err = store.ResolveRunID(ctx, "abc")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = store.ResolveRunID(ctx, "zzz")
	assert.ErrorContains(t, err, "not found")

	_, err = store.ResolveRunID(ctx, "")
	assert.Error(t, err)
}
