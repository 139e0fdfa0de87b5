package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyMigrations(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	versions, err := store.GetAppliedVersions(ctx)
	require.NoError(t, err)
	require.Len(t, versions, len(migrations))
	for i, v := range versions {
		assert.Equal(t, migrations[i].Version, v.Version)
		assert.False(t, v.AppliedAt.IsZero())
	}

	latest, err := store.GetLatestVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, migrations[len(migrations)-1].Version, latest)
}

func TestApplyMigrations_Idempotency(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	require.NoError(t, store.ApplyMigrations(ctx))
	require.NoError(t, store.ApplyMigrations(ctx))

	versions, err := store.GetAppliedVersions(ctx)
	require.NoError(t, err)
	assert.Len(t, versions, len(migrations))
}

func TestApplyMigrations_ReopenExistingDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	first, err := NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewStore(dbPath)
	require.NoError(t, err)
	defer second.Close()

	versions, err := second.GetAppliedVersions(context.Background())
	require.NoError(t, err)
	assert.Len(t, versions, len(migrations))
}
