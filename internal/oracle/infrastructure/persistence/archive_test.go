package persistence_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/slotwise/internal/oracle/domain"
	"github.com/felixgeelhaar/slotwise/internal/oracle/infrastructure/persistence"
)

func openArchive(t *testing.T) *persistence.ResultArchive {
	t.Helper()
	archive, err := persistence.OpenResultArchive(context.Background(),
		filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { archive.Close() })
	return archive
}

func sampleResult(id string) domain.OracleResult {
	return domain.OracleResult{
		InstanceID: id,
		FeasibleCandidates: []domain.CandidateDoc{
			{Start: "2026-01-19T09:00:00+09:00", End: "2026-01-19T09:30:00+09:00"},
		},
		ExplanationKeys: []domain.ExplanationKey{{Source: "slots", Key: "time_window"}},
		Meta:            domain.ResultMeta{GeneratedCount: 8, PostFilterCount: 5, RequestedCount: 1},
	}
}

func TestResultArchive_StoreAndLoad(t *testing.T) {
	archive := openArchive(t)
	ctx := context.Background()

	stored := sampleResult("inst_001")
	require.NoError(t, archive.Store(ctx, []domain.OracleResult{stored}))

	loaded, found, err := archive.Load(ctx, "inst_001")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, stored, loaded)
}

func TestResultArchive_LoadMissing(t *testing.T) {
	archive := openArchive(t)

	_, found, err := archive.Load(context.Background(), "inst_absent")

	require.NoError(t, err)
	assert.False(t, found)
}

func TestResultArchive_StoreReplacesExistingRow(t *testing.T) {
	archive := openArchive(t)
	ctx := context.Background()

	first := sampleResult("inst_001")
	require.NoError(t, archive.Store(ctx, []domain.OracleResult{first}))

	second := sampleResult("inst_001")
	second.Meta.RequestedCount = 5
	require.NoError(t, archive.Store(ctx, []domain.OracleResult{second}))

	loaded, found, err := archive.Load(ctx, "inst_001")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 5, loaded.Meta.RequestedCount)

	count, err := archive.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestResultArchive_CountAcrossBatches(t *testing.T) {
	archive := openArchive(t)
	ctx := context.Background()

	require.NoError(t, archive.Store(ctx, []domain.OracleResult{
		sampleResult("inst_001"),
		sampleResult("inst_002"),
	}))
	require.NoError(t, archive.Store(ctx, []domain.OracleResult{
		sampleResult("inst_003"),
	}))

	count, err := archive.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestResultArchive_Reopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results.db")
	ctx := context.Background()

	archive, err := persistence.OpenResultArchive(ctx, path)
	require.NoError(t, err)
	require.NoError(t, archive.Store(ctx, []domain.OracleResult{sampleResult("inst_001")}))
	require.NoError(t, archive.Close())

	reopened, err := persistence.OpenResultArchive(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	_, found, err := reopened.Load(ctx, "inst_001")
	require.NoError(t, err)
	assert.True(t, found)
}
