package persistence

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docparse/bounds-matcher/model"
)

func sampleBatch(id string) model.BatchResult {
	return model.BatchResult{
		BatchID: id,
		MatchedEntities: []model.MatchedEntity{
			{
				EntityName:    "Total Revenue",
				EntityType:    "kpi",
				MatchStrategy: "exact",
				Confidence:    1.0,
				Bounds:        &model.Bounds{Page: 1, X: 0.1, Y: 0.2, Width: 0.3, Height: 0.02},
				ComponentMatches: []model.ComponentMatch{
					{Text: "Total Revenue", Bounds: &model.Bounds{Page: 1, X: 0.1, Y: 0.2, Width: 0.3, Height: 0.02}},
				},
			},
		},
		Statistics: model.MatchStatistics{
			TotalEntities:  1,
			Matched:        1,
			StrategiesUsed: map[string]int{"exact": 1},
		},
	}
}

func TestSaveAndLoadBatch(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "batches"))
	batch := sampleBatch("batch-1")

	require.NoError(t, store.SaveBatch(batch))

	loaded, err := store.LoadBatch("batch-1")
	require.NoError(t, err)
	assert.Equal(t, batch, *loaded)
}

func TestLoadMissingBatch(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.LoadBatch("no-such-batch")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSaveBatchWithoutID(t *testing.T) {
	store := NewStore(t.TempDir())
	assert.Error(t, store.SaveBatch(model.BatchResult{}))
}

func TestListBatchIDs(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "batches"))

	ids, err := store.ListBatchIDs()
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, store.SaveBatch(sampleBatch("batch-a")))
	require.NoError(t, store.SaveBatch(sampleBatch("batch-b")))

	ids, err = store.ListBatchIDs()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"batch-a", "batch-b"}, ids)
}
