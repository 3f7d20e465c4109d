package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/docparse/bounds-matcher/model"
)

func sampleResult() model.BatchResult {
	return model.BatchResult{
		BatchID: "7b00bd10-13a9-4e4f-9a6c-5a8f2f6f7d21",
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
			{
				EntityName:       "Ghost Metric",
				EntityType:       "kpi",
				MatchStrategy:    "none",
				Confidence:       0.0,
				ComponentMatches: []model.ComponentMatch{},
			},
		},
		Statistics: model.MatchStatistics{
			TotalEntities:  2,
			Matched:        1,
			Unmatched:      1,
			StrategiesUsed: map[string]int{"exact": 1, "none": 1},
		},
	}
}

func TestResultJSONContract(t *testing.T) {
	data, err := ResultJSON(sampleResult())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	entities, ok := decoded["matched_entities"].([]any)
	require.True(t, ok)
	require.Len(t, entities, 2)

	first := entities[0].(map[string]any)
	assert.Equal(t, "Total Revenue", first["entity_name"])
	assert.Equal(t, "exact", first["match_strategy"])
	require.NotNil(t, first["bounds"])
	bounds := first["bounds"].(map[string]any)
	assert.Equal(t, float64(1), bounds["page"])

	// An unmatched entity serializes bounds as null, not as a zero rect.
	second := entities[1].(map[string]any)
	assert.Nil(t, second["bounds"])

	stats := decoded["statistics"].(map[string]any)
	assert.Equal(t, float64(2), stats["total_entities"])
	assert.Equal(t, float64(1), stats["matched"])
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	require.NoError(t, WriteJSON(path, sampleResult()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestResultXLSX(t *testing.T) {
	data, err := ResultXLSX(sampleResult())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	name, err := f.GetCellValue(matchesSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Total Revenue", name)

	strategy, err := f.GetCellValue(matchesSheet, "C3")
	require.NoError(t, err)
	assert.Equal(t, "none", strategy)

	// Unmatched rows leave the bounds columns empty.
	page, err := f.GetCellValue(matchesSheet, "E3")
	require.NoError(t, err)
	assert.Empty(t, page)

	total, err := f.GetCellValue(statisticsSheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "2", total)

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, matchesSheet)
	assert.Contains(t, sheets, statisticsSheet)
	assert.NotContains(t, sheets, "Sheet1")
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.xlsx")
	require.NoError(t, WriteXLSX(path, sampleResult()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	value, err := f.GetCellValue(statisticsSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Matched", value)
}
