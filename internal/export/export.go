// Package export renders batch results for consumers: the JSON document
// described by the output contract, and an XLSX report for spreadsheet
// review of a batch.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/docparse/bounds-matcher/model"
)

// ResultJSON marshals the batch result as indented JSON.
func ResultJSON(result model.BatchResult) ([]byte, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteJSON writes the batch result to path as JSON.
func WriteJSON(path string, result model.BatchResult) error {
	data, err := ResultJSON(result)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

const (
	matchesSheet    = "Matches"
	statisticsSheet = "Statistics"
)

// ResultXLSX returns an XLSX workbook with one row per entity and a
// statistics summary sheet.
func ResultXLSX(result model.BatchResult) ([]byte, error) {
	f := excelize.NewFile()

	if err := writeMatchesSheet(f, result.MatchedEntities); err != nil {
		return nil, err
	}
	if err := writeStatisticsSheet(f, result.Statistics); err != nil {
		return nil, err
	}

	// Drop the default sheet and land on the matches.
	_ = f.DeleteSheet("Sheet1")
	if index, err := f.GetSheetIndex(matchesSheet); err == nil {
		f.SetActiveSheet(index)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteXLSX writes the batch report to path.
func WriteXLSX(path string, result model.BatchResult) error {
	data, err := ResultXLSX(result)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeMatchesSheet(f *excelize.File, entities []model.MatchedEntity) error {
	if _, err := f.NewSheet(matchesSheet); err != nil {
		return err
	}

	headers := []string{
		"Entity Name",
		"Entity Type",
		"Strategy",
		"Confidence",
		"Page",
		"X",
		"Y",
		"Width",
		"Height",
		"Components",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(matchesSheet, cell, h)
	}

	for row, entity := range entities {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row+2)
			_ = f.SetCellValue(matchesSheet, cell, v)
		}

		write(1, entity.EntityName)
		write(2, entity.EntityType)
		write(3, entity.MatchStrategy)
		write(4, entity.Confidence)
		if entity.Bounds != nil {
			write(5, entity.Bounds.Page)
			write(6, entity.Bounds.X)
			write(7, entity.Bounds.Y)
			write(8, entity.Bounds.Width)
			write(9, entity.Bounds.Height)
		}
		write(10, len(entity.ComponentMatches))
	}

	_ = f.SetColWidth(matchesSheet, "A", "A", 40)
	_ = f.SetColWidth(matchesSheet, "B", "C", 16)
	_ = f.SetColWidth(matchesSheet, "D", "I", 12)
	return nil
}

func writeStatisticsSheet(f *excelize.File, stats model.MatchStatistics) error {
	if _, err := f.NewSheet(statisticsSheet); err != nil {
		return err
	}

	write := func(row int, label string, v any) {
		labelCell, _ := excelize.CoordinatesToCellName(1, row)
		valueCell, _ := excelize.CoordinatesToCellName(2, row)
		_ = f.SetCellValue(statisticsSheet, labelCell, label)
		_ = f.SetCellValue(statisticsSheet, valueCell, v)
	}

	write(1, "Total Entities", stats.TotalEntities)
	write(2, "Matched", stats.Matched)
	write(3, "Partially Matched", stats.PartialMatched)
	write(4, "Unmatched", stats.Unmatched)

	names := make([]string, 0, len(stats.StrategiesUsed))
	for name := range stats.StrategiesUsed {
		names = append(names, name)
	}
	sort.Strings(names)

	row := 6
	for _, name := range names {
		write(row, fmt.Sprintf("Strategy: %s", name), stats.StrategiesUsed[name])
		row++
	}

	_ = f.SetColWidth(statisticsSheet, "A", "A", 24)
	return nil
}
