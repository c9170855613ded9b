package sheetdata_test

import (
	"context"
	"testing"

	"sheet_data/internal/grid"
	"sheet_data/internal/sheetdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRecordsMapsHeaderToFields(t *testing.T) {
	records := sheetdata.ToRecords(sheetdata.RawTable{
		{"id", "run", "name"},
		{1, 0, "a"},
		{2, 1, "b"},
	})

	assert.Equal(t, []sheetdata.Record{
		{"id": 1, "run": 0, "name": "a"},
		{"id": 2, "run": 1, "name": "b"},
	}, records)
}

func TestToRecordsDropsBlankFirstColumnRows(t *testing.T) {
	records := sheetdata.ToRecords(sheetdata.RawTable{
		{"id", "name"},
		{1, "a"},
		{2, "b"},
		{"", ""},
	})

	require.Len(t, records, 2)
	assert.Equal(t, 2, records[1]["id"])
}

func TestToRecordsDropsInteriorBlankRows(t *testing.T) {
	records := sheetdata.ToRecords(sheetdata.RawTable{
		{"id", "name"},
		{1, "a"},
		{nil, "orphan"},
		{},
		{3, "c"},
	})

	require.Len(t, records, 2)
	assert.Equal(t, "c", records[1]["name"])
}

func TestToRecordsIncludeFilter(t *testing.T) {
	records := sheetdata.ToRecords(sheetdata.RawTable{
		{"id", "include"},
		{1, 1},
		{2, 0},
	})

	assert.Equal(t, []sheetdata.Record{{"id": 1, "include": 1}}, records)
}

func TestToRecordsIncludeNeedsNumericOne(t *testing.T) {
	records := sheetdata.ToRecords(sheetdata.RawTable{
		{"id", "include"},
		{1, 1.0},
		{2, int64(1)},
		{3, "1"},
		{4, true},
		{5, ""},
		{6},
		{7, 2},
	})

	var ids []any
	for _, r := range records {
		ids = append(ids, r["id"])
	}
	assert.Equal(t, []any{1, 2}, ids)
}

func TestToRecordsWithoutIncludeKeepsEverything(t *testing.T) {
	records := sheetdata.ToRecords(sheetdata.RawTable{
		{"id", "included"},
		{1, 0},
		{2, 0},
	})

	assert.Len(t, records, 2)
}

func TestToRecordsPreservesScalarTypes(t *testing.T) {
	records := sheetdata.ToRecords(sheetdata.RawTable{
		{"n", "s", "b", "f"},
		{42.0, "42", false, 0.5},
	})

	require.Len(t, records, 1)
	assert.IsType(t, float64(0), records[0]["n"])
	assert.IsType(t, "", records[0]["s"])
	assert.Equal(t, false, records[0]["b"])
	assert.Equal(t, 0.5, records[0]["f"])
}

func TestToRecordsShortRowsReadBlank(t *testing.T) {
	records := sheetdata.ToRecords(sheetdata.RawTable{
		{"id", "name", "note"},
		{1, "a"},
	})

	assert.Equal(t, []sheetdata.Record{{"id": 1, "name": "a", "note": ""}}, records)
}

// Malformed headers are not special-cased. These pin what the mapping does.
func TestToRecordsMalformedHeaders(t *testing.T) {
	t.Run("duplicate name keeps last column", func(t *testing.T) {
		records := sheetdata.ToRecords(sheetdata.RawTable{
			{"id", "name", "name"},
			{1, "first", "second"},
		})
		assert.Equal(t, []sheetdata.Record{{"id": 1, "name": "second"}}, records)
	})

	t.Run("blank header becomes empty key", func(t *testing.T) {
		records := sheetdata.ToRecords(sheetdata.RawTable{
			{"id", ""},
			{1, "x"},
		})
		assert.Equal(t, []sheetdata.Record{{"id": 1, "": "x"}}, records)
	})

	t.Run("numeric header is stringified", func(t *testing.T) {
		records := sheetdata.ToRecords(sheetdata.RawTable{
			{"id", 2024.0},
			{1, "x"},
		})
		assert.Equal(t, []sheetdata.Record{{"id": 1, "2024": "x"}}, records)
	})

	t.Run("duplicate include uses last column", func(t *testing.T) {
		records := sheetdata.ToRecords(sheetdata.RawTable{
			{"id", "include", "include"},
			{1, 1, 0},
			{2, 0, 1},
		})
		assert.Equal(t, []sheetdata.Record{{"id": 2, "include": 1}}, records)
	})
}

func TestToRecordsEmptyTables(t *testing.T) {
	assert.Empty(t, sheetdata.ToRecords(nil))
	assert.Empty(t, sheetdata.ToRecords(sheetdata.RawTable{{"id", "name"}}))
}

type target struct {
	TargetID   int64  `json:"target_id"`
	Run        int    `json:"run"`
	TargetName string `json:"target_name"`
	Clean      int    `json:"clean"`
}

func targetsGrid() *grid.Grid {
	return grid.New("Targets", [][]any{
		{"target_id", "run", "target_name", "target_last_row", "clean"},
		{985805479.0, 1.0, "orders", 11.0, 18.0},
		{1600250825.0, 0.0, "test", 4.0, 2.0},
	}, 1000)
}

func TestBuildRecordsIntoStruct(t *testing.T) {
	g := targetsGrid()

	targets, err := sheetdata.BuildRecords[target](context.Background(), g,
		sheetdata.RectRange{StartRow: 1, StartColumn: 1, EndRow: 3, EndColumn: 5})
	require.NoError(t, err)
	assert.Equal(t, []target{
		{TargetID: 985805479, Run: 1, TargetName: "orders", Clean: 18},
		{TargetID: 1600250825, Run: 0, TargetName: "test", Clean: 2},
	}, targets)
}

func TestBuildRecordsAsRecords(t *testing.T) {
	g := targetsGrid()

	records, err := sheetdata.BuildRecords[sheetdata.Record](context.Background(), g,
		sheetdata.RectRange{StartRow: 1, StartColumn: 3, EndRow: 5, EndColumn: 4})
	require.NoError(t, err)
	assert.Equal(t, []sheetdata.Record{
		{"target_name": "orders", "target_last_row": 11.0},
		{"target_name": "test", "target_last_row": 4.0},
	}, records)
}

func TestBuildRecordsDecodeError(t *testing.T) {
	g := grid.New("Bad", [][]any{
		{"target_id", "run"},
		{"not a number", 1.0},
	}, 10)

	_, err := sheetdata.BuildRecords[target](context.Background(), g,
		sheetdata.RectRange{StartRow: 1, StartColumn: 1, EndRow: 2, EndColumn: 2})
	assert.ErrorContains(t, err, "failed to decode record 0")
}

func TestBuildRecordsRejectsInvertedRange(t *testing.T) {
	_, err := sheetdata.BuildRecords[sheetdata.Record](context.Background(), targetsGrid(),
		sheetdata.RectRange{StartRow: 3, StartColumn: 1, EndRow: 2, EndColumn: 1})
	assert.ErrorIs(t, err, sheetdata.ErrInvalidPosition)
}
