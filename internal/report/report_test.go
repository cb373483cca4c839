package report

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New([]string{"a", "b", "c", "d", "e"}, series.String, "State"),
		series.New([]float64{1, 2, 3, 4, 5}, series.Float, "Val"),
	)
}

func TestFromFrameTruncates(t *testing.T) {
	tbl := FromFrame("preview", sampleFrame(), 3)
	assert.Equal(t, []string{"State", "Val"}, tbl.Header)
	assert.Len(t, tbl.Rows, 3)
	assert.Equal(t, "showing 3 of 5 rows", tbl.Note)

	full := FromFrame("full", sampleFrame(), 0)
	assert.Len(t, full.Rows, 5)
	assert.Empty(t, full.Note)
}

func TestInvalidTableCarriesError(t *testing.T) {
	tbl := Invalid("regression: combined", errors.New("boom"))
	assert.Empty(t, tbl.Rows)
	assert.Contains(t, tbl.Note, "INVALID")
	assert.Contains(t, tbl.Note, "boom")
}

func TestMarkdownRendering(t *testing.T) {
	r := &Report{
		Pipeline:  "covid",
		RunID:     "run-1",
		Sources:   []string{"cases (mem)"},
		Generated: time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC),
		Tables: []Table{
			{
				Title:  "state summary",
				Header: []string{"State", "Val"},
				Rows:   [][]string{{"a|b", "1"}},
				Note:   "a note",
			},
			Invalid("regression: combined", errors.New("singular")),
		},
	}
	md := r.Markdown()

	assert.Contains(t, md, "[COVID PIPELINE]")
	assert.Contains(t, md, "Run: run-1")
	assert.Contains(t, md, "Source: cases (mem)")
	assert.Contains(t, md, "[STATE SUMMARY]")
	assert.Contains(t, md, "(a note)")
	// pipe characters inside cells cannot break the table
	assert.Contains(t, md, "| a/b | 1 |")
	assert.Contains(t, md, "[REGRESSION: COMBINED]")
	assert.Contains(t, md, "INVALID: singular")
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "top states", sheetName("top states"))
	assert.Equal(t, "regression combined", sheetName("regression: combined"))
	long := strings.Repeat("x", 40)
	assert.Len(t, sheetName(long), maxSheetName)
}

func TestWriteXLSX(t *testing.T) {
	r := &Report{
		Pipeline: "covid",
		RunID:    "run-1",
		Tables: []Table{
			{Title: "summary", Header: []string{"State", "Val"}, Rows: [][]string{{"a", "1"}}},
			{Title: "notes", Header: []string{"k"}, Rows: [][]string{{"v"}}, Note: "flagged"},
		},
	}
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, r.WriteXLSX(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"summary", "notes"}, f.GetSheetList())

	v, err := f.GetCellValue("summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "State", v)
	v, err = f.GetCellValue("summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	// the note occupies the first row of its sheet
	v, err = f.GetCellValue("notes", "A1")
	require.NoError(t, err)
	assert.Equal(t, "flagged", v)
}
