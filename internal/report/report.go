// Package report renders the derived tables of a pipeline run as a compact
// markdown document or an XLSX workbook. Presentation only: no aggregation
// or business logic happens here.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
)

// Table is one renderable derived table. A non-empty Note is printed with
// the table; invalid model output is flagged this way rather than omitted
// silently.
type Table struct {
	Title  string
	Header []string
	Rows   [][]string
	Note   string
}

// Report is the full output of one pipeline run.
type Report struct {
	Pipeline  string
	RunID     string
	Sources   []string
	Generated time.Time
	Tables    []Table
}

// FromFrame converts a dataframe into a Table, keeping at most maxRows rows
// (0 keeps everything). Truncation is noted so a reader never mistakes a
// preview for the whole table.
func FromFrame(title string, df dataframe.DataFrame, maxRows int) Table {
	records := df.Records()
	t := Table{Title: title, Header: records[0]}
	rows := records[1:]
	if maxRows > 0 && len(rows) > maxRows {
		t.Note = fmt.Sprintf("showing %d of %d rows", maxRows, len(rows))
		rows = rows[:maxRows]
	}
	t.Rows = rows
	return t
}

// Invalid builds a placeholder table for a failed stage so the failure is
// visible in the rendered output.
func Invalid(title string, err error) Table {
	return Table{Title: title, Note: fmt.Sprintf("INVALID: %v", err)}
}

// Markdown renders the report with bracketed section headers and pipe
// tables.
func (r *Report) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s PIPELINE]\n", strings.ToUpper(r.Pipeline))
	fmt.Fprintf(&b, "Run: %s\n", r.RunID)
	fmt.Fprintf(&b, "Generated: %s\n", r.Generated.Format(time.RFC3339))
	for _, s := range r.Sources {
		fmt.Fprintf(&b, "Source: %s\n", s)
	}

	for _, t := range r.Tables {
		fmt.Fprintf(&b, "\n[%s]\n", strings.ToUpper(t.Title))
		if t.Note != "" {
			fmt.Fprintf(&b, "(%s)\n", t.Note)
		}
		if len(t.Header) == 0 {
			continue
		}
		b.WriteString("| " + strings.Join(safeCells(t.Header), " | ") + " |\n")
		b.WriteString("|" + strings.Repeat(" --- |", len(t.Header)) + "\n")
		for _, row := range t.Rows {
			b.WriteString("| " + strings.Join(safeCells(row), " | ") + " |\n")
		}
	}
	return b.String()
}

func safeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		c = strings.ReplaceAll(c, "\n", " ")
		out[i] = strings.ReplaceAll(c, "|", "/")
	}
	return out
}
