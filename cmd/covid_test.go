package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/statloom-cli/internal/report"
)

func TestPickPrefersFlagValues(t *testing.T) {
	assert.Equal(t, "flag", pick("flag", "config"))
	assert.Equal(t, "config", pick("", "config"))

	assert.Equal(t, 5, pickInt(5, 10))
	assert.Equal(t, 10, pickInt(0, 10))
}

func TestEmitWritesReportFile(t *testing.T) {
	r := &report.Report{
		Pipeline: "covid",
		RunID:    "run-1",
		Tables: []report.Table{
			{Title: "summary", Header: []string{"State"}, Rows: [][]string{{"a"}}},
		},
	}
	out := filepath.Join(t.TempDir(), "report.md")
	require.NoError(t, emit(r, out, ""))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), "[COVID PIPELINE]")
	assert.Contains(t, string(b), "[SUMMARY]")
}
