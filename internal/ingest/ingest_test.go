package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCasesWide(t *testing.T) {
	csv := "Province_State,Country_Region,1/31/21,2/28/21\nAlpha,US,5,10\n"
	df, err := Parse([]byte(csv), Source{Name: "cases", Location: "mem"}, CasesWide())
	require.NoError(t, err)
	assert.Equal(t, 1, df.Nrow())
	assert.Equal(t, []string{"1/31/21", "2/28/21"}, CasesWide().DateColumns(df.Names()))
}

func TestParseMissingColumns(t *testing.T) {
	csv := "Province_State,1/31/21\nAlpha,5\n"
	_, err := Parse([]byte(csv), Source{Name: "cases", Location: "mem"}, CasesWide())
	require.Error(t, err)

	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, []string{"Country_Region"}, se.Missing)
	assert.Contains(t, se.Error(), "mem")
}

func TestParseMissingDateColumns(t *testing.T) {
	csv := "Province_State,Country_Region\nAlpha,US\n"
	_, err := Parse([]byte(csv), Source{Name: "cases", Location: "mem"}, CasesWide())
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, se.Missing[len(se.Missing)-1], "date columns")
}

func TestFetcherLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644))

	f := NewFetcher(time.Second)
	b, err := f.Fetch(context.Background(), Source{Name: "local", Location: path})
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(b))
}

func TestFetcherMissingFile(t *testing.T) {
	f := NewFetcher(time.Second)
	_, err := f.Fetch(context.Background(), Source{Name: "local", Location: "/no/such/file.csv"})
	var se *SourceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "/no/such/file.csv", se.Source)
	assert.NotNil(t, errors.Unwrap(se))
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pop.csv")
	csv := "UID,Admin2,Province_State,Country_Region,Population\n1,,Alpha,US,150\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	df, err := Load(context.Background(), NewFetcher(time.Second), Source{Name: "pop", Location: path}, PopulationLookup())
	require.NoError(t, err)
	assert.Equal(t, 1, df.Nrow())
	// blank county identifier is a missing value, not an empty string
	assert.True(t, df.Col("Admin2").Elem(0).IsNA())
}
