// Package ingest loads remote or local CSV datasets into dataframes with a
// declared schema per source. A fetch that fails is fatal to the owning
// pipeline run; the error always carries the identifier that failed.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Source identifies one dataset: a short name for messages and a location
// that is either an http(s) URL or a local file path.
type Source struct {
	Name     string
	Location string
}

// Fetcher retrieves raw tabular bytes for a source. The default fetcher
// supports http(s) URLs and local paths; tests substitute their own.
type Fetcher interface {
	Fetch(ctx context.Context, src Source) ([]byte, error)
}

type defaultFetcher struct {
	client *http.Client
}

// NewFetcher returns a Fetcher with the given HTTP timeout for remote
// sources. Local paths are read directly.
func NewFetcher(timeout time.Duration) Fetcher {
	return &defaultFetcher{client: &http.Client{Timeout: timeout}}
}

func (f *defaultFetcher) Fetch(ctx context.Context, src Source) ([]byte, error) {
	if strings.HasPrefix(src.Location, "http://") || strings.HasPrefix(src.Location, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.Location, nil)
		if err != nil {
			return nil, &SourceError{Source: src.Location, Err: err}
		}
		resp, err := f.client.Do(req)
		if err != nil {
			return nil, &SourceError{Source: src.Location, Err: err}
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &SourceError{
				Source: src.Location,
				Err:    fmt.Errorf("unexpected status %s", resp.Status),
			}
		}
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &SourceError{Source: src.Location, Err: err}
		}
		return b, nil
	}
	b, err := os.ReadFile(src.Location)
	if err != nil {
		return nil, &SourceError{Source: src.Location, Err: err}
	}
	return b, nil
}

// Load fetches a source and parses it into a DataFrame according to its
// schema. Types are declared, never inferred; unlisted columns load as
// strings. Missing declared columns produce a SchemaError.
func Load(ctx context.Context, f Fetcher, src Source, sch Schema) (dataframe.DataFrame, error) {
	raw, err := f.Fetch(ctx, src)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return Parse(raw, src, sch)
}

// Parse builds the typed DataFrame from raw CSV bytes.
func Parse(raw []byte, src Source, sch Schema) (dataframe.DataFrame, error) {
	df := dataframe.ReadCSV(bytes.NewReader(raw),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(sch.Columns),
		dataframe.NaNValues(naTokens),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, &SourceError{Source: src.Location, Err: df.Err}
	}

	have := make(map[string]bool, df.Ncol())
	for _, n := range df.Names() {
		have[n] = true
	}
	var missing []string
	for col := range sch.Columns {
		if !have[col] {
			missing = append(missing, col)
		}
	}
	sort.Strings(missing)
	if sch.MinDateCols > 0 && len(sch.DateColumns(df.Names())) < sch.MinDateCols {
		missing = append(missing, fmt.Sprintf("date columns (%s)", sch.DateLayout))
	}
	if len(missing) > 0 {
		return dataframe.DataFrame{}, &SchemaError{Source: src.Location, Missing: missing}
	}
	return df, nil
}
