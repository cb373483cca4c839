package ingest

import (
	"time"

	"github.com/go-gota/gota/series"
)

// Schema declares the columns a source must provide and their types.
// Columns not listed are loaded as strings; date-series columns (one column
// per calendar date in the wide time-series files) are recognized by name via
// DateLayout rather than enumerated.
type Schema struct {
	// Required columns and their declared types.
	Columns map[string]series.Type
	// DateLayout, if non-empty, marks every column whose name parses with
	// this layout as a date column of the wide format.
	DateLayout string
	// MinDateCols is the minimum number of date columns a wide source must
	// carry; 0 disables the check.
	MinDateCols int
}

// Tokens treated as missing values across all sources.
var naTokens = []string{"", "NA", "N/A", "null", "(null)"}

// CasesWide describes the wide-format confirmed-cases time series: region
// identifiers followed by one column per date in M/D/YY form.
func CasesWide() Schema {
	return Schema{
		Columns: map[string]series.Type{
			"Province_State": series.String,
			"Country_Region": series.String,
		},
		DateLayout:  "1/2/06",
		MinDateCols: 1,
	}
}

// DeathsWide describes the wide-format deaths time series. It carries
// county-level identifier columns the cases file lacks.
func DeathsWide() Schema {
	return Schema{
		Columns: map[string]series.Type{
			"Admin2":         series.String,
			"Province_State": series.String,
			"Country_Region": series.String,
			"Population":     series.Float,
		},
		DateLayout:  "1/2/06",
		MinDateCols: 1,
	}
}

// PopulationLookup describes the region-to-population lookup table.
func PopulationLookup() Schema {
	return Schema{
		Columns: map[string]series.Type{
			"Admin2":         series.String,
			"Province_State": series.String,
			"Country_Region": series.String,
			"Population":     series.Float,
		},
	}
}

// Incidents describes the flat shooting-incident file.
func Incidents() Schema {
	return Schema{
		Columns: map[string]series.Type{
			"INCIDENT_KEY":            series.String,
			"OCCUR_DATE":              series.String,
			"OCCUR_TIME":              series.String,
			"BORO":                    series.String,
			"PRECINCT":                series.String,
			"LOC_OF_OCCUR_DESC":       series.String,
			"PERP_RACE":               series.String,
			"STATISTICAL_MURDER_FLAG": series.String,
		},
	}
}

// DateColumns returns the column names matching the schema's date layout, in
// their original order.
func (s Schema) DateColumns(names []string) []string {
	if s.DateLayout == "" {
		return nil
	}
	var out []string
	for _, n := range names {
		if _, err := time.Parse(s.DateLayout, n); err == nil {
			out = append(out, n)
		}
	}
	return out
}
