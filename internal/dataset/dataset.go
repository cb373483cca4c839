// Package dataset provides the reshaping and aggregation primitives shared by
// the analysis pipelines: wide-to-long melt, grouped reductions, and stable
// top/bottom-N ranking over gota dataframes.
package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// keySep joins multi-column group keys. Unit separator keeps composite keys
// unambiguous for any printable column content.
const keySep = "\x1f"

// Melt reshapes a wide table into long form: one output row per
// (id columns, value column, cell). Every non-id column is treated as a value
// column. Cells that do not parse as numbers become NaN; the multiset of
// (ids, column, cell) pairs is otherwise preserved exactly.
func Melt(df dataframe.DataFrame, idCols []string, varName, valName string) (dataframe.DataFrame, error) {
	names := df.Names()
	idx := make(map[string]int, len(names))
	for i, n := range names {
		idx[n] = i
	}
	idIdx := make([]int, len(idCols))
	for i, c := range idCols {
		j, ok := idx[c]
		if !ok {
			return dataframe.DataFrame{}, fmt.Errorf("melt: no such id column %q", c)
		}
		idIdx[i] = j
	}
	isID := make(map[int]bool, len(idIdx))
	for _, j := range idIdx {
		isID[j] = true
	}

	records := df.Records()[1:] // drop header
	nval := len(names) - len(idCols)
	ids := make([][]string, len(idCols))
	for i := range ids {
		ids[i] = make([]string, 0, len(records)*nval)
	}
	vars := make([]string, 0, len(records)*nval)
	vals := make([]float64, 0, len(records)*nval)

	for _, rec := range records {
		for j, name := range names {
			if isID[j] {
				continue
			}
			for i, k := range idIdx {
				ids[i] = append(ids[i], rec[k])
			}
			vars = append(vars, name)
			vals = append(vals, parseCell(rec[j]))
		}
	}

	ss := make([]series.Series, 0, len(idCols)+2)
	for i, c := range idCols {
		ss = append(ss, series.New(ids[i], series.String, c))
	}
	ss = append(ss, series.New(vars, series.String, varName))
	ss = append(ss, series.New(vals, series.Float, valName))
	out := dataframe.New(ss...)
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("melt: %w", out.Err)
	}
	return out, nil
}

func parseCell(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "NA" || s == "NaN" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// GroupSum groups by the key columns and sums each value column. Duplicate
// keys are always summed, never overwritten or dropped. NaN cells are
// excluded; a group with no observed values at all sums to NaN, not zero.
// Groups appear in first-appearance order, which keeps downstream stable
// ranking meaningful.
//
// gota's own GroupBy iterates a map and emits groups in nondeterministic
// order, so the grouping here is done directly over the records.
func GroupSum(df dataframe.DataFrame, keys []string, valCols ...string) (dataframe.DataFrame, error) {
	return groupReduce(df, keys, valCols, false)
}

// GroupMean groups by the key columns and averages each value column.
// NaN cells are excluded from both numerator and denominator.
func GroupMean(df dataframe.DataFrame, keys []string, valCols ...string) (dataframe.DataFrame, error) {
	return groupReduce(df, keys, valCols, true)
}

// GroupCount groups by the key columns and counts rows per group into a
// column named countName.
func GroupCount(df dataframe.DataFrame, keys []string, countName string) (dataframe.DataFrame, error) {
	names := df.Names()
	keyIdx, err := columnIndexes(names, keys)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("group count: %w", err)
	}
	records := df.Records()[1:]

	order := []string{}
	keyRows := map[string][]string{}
	counts := map[string]int{}
	for _, rec := range records {
		k := compositeKey(rec, keyIdx)
		if _, seen := counts[k]; !seen {
			order = append(order, k)
			kr := make([]string, len(keyIdx))
			for i, j := range keyIdx {
				kr[i] = rec[j]
			}
			keyRows[k] = kr
		}
		counts[k]++
	}
	return assembleGrouped(keys, order, keyRows, map[string][]float64{}, nil, countName, counts)
}

func groupReduce(df dataframe.DataFrame, keys, valCols []string, mean bool) (dataframe.DataFrame, error) {
	names := df.Names()
	keyIdx, err := columnIndexes(names, keys)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("group reduce: %w", err)
	}
	valIdx, err := columnIndexes(names, valCols)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("group reduce: %w", err)
	}
	records := df.Records()[1:]

	order := []string{}
	keyRows := map[string][]string{}
	sums := map[string][]float64{}
	ns := map[string][]int{}
	for _, rec := range records {
		k := compositeKey(rec, keyIdx)
		if _, seen := sums[k]; !seen {
			order = append(order, k)
			kr := make([]string, len(keyIdx))
			for i, j := range keyIdx {
				kr[i] = rec[j]
			}
			keyRows[k] = kr
			sums[k] = make([]float64, len(valIdx))
			ns[k] = make([]int, len(valIdx))
		}
		for i, j := range valIdx {
			x := parseCell(rec[j])
			if math.IsNaN(x) {
				continue
			}
			ns[k][i]++
			sums[k][i] += x
		}
	}
	for k := range sums {
		for i := range sums[k] {
			if ns[k][i] == 0 {
				// no observed values: "missing", not zero
				sums[k][i] = math.NaN()
				continue
			}
			if mean {
				sums[k][i] /= float64(ns[k][i])
			}
		}
	}
	return assembleGrouped(keys, order, keyRows, sums, valCols, "", nil)
}

func assembleGrouped(keys, order []string, keyRows map[string][]string,
	vals map[string][]float64, valCols []string,
	countName string, counts map[string]int) (dataframe.DataFrame, error) {

	ss := make([]series.Series, 0, len(keys)+len(valCols)+1)
	for i, kc := range keys {
		col := make([]string, len(order))
		for r, k := range order {
			col[r] = keyRows[k][i]
		}
		ss = append(ss, series.New(col, series.String, kc))
	}
	for i, vc := range valCols {
		col := make([]float64, len(order))
		for r, k := range order {
			col[r] = vals[k][i]
		}
		ss = append(ss, series.New(col, series.Float, vc))
	}
	if countName != "" {
		col := make([]int, len(order))
		for r, k := range order {
			col[r] = counts[k]
		}
		ss = append(ss, series.New(col, series.Int, countName))
	}
	out := dataframe.New(ss...)
	if out.Err != nil {
		return dataframe.DataFrame{}, out.Err
	}
	return out, nil
}

func columnIndexes(names, want []string) ([]int, error) {
	idx := make(map[string]int, len(names))
	for i, n := range names {
		idx[n] = i
	}
	out := make([]int, len(want))
	for i, c := range want {
		j, ok := idx[c]
		if !ok {
			return nil, fmt.Errorf("no such column %q", c)
		}
		out[i] = j
	}
	return out, nil
}

func compositeKey(rec []string, keyIdx []int) string {
	parts := make([]string, len(keyIdx))
	for i, j := range keyIdx {
		parts[i] = rec[j]
	}
	return strings.Join(parts, keySep)
}

// TopN returns the n rows with the largest values in col. Rows whose value is
// NaN are excluded. The sort is stable: ties keep their original row order.
func TopN(df dataframe.DataFrame, col string, n int) (dataframe.DataFrame, error) {
	return rankN(df, col, n, true)
}

// BottomN returns the n rows with the smallest values in col, with the same
// NaN and stability rules as TopN.
func BottomN(df dataframe.DataFrame, col string, n int) (dataframe.DataFrame, error) {
	return rankN(df, col, n, false)
}

func rankN(df dataframe.DataFrame, col string, n int, desc bool) (dataframe.DataFrame, error) {
	s := df.Col(col)
	if s.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("rank by %q: %w", col, s.Err)
	}
	vals := s.Float()
	idx := make([]int, 0, len(vals))
	for i, v := range vals {
		if !math.IsNaN(v) {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if desc {
			return vals[idx[a]] > vals[idx[b]]
		}
		return vals[idx[a]] < vals[idx[b]]
	})
	if n > len(idx) {
		n = len(idx)
	}
	out := df.Subset(idx[:n])
	if out.Err != nil {
		return dataframe.DataFrame{}, out.Err
	}
	return out, nil
}

// EndOfMonth returns the last day of t's calendar month.
func EndOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 1, -1)
}

// Round rounds x to the given number of decimal places.
func Round(x float64, places int) float64 {
	if math.IsNaN(x) {
		return x
	}
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
