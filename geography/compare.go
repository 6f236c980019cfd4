package geography

import (
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ComparisonRow holds both candidates' counts for one location key.
type ComparisonRow struct {
	Location string `json:"location"`
	CountA   int    `json:"countA"`
	CountB   int    `json:"countB"`
	Diff     int    `json:"diff"`
	Total    int    `json:"total"`
}

// Table is the joined view of two distributions.
type Table struct {
	LabelA string
	LabelB string
	Rows   []ComparisonRow
}

// Compare joins two distributions on the union of their keys. Keys missing
// from one side count as zero. Rows come out in ascending key order.
func Compare(a, b Distribution) Table {
	return CompareWithLabels(defaultLabelA, defaultLabelB, a, b)
}

// CompareWithLabels is Compare with the column labels used when the table is
// rendered.
func CompareWithLabels(labelA, labelB string, a, b Distribution) Table {
	keys := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		keys[k] = struct{}{}
	}
	for k := range b {
		keys[k] = struct{}{}
	}
	rows := make([]ComparisonRow, 0, len(keys))
	for k := range keys {
		ca, cb := a[k], b[k]
		rows = append(rows, ComparisonRow{
			Location: k,
			CountA:   ca,
			CountB:   cb,
			Diff:     ca - cb,
			Total:    ca + cb,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Location < rows[j].Location
	})
	return Table{LabelA: labelA, LabelB: labelB, Rows: rows}
}

// Sorted returns a copy of the table ordered for presentation. Total and
// diff sort descending; ties fall back to the location key.
func (t Table) Sorted(by SortKey) Table {
	rows := make([]ComparisonRow, len(t.Rows))
	copy(rows, t.Rows)
	var less func(a, b ComparisonRow) bool
	switch by {
	case SortTotal:
		less = func(a, b ComparisonRow) bool { return a.Total > b.Total }
	case SortDiff:
		less = func(a, b ComparisonRow) bool { return a.Diff > b.Diff }
	default:
		less = func(ComparisonRow, ComparisonRow) bool { return false }
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if less(rows[i], rows[j]) {
			return true
		}
		if less(rows[j], rows[i]) {
			return false
		}
		return rows[i].Location < rows[j].Location
	})
	return Table{LabelA: t.LabelA, LabelB: t.LabelB, Rows: rows}
}

// Header returns the rendered column names.
func (t Table) Header() []string {
	return []string{"location", t.labelA(), t.labelB(), "diff", "total"}
}

// DataFrame converts the table to a gota data frame with the Header columns.
func (t Table) DataFrame() dataframe.DataFrame {
	n := len(t.Rows)
	locations := make([]string, n)
	countA := make([]int, n)
	countB := make([]int, n)
	diff := make([]int, n)
	total := make([]int, n)
	for i, row := range t.Rows {
		locations[i] = row.Location
		countA[i] = row.CountA
		countB[i] = row.CountB
		diff[i] = row.Diff
		total[i] = row.Total
	}
	header := t.Header()
	return dataframe.New(
		series.New(locations, series.String, header[0]),
		series.New(countA, series.Int, header[1]),
		series.New(countB, series.Int, header[2]),
		series.New(diff, series.Int, header[3]),
		series.New(total, series.Int, header[4]),
	)
}

func (t Table) labelA() string {
	if t.LabelA == "" {
		return defaultLabelA
	}
	return t.LabelA
}

func (t Table) labelB() string {
	if t.LabelB == "" {
		return defaultLabelB
	}
	return t.LabelB
}
