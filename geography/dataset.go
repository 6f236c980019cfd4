package geography

import (
	"errors"
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ErrEmptyDataset is returned for input without a header row.
var ErrEmptyDataset = errors.New("empty dataset")

// Dataset is a read-only table of text fields. Missing fields are stored as
// NA elements of string series; gota also treats the literal text "NaN" as NA.
type Dataset struct {
	frame dataframe.DataFrame
}

// NewDataset builds a dataset from a header and rows of raw values. Every
// row must have exactly one value per column. Duplicate or blank column
// names are renamed the way pandas does ("name.1", "Unnamed: 3").
func NewDataset(columns []string, rows [][]RawValue) (*Dataset, error) {
	if len(columns) == 0 {
		return nil, ErrEmptyDataset
	}
	names := uniqueColumnNames(columns)
	cells := make([][]interface{}, len(names))
	for c := range cells {
		cells[c] = make([]interface{}, len(rows))
	}
	for r, row := range rows {
		if len(row) != len(names) {
			return nil, fmt.Errorf("row %d has %d fields, want %d", r+1, len(row), len(names))
		}
		for c, v := range row {
			if v.Valid {
				cells[c][r] = v.Text
			}
		}
	}
	cols := make([]series.Series, len(names))
	for c, name := range names {
		cols[c] = series.New(cells[c], series.String, name)
	}
	frame := dataframe.New(cols...)
	if frame.Err != nil {
		return nil, fmt.Errorf("build dataset: %w", frame.Err)
	}
	return &Dataset{frame: frame}, nil
}

// Columns returns the column names in declared order.
func (d *Dataset) Columns() []string {
	return d.frame.Names()
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return d.frame.Nrow()
}

// Values returns every field of the named column.
func (d *Dataset) Values(column string) ([]RawValue, error) {
	s := d.frame.Col(column)
	if s.Err != nil {
		return nil, fmt.Errorf("column %q: %w", column, s.Err)
	}
	out := make([]RawValue, s.Len())
	for i := range out {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		out[i] = Text(e.String())
	}
	return out, nil
}

// Frame returns a copy of the underlying data frame.
func (d *Dataset) Frame() dataframe.DataFrame {
	return d.frame.Copy()
}

func uniqueColumnNames(columns []string) []string {
	out := make([]string, len(columns))
	used := make(map[string]bool, len(columns))
	for i, name := range columns {
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		candidate := name
		for n := 1; used[candidate]; n++ {
			candidate = fmt.Sprintf("%s.%d", name, n)
		}
		used[candidate] = true
		out[i] = candidate
	}
	return out
}
