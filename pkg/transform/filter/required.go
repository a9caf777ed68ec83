package filter

import (
	"context"
	"fmt"

	j "github.com/wdm0006/intakegate/pkg/janitor"
)

// Required drops every row that has a null in any of Columns. Other columns
// are not considered. Row order is preserved.
type Required struct {
	Columns []string
}

func (t *Required) Name() string { return "drop_incomplete_rows" }

func (t *Required) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	cols := make([]j.Column, len(t.Columns))
	for i, name := range t.Columns {
		col, ok := f.ColumnByName(name)
		if !ok {
			return f, fmt.Errorf("required column %s not in frame", name)
		}
		cols[i] = col
	}
	keep := make([]int, 0, f.Rows())
rows:
	for r := 0; r < f.Rows(); r++ {
		for _, c := range cols {
			if c.IsNull(r) {
				continue rows
			}
		}
		keep = append(keep, r)
	}
	if len(keep) == f.Rows() {
		return f, nil
	}
	return f.Take(keep), nil
}
