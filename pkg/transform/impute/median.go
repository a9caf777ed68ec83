package impute

import (
	"context"
	"fmt"
	"math"
	"sort"

	j "github.com/wdm0006/intakegate/pkg/janitor"
)

// Median fills nulls with the median of the column's non-null values. An int
// column whose median is not a whole number is promoted to float.
type Median struct{ Column string }

func (t *Median) Name() string { return "impute_median" }

func (t *Median) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok || j.NullCount(col) == 0 {
		return f, nil
	}
	switch c := col.(type) {
	case *j.FloatColumn:
		vals := make([]float64, 0, c.Len())
		for i := 0; i < c.Len(); i++ {
			if v, ok := c.Get(i); ok {
				vals = append(vals, v)
			}
		}
		med, err := t.median(vals)
		if err != nil {
			return f, err
		}
		fillFloat(c, med)
	case *j.IntColumn:
		vals := make([]float64, 0, c.Len())
		for i := 0; i < c.Len(); i++ {
			if v, ok := c.Get(i); ok {
				vals = append(vals, float64(v))
			}
		}
		med, err := t.median(vals)
		if err != nil {
			return f, err
		}
		if med == math.Trunc(med) {
			for i := 0; i < c.Len(); i++ {
				if c.IsNull(i) {
					c.Set(i, int64(med))
				}
			}
			return f, nil
		}
		fc := c.ToFloat()
		fillFloat(fc, med)
		if err := f.ReplaceColumn(fc); err != nil {
			return f, err
		}
	default:
		return f, &Error{Column: t.Column, Strategy: "median", Err: fmt.Errorf("column has kind %s, want numeric", col.Kind())}
	}
	return f, nil
}

func (t *Median) median(vals []float64) (float64, error) {
	if len(vals) == 0 {
		return 0, &Error{Column: t.Column, Strategy: "median", Err: ErrNoObservations}
	}
	sort.Float64s(vals)
	mid := len(vals) / 2
	if len(vals)%2 == 0 {
		return (vals[mid-1] + vals[mid]) / 2, nil
	}
	return vals[mid], nil
}

func fillFloat(c *j.FloatColumn, v float64) {
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			c.Set(i, v)
		}
	}
}
