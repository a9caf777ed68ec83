package impute

import (
	"cmp"
	"context"

	j "github.com/wdm0006/intakegate/pkg/janitor"
)

// Mode fills nulls with the most frequent non-null value. Ties go to the
// smallest value: numeric order for numbers, byte order for strings, false
// before true.
type Mode struct{ Column string }

func (t *Mode) Name() string { return "impute_mode" }

func (t *Mode) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok || j.NullCount(col) == 0 {
		return f, nil
	}
	var found bool
	switch c := col.(type) {
	case *j.StringColumn:
		var best string
		if best, found = mostFrequent(c.Len(), c.Get); found {
			fill(c.Len(), c.IsNull, func(i int) { c.Set(i, best) })
		}
	case *j.IntColumn:
		var best int64
		if best, found = mostFrequent(c.Len(), c.Get); found {
			fill(c.Len(), c.IsNull, func(i int) { c.Set(i, best) })
		}
	case *j.FloatColumn:
		var best float64
		if best, found = mostFrequent(c.Len(), c.Get); found {
			fill(c.Len(), c.IsNull, func(i int) { c.Set(i, best) })
		}
	case *j.BoolColumn:
		var n int
		var trues int
		for i := 0; i < c.Len(); i++ {
			if v, ok := c.Get(i); ok {
				n++
				if v {
					trues++
				}
			}
		}
		if found = n > 0; found {
			best := trues > n-trues
			fill(c.Len(), c.IsNull, func(i int) { c.Set(i, best) })
		}
	}
	if !found {
		return f, &Error{Column: t.Column, Strategy: "mode", Err: ErrNoObservations}
	}
	return f, nil
}

func mostFrequent[T cmp.Ordered](n int, get func(int) (T, bool)) (T, bool) {
	counts := map[T]int{}
	var best T
	var bestc int
	for i := 0; i < n; i++ {
		v, ok := get(i)
		if !ok {
			continue
		}
		counts[v]++
		c := counts[v]
		if c > bestc || (c == bestc && v < best) {
			bestc = c
			best = v
		}
	}
	return best, bestc > 0
}

func fill(n int, isNull func(int) bool, set func(int)) {
	for i := 0; i < n; i++ {
		if isNull(i) {
			set(i)
		}
	}
}
