// Package profile summarises the columns of a Frame: value and null counts,
// numeric ranges and the most frequent strings.
package profile

import (
	"fmt"
	"math"
	"sort"
	"strings"

	j "github.com/wdm0006/intakegate/pkg/janitor"
)

type NumStats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

type BoolStats struct {
	True  int `json:"true"`
	False int `json:"false"`
}

type Freq struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type Column struct {
	Name  string     `json:"name"`
	Kind  string     `json:"kind"`
	Count int        `json:"count"`
	Nulls int        `json:"nulls"`
	Num   *NumStats  `json:"num,omitempty"`
	Bool  *BoolStats `json:"bool,omitempty"`
	Top   []Freq     `json:"top,omitempty"`
}

type Report struct {
	Rows    int      `json:"rows"`
	Columns []Column `json:"columns"`
}

// Of profiles every column of f. String columns list their topK most
// frequent values, most frequent first and ties by value.
func Of(f *j.Frame, topK int) *Report {
	rep := &Report{Rows: f.Rows(), Columns: make([]Column, 0, f.Cols())}
	for _, col := range f.Columns() {
		cp := Column{Name: col.Name(), Kind: col.Kind().String(), Nulls: j.NullCount(col)}
		cp.Count = col.Len() - cp.Nulls
		switch c := col.(type) {
		case *j.FloatColumn:
			cp.Num = numStats(c.Len(), c.Get)
		case *j.IntColumn:
			cp.Num = numStats(c.Len(), func(i int) (float64, bool) {
				v, ok := c.Get(i)
				return float64(v), ok
			})
		case *j.BoolColumn:
			bs := &BoolStats{}
			for i := 0; i < c.Len(); i++ {
				if v, ok := c.Get(i); ok {
					if v {
						bs.True++
					} else {
						bs.False++
					}
				}
			}
			cp.Bool = bs
		case *j.StringColumn:
			cp.Top = top(c, topK)
		}
		rep.Columns = append(rep.Columns, cp)
	}
	return rep
}

func numStats(n int, get func(int) (float64, bool)) *NumStats {
	ns := &NumStats{Min: math.Inf(1), Max: math.Inf(-1)}
	count, sum := 0, 0.0
	for i := 0; i < n; i++ {
		v, ok := get(i)
		if !ok {
			continue
		}
		count++
		sum += v
		ns.Min = math.Min(ns.Min, v)
		ns.Max = math.Max(ns.Max, v)
	}
	if count == 0 {
		return nil
	}
	ns.Mean = sum / float64(count)
	return ns
}

func top(c *j.StringColumn, k int) []Freq {
	if k <= 0 {
		return nil
	}
	freqs := map[string]int{}
	for i := 0; i < c.Len(); i++ {
		if v, ok := c.Get(i); ok {
			freqs[v]++
		}
	}
	out := make([]Freq, 0, len(freqs))
	for v, n := range freqs {
		out = append(out, Freq{Value: v, Count: n})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return out[a].Value < out[b].Value
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}

// Text renders the report for terminals.
func (r *Report) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Profile Summary (%d rows)\n", r.Rows)
	for _, cp := range r.Columns {
		fmt.Fprintf(&b, "- %s (%s): count=%d nulls=%d", cp.Name, cp.Kind, cp.Count, cp.Nulls)
		switch {
		case cp.Num != nil:
			fmt.Fprintf(&b, " min=%.6g max=%.6g mean=%.6g", cp.Num.Min, cp.Num.Max, cp.Num.Mean)
		case cp.Bool != nil:
			fmt.Fprintf(&b, " true=%d false=%d", cp.Bool.True, cp.Bool.False)
		}
		b.WriteString("\n")
		for _, fr := range cp.Top {
			fmt.Fprintf(&b, "  * %q: %d\n", fr.Value, fr.Count)
		}
	}
	return b.String()
}
