package janitor

import (
	"fmt"
	"math"
)

// Schema describes the logical shape of a dataset.
type Schema struct {
	Columns []ColumnSchema
}

type ColumnSchema struct {
	Name     string
	Type     Kind
	Nullable bool
}

// Names returns the column names in order.
func (s Schema) Names() []string {
	out := make([]string, len(s.Columns))
	for i, cs := range s.Columns {
		out[i] = cs.Name
	}
	return out
}

// Kind enumerates supported logical types. Every column carries its kind from
// load time onwards; transforms never re-derive it from cell contents.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// Numeric reports whether values of this kind are numbers.
func (k Kind) Numeric() bool { return k == KindInt || k == KindFloat }

// Column is a typed, nullable column abstraction.
type Column interface {
	Name() string
	Kind() Kind
	Len() int
	IsNull(i int) bool
	SetNull(i int)
	// Take returns a new column holding the rows at idx, in that order.
	Take(idx []int) Column
}

// NullCount returns the number of null cells in c.
func NullCount(c Column) int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			n++
		}
	}
	return n
}

type BoolColumn struct {
	name  string
	data  []bool
	nulls []bool
}

func NewBoolColumn(name string, n int) *BoolColumn {
	return &BoolColumn{name: name, data: make([]bool, n), nulls: make([]bool, n)}
}
func (c *BoolColumn) Name() string           { return c.name }
func (c *BoolColumn) Kind() Kind             { return KindBool }
func (c *BoolColumn) Len() int               { return len(c.data) }
func (c *BoolColumn) IsNull(i int) bool      { return c.nulls[i] }
func (c *BoolColumn) SetNull(i int)          { c.nulls[i] = true }
func (c *BoolColumn) Get(i int) (bool, bool) { return c.data[i], !c.nulls[i] }
func (c *BoolColumn) Set(i int, v bool)      { c.data[i] = v; c.nulls[i] = false }
func (c *BoolColumn) AppendNull()            { c.data = append(c.data, false); c.nulls = append(c.nulls, true) }
func (c *BoolColumn) Append(v bool)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *BoolColumn) Take(idx []int) Column {
	out := &BoolColumn{name: c.name, data: make([]bool, len(idx)), nulls: make([]bool, len(idx))}
	for i, r := range idx {
		out.data[i], out.nulls[i] = c.data[r], c.nulls[r]
	}
	return out
}

type IntColumn struct {
	name  string
	data  []int64
	nulls []bool
}

func NewIntColumn(name string, n int) *IntColumn {
	return &IntColumn{name: name, data: make([]int64, n), nulls: make([]bool, n)}
}
func (c *IntColumn) Name() string            { return c.name }
func (c *IntColumn) Kind() Kind              { return KindInt }
func (c *IntColumn) Len() int                { return len(c.data) }
func (c *IntColumn) IsNull(i int) bool       { return c.nulls[i] }
func (c *IntColumn) SetNull(i int)           { c.nulls[i] = true }
func (c *IntColumn) Get(i int) (int64, bool) { return c.data[i], !c.nulls[i] }
func (c *IntColumn) Set(i int, v int64)      { c.data[i] = v; c.nulls[i] = false }
func (c *IntColumn) AppendNull()             { c.data = append(c.data, 0); c.nulls = append(c.nulls, true) }
func (c *IntColumn) Append(v int64)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *IntColumn) Take(idx []int) Column {
	out := &IntColumn{name: c.name, data: make([]int64, len(idx)), nulls: make([]bool, len(idx))}
	for i, r := range idx {
		out.data[i], out.nulls[i] = c.data[r], c.nulls[r]
	}
	return out
}

// ToFloat returns a float copy of the column.
func (c *IntColumn) ToFloat() *FloatColumn {
	out := NewFloatColumn(c.name, c.Len())
	for i, v := range c.data {
		if c.nulls[i] {
			out.SetNull(i)
			continue
		}
		out.Set(i, float64(v))
	}
	return out
}

type FloatColumn struct {
	name  string
	data  []float64
	nulls []bool
}

func NewFloatColumn(name string, n int) *FloatColumn {
	return &FloatColumn{name: name, data: make([]float64, n), nulls: make([]bool, n)}
}
func (c *FloatColumn) Name() string              { return c.name }
func (c *FloatColumn) Kind() Kind                { return KindFloat }
func (c *FloatColumn) Len() int                  { return len(c.data) }
func (c *FloatColumn) IsNull(i int) bool         { return c.nulls[i] }
func (c *FloatColumn) SetNull(i int)             { c.nulls[i] = true }
func (c *FloatColumn) Get(i int) (float64, bool) { return c.data[i], !c.nulls[i] }
func (c *FloatColumn) Set(i int, v float64)      { c.data[i] = v; c.nulls[i] = false }
func (c *FloatColumn) AppendNull()               { c.data = append(c.data, 0); c.nulls = append(c.nulls, true) }
func (c *FloatColumn) Append(v float64)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *FloatColumn) Take(idx []int) Column {
	out := &FloatColumn{name: c.name, data: make([]float64, len(idx)), nulls: make([]bool, len(idx))}
	for i, r := range idx {
		out.data[i], out.nulls[i] = c.data[r], c.nulls[r]
	}
	return out
}

// ToInt returns an int copy of the column and true when every non-null value
// is integral and fits in an int64.
func (c *FloatColumn) ToInt() (*IntColumn, bool) {
	out := NewIntColumn(c.name, c.Len())
	for i, v := range c.data {
		if c.nulls[i] {
			out.SetNull(i)
			continue
		}
		if v != math.Trunc(v) || math.IsInf(v, 0) || v < math.MinInt64 || v >= math.MaxInt64 {
			return nil, false
		}
		out.Set(i, int64(v))
	}
	return out, true
}

type StringColumn struct {
	name  string
	data  []string
	nulls []bool
}

func NewStringColumn(name string, n int) *StringColumn {
	return &StringColumn{name: name, data: make([]string, n), nulls: make([]bool, n)}
}
func (c *StringColumn) Name() string             { return c.name }
func (c *StringColumn) Kind() Kind               { return KindString }
func (c *StringColumn) Len() int                 { return len(c.data) }
func (c *StringColumn) IsNull(i int) bool        { return c.nulls[i] }
func (c *StringColumn) SetNull(i int)            { c.nulls[i] = true }
func (c *StringColumn) Get(i int) (string, bool) { return c.data[i], !c.nulls[i] }
func (c *StringColumn) Set(i int, v string)      { c.data[i] = v; c.nulls[i] = false }
func (c *StringColumn) AppendNull()              { c.data = append(c.data, ""); c.nulls = append(c.nulls, true) }
func (c *StringColumn) Append(v string)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *StringColumn) Take(idx []int) Column {
	out := &StringColumn{name: c.name, data: make([]string, len(idx)), nulls: make([]bool, len(idx))}
	for i, r := range idx {
		out.data[i], out.nulls[i] = c.data[r], c.nulls[r]
	}
	return out
}

// Frame is a columnar container for tabular data.
type Frame struct {
	schema Schema
	cols   []Column
	index  map[string]int // name -> col index
	nrows  int
}

func NewFrame(s Schema) *Frame {
	f := &Frame{schema: s, cols: make([]Column, len(s.Columns)), index: make(map[string]int)}
	for i, cs := range s.Columns {
		switch cs.Type {
		case KindBool:
			f.cols[i] = NewBoolColumn(cs.Name, 0)
		case KindInt:
			f.cols[i] = NewIntColumn(cs.Name, 0)
		case KindFloat:
			f.cols[i] = NewFloatColumn(cs.Name, 0)
		case KindString:
			f.cols[i] = NewStringColumn(cs.Name, 0)
		default:
			panic("invalid column kind")
		}
		f.index[cs.Name] = i
	}
	return f
}

// FromColumns builds a frame over existing columns. All columns must have the
// same length and distinct names.
func FromColumns(cols ...Column) (*Frame, error) {
	f := &Frame{cols: make([]Column, len(cols)), index: make(map[string]int, len(cols))}
	f.schema.Columns = make([]ColumnSchema, len(cols))
	for i, c := range cols {
		if _, dup := f.index[c.Name()]; dup {
			return nil, fmt.Errorf("duplicate column: %s", c.Name())
		}
		if i > 0 && c.Len() != f.nrows {
			return nil, fmt.Errorf("column %s has %d rows, expected %d", c.Name(), c.Len(), f.nrows)
		}
		f.nrows = c.Len()
		f.cols[i] = c
		f.index[c.Name()] = i
		f.schema.Columns[i] = ColumnSchema{Name: c.Name(), Type: c.Kind(), Nullable: true}
	}
	return f, nil
}

func (f *Frame) Schema() Schema    { return f.schema }
func (f *Frame) Rows() int         { return f.nrows }
func (f *Frame) Cols() int         { return len(f.cols) }
func (f *Frame) Columns() []Column { return append([]Column(nil), f.cols...) }
func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

func (f *Frame) ColumnByName(name string) (Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// Drop returns a new frame without the named columns. Unknown names are
// ignored and the surviving columns keep their order. Column data is shared.
func (f *Frame) Drop(names ...string) *Frame {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	out := &Frame{index: make(map[string]int), nrows: f.nrows}
	for i, c := range f.cols {
		if _, ok := drop[c.Name()]; ok {
			continue
		}
		out.index[c.Name()] = len(out.cols)
		out.cols = append(out.cols, c)
		out.schema.Columns = append(out.schema.Columns, f.schema.Columns[i])
	}
	return out
}

// Take returns a new frame holding the rows at idx, in that order.
func (f *Frame) Take(idx []int) *Frame {
	out := &Frame{
		schema: Schema{Columns: append([]ColumnSchema(nil), f.schema.Columns...)},
		cols:   make([]Column, len(f.cols)),
		index:  make(map[string]int, len(f.index)),
		nrows:  len(idx),
	}
	for i, c := range f.cols {
		out.cols[i] = c.Take(idx)
		out.index[c.Name()] = i
	}
	return out
}

// ReplaceColumn swaps the column with the same name for c, updating the schema
// kind. The replacement must have the frame's row count.
func (f *Frame) ReplaceColumn(c Column) error {
	i, ok := f.index[c.Name()]
	if !ok {
		return fmt.Errorf("unknown column: %s", c.Name())
	}
	if c.Len() != f.nrows {
		return fmt.Errorf("column %s has %d rows, expected %d", c.Name(), c.Len(), f.nrows)
	}
	f.cols[i] = c
	f.schema.Columns[i].Type = c.Kind()
	return nil
}

// AppendNullRow appends a row with all-null values.
func (f *Frame) AppendNullRow() {
	for _, c := range f.cols {
		switch col := c.(type) {
		case *BoolColumn:
			col.AppendNull()
		case *IntColumn:
			col.AppendNull()
		case *FloatColumn:
			col.AppendNull()
		case *StringColumn:
			col.AppendNull()
		default:
			panic("unknown column type")
		}
	}
	f.nrows++
}

// SetCell sets a single cell value by name (row must exist).
func (f *Frame) SetCell(row int, name string, v any) error {
	i, ok := f.index[name]
	if !ok {
		return fmt.Errorf("unknown column: %s", name)
	}
	c := f.cols[i]
	switch col := c.(type) {
	case *BoolColumn:
		if v == nil {
			col.SetNull(row)
			return nil
		}
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("column %s expects bool", name)
		}
		col.Set(row, b)
	case *IntColumn:
		if v == nil {
			col.SetNull(row)
			return nil
		}
		switch t := v.(type) {
		case int:
			col.Set(row, int64(t))
		case int32:
			col.Set(row, int64(t))
		case int64:
			col.Set(row, t)
		case float64:
			col.Set(row, int64(t))
		default:
			return fmt.Errorf("column %s expects int/int64", name)
		}
	case *FloatColumn:
		if v == nil {
			col.SetNull(row)
			return nil
		}
		switch t := v.(type) {
		case float32:
			col.Set(row, float64(t))
		case float64:
			col.Set(row, t)
		case int:
			col.Set(row, float64(t))
		case int32:
			col.Set(row, float64(t))
		case int64:
			col.Set(row, float64(t))
		default:
			return fmt.Errorf("column %s expects float64", name)
		}
	case *StringColumn:
		if v == nil {
			col.SetNull(row)
			return nil
		}
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("column %s expects string", name)
		}
		col.Set(row, s)
	default:
		return fmt.Errorf("unknown column kind")
	}
	return nil
}
