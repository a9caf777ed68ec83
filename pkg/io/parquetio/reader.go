package parquetio

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	parquet "github.com/segmentio/parquet-go"

	j "github.com/wdm0006/intakegate/pkg/janitor"
)

const readBatch = 256

// ReadAll decodes a flat parquet file into a Frame. Column kinds come from
// the physical types in the file schema: booleans, 32/64-bit integers,
// floats and doubles, and byte arrays (read as strings). Nested or repeated
// columns are rejected.
func ReadAll(data []byte) (*j.Frame, error) {
	pf, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parquet open: %w", err)
	}
	schema, err := frameSchema(pf.Schema())
	if err != nil {
		return nil, err
	}
	f := j.NewFrame(schema)
	cols := f.Columns()
	buf := make([]parquet.Row, readBatch)
	for _, rg := range pf.RowGroups() {
		if err := readRowGroup(f, cols, rg, buf); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func readRowGroup(f *j.Frame, cols []j.Column, rg parquet.RowGroup, buf []parquet.Row) error {
	rows := rg.Rows()
	defer func() { _ = rows.Close() }()
	for {
		n, err := rows.ReadRows(buf)
		for _, row := range buf[:n] {
			f.AppendNullRow()
			r := f.Rows() - 1
			for _, v := range row {
				if v.IsNull() || v.Column() < 0 || v.Column() >= len(cols) {
					continue
				}
				setValue(cols[v.Column()], r, v)
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("parquet read rows: %w", err)
		}
		if n == 0 {
			return nil
		}
	}
}

func frameSchema(s *parquet.Schema) (j.Schema, error) {
	fields := s.Fields()
	out := j.Schema{Columns: make([]j.ColumnSchema, len(fields))}
	for i, field := range fields {
		if !field.Leaf() || field.Repeated() {
			return j.Schema{}, fmt.Errorf("parquet column %s: nested or repeated columns are not supported", field.Name())
		}
		var kind j.Kind
		switch field.Type().Kind() {
		case parquet.Boolean:
			kind = j.KindBool
		case parquet.Int32, parquet.Int64:
			kind = j.KindInt
		case parquet.Float, parquet.Double:
			kind = j.KindFloat
		case parquet.ByteArray, parquet.FixedLenByteArray:
			kind = j.KindString
		default:
			return j.Schema{}, fmt.Errorf("parquet column %s: unsupported physical type %s", field.Name(), field.Type())
		}
		out.Columns[i] = j.ColumnSchema{Name: field.Name(), Type: kind, Nullable: field.Optional()}
	}
	return out, nil
}

func setValue(col j.Column, r int, v parquet.Value) {
	switch c := col.(type) {
	case *j.BoolColumn:
		c.Set(r, v.Boolean())
	case *j.IntColumn:
		if v.Kind() == parquet.Int32 {
			c.Set(r, int64(v.Int32()))
		} else {
			c.Set(r, v.Int64())
		}
	case *j.FloatColumn:
		if v.Kind() == parquet.Float {
			c.Set(r, float64(v.Float()))
		} else {
			c.Set(r, v.Double())
		}
	case *j.StringColumn:
		c.Set(r, string(v.ByteArray()))
	}
}
