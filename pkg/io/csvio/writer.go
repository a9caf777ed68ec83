package csvio

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"

	j "github.com/wdm0006/intakegate/pkg/janitor"
)

type WriterOptions struct {
	Delimiter rune // default ','
}

// WriteAll writes a Frame to w as CSV with a header row. Nulls are written as
// empty cells and floats in their shortest plain decimal form.
func WriteAll(w io.Writer, f *j.Frame, opt WriterOptions) error {
	cw := csv.NewWriter(w)
	if opt.Delimiter != 0 {
		cw.Comma = opt.Delimiter
	}

	hdr := f.Schema().Names()
	if err := cw.Write(hdr); err != nil {
		return err
	}

	cols := f.Columns()
	row := make([]string, len(cols))
	for r := 0; r < f.Rows(); r++ {
		for c, col := range cols {
			row[c] = formatCell(col, r)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Encode returns f serialised by WriteAll.
func Encode(f *j.Frame, opt WriterOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteAll(&buf, f, opt); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatCell(col j.Column, r int) string {
	switch c := col.(type) {
	case *j.FloatColumn:
		if v, ok := c.Get(r); ok {
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	case *j.IntColumn:
		if v, ok := c.Get(r); ok {
			return strconv.FormatInt(v, 10)
		}
	case *j.BoolColumn:
		if v, ok := c.Get(r); ok {
			return strconv.FormatBool(v)
		}
	case *j.StringColumn:
		if v, ok := c.Get(r); ok {
			return v
		}
	}
	return ""
}
