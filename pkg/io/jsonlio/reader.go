// Package jsonlio decodes JSON Lines objects into a Frame.
package jsonlio

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	j "github.com/wdm0006/intakegate/pkg/janitor"
)

var ErrEmptyInput = errors.New("jsonl input has no records")

// cell is one decoded value; a missing key or JSON null is kept as nil.
type cell struct {
	res  gjson.Result
	null bool
}

// ReadAll decodes every line of data as a JSON object. Columns appear in the
// order their keys are first seen. A column is bool, int or float only when
// every non-null value has that JSON type (int needs integer literals);
// anything else makes it a string column, with non-string values kept as
// their raw JSON text.
func ReadAll(data []byte) (*j.Frame, error) {
	var (
		names []string
		index = map[string]int{}
		rows  []map[int]cell
	)
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		if !gjson.ValidBytes(b) {
			return nil, fmt.Errorf("line %d: invalid JSON", line)
		}
		obj := gjson.ParseBytes(b)
		if !obj.IsObject() {
			return nil, fmt.Errorf("line %d: expected an object", line)
		}
		row := map[int]cell{}
		obj.ForEach(func(k, v gjson.Result) bool {
			name := k.String()
			i, ok := index[name]
			if !ok {
				i = len(names)
				index[name] = i
				names = append(names, name)
			}
			row[i] = cell{res: v, null: v.Type == gjson.Null}
			return true
		})
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}

	schema := j.Schema{Columns: make([]j.ColumnSchema, len(names))}
	for i, name := range names {
		schema.Columns[i] = j.ColumnSchema{Name: name, Type: inferKind(rows, i), Nullable: true}
	}
	f := j.NewFrame(schema)
	for r, row := range rows {
		f.AppendNullRow()
		for i, cs := range schema.Columns {
			c, ok := row[i]
			if !ok || c.null {
				continue
			}
			if err := f.SetCell(r, cs.Name, value(cs.Type, c.res)); err != nil {
				return nil, fmt.Errorf("record %d: %w", r+1, err)
			}
		}
	}
	return f, nil
}

func inferKind(rows []map[int]cell, col int) j.Kind {
	nBool, nInt, nNum, nOther, seen := 0, 0, 0, 0, 0
	for _, row := range rows {
		c, ok := row[col]
		if !ok || c.null {
			continue
		}
		seen++
		switch c.res.Type {
		case gjson.True, gjson.False:
			nBool++
		case gjson.Number:
			nNum++
			if !strings.ContainsAny(c.res.Raw, ".eE") {
				if _, err := strconv.ParseInt(c.res.Raw, 10, 64); err == nil {
					nInt++
				}
			}
		default:
			nOther++
		}
	}
	switch {
	case seen == 0:
		return j.KindFloat
	case nBool == seen:
		return j.KindBool
	case nInt == seen:
		return j.KindInt
	case nNum == seen:
		return j.KindFloat
	default:
		return j.KindString
	}
}

func value(k j.Kind, v gjson.Result) any {
	switch k {
	case j.KindBool:
		return v.Bool()
	case j.KindInt:
		return v.Int()
	case j.KindFloat:
		return v.Float()
	default:
		if v.Type == gjson.String {
			return v.String()
		}
		return v.Raw
	}
}
