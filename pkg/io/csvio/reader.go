package csvio

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	j "github.com/wdm0006/intakegate/pkg/janitor"
)

// DefaultNullValues are the cell contents read as missing, besides the empty
// string.
var DefaultNullValues = []string{"NA", "N/A", "n/a", "NaN", "nan", "-NaN", "null", "NULL", "None", "#N/A", "<NA>"}

var ErrEmptyInput = errors.New("csv input has no header")

var numre = regexp.MustCompile(`^[-+]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][-+]?[0-9]+)?$`)

type ReaderOptions struct {
	HasHeader  bool
	Delimiter  rune // 0 = sniff, default ','
	Strict     bool // if true, error on short/long records
	NullValues []string
}

type Reader struct {
	r     *csv.Reader
	opt   ReaderOptions
	nulls map[string]struct{}
	// repair/warning counters
	shortRecords int
	longRecords  int
}

// NewReaderFrom constructs a Reader over r. When no delimiter is given the
// first 4KiB are sniffed for one.
func NewReaderFrom(r io.Reader, opt ReaderOptions) *Reader {
	br := bufio.NewReader(r)
	rr := csv.NewReader(br)
	if opt.Delimiter == 0 {
		d, lazy := sniffDelimiterAndQuotes(br)
		rr.Comma = d
		rr.LazyQuotes = lazy
	} else {
		rr.Comma = opt.Delimiter
	}
	rr.FieldsPerRecord = -1
	nullValues := opt.NullValues
	if nullValues == nil {
		nullValues = DefaultNullValues
	}
	nulls := make(map[string]struct{}, len(nullValues)+1)
	nulls[""] = struct{}{}
	for _, v := range nullValues {
		nulls[v] = struct{}{}
	}
	return &Reader{r: rr, opt: opt, nulls: nulls}
}

// ReadAll loads the whole input into a Frame. Column kinds are decided over
// every row: a column is int or float only if all of its non-missing cells
// parse as numbers, and a column without any value is float.
func (r *Reader) ReadAll() (*j.Frame, error) {
	first, err := r.r.Read()
	if err == io.EOF {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, err
	}
	names, err := r.header(first)
	if err != nil {
		return nil, err
	}
	var rows [][]string
	if !r.opt.HasHeader {
		rows = append(rows, first)
	}
	for {
		rec, err := r.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rec, err = r.fit(rec, len(names), len(rows)+1)
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}

	kinds := r.inferKinds(rows, len(names))
	schema := j.Schema{Columns: make([]j.ColumnSchema, len(names))}
	for i := range names {
		schema.Columns[i] = j.ColumnSchema{Name: names[i], Type: kinds[i], Nullable: true}
	}
	f := j.NewFrame(schema)
	for _, rec := range rows {
		if err := r.appendRecord(f, schema, rec); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (r *Reader) header(rec []string) ([]string, error) {
	names := make([]string, len(rec))
	seen := make(map[string]struct{}, len(rec))
	for i := range rec {
		name := "col_" + strconv.Itoa(i)
		if r.opt.HasHeader {
			name = strings.TrimSpace(strings.ToValidUTF8(rec[i], "?"))
			if i == 0 {
				name = strings.TrimPrefix(name, "\ufeff")
			}
			if name == "" {
				name = "Unnamed: " + strconv.Itoa(i)
			}
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("csv header: duplicate column %q", name)
		}
		seen[name] = struct{}{}
		names[i] = name
	}
	return names, nil
}

// fit pads short records with empty cells and truncates long ones, counting
// both, unless the reader is strict.
func (r *Reader) fit(rec []string, n, line int) ([]string, error) {
	switch {
	case len(rec) < n:
		r.shortRecords++
		if r.opt.Strict {
			return nil, fmt.Errorf("csv short record at row %d: need %d fields, got %d", line, n, len(rec))
		}
		rec = append(rec, make([]string, n-len(rec))...)
	case len(rec) > n:
		r.longRecords++
		if r.opt.Strict {
			return nil, fmt.Errorf("csv long record at row %d: need %d fields, got %d", line, n, len(rec))
		}
		rec = rec[:n]
	}
	return rec, nil
}

// cell reports whether v holds a value. Surrounding whitespace is ignored
// when matching null tokens and numbers; string cells keep their bytes.
func (r *Reader) cell(v string) (trimmed string, ok bool) {
	trimmed = strings.TrimSpace(v)
	if _, null := r.nulls[trimmed]; null {
		return "", false
	}
	return trimmed, true
}

// isNumber accepts decimal literals that fit in a float64.
func isNumber(v string) bool {
	if !numre.MatchString(v) {
		return false
	}
	_, err := strconv.ParseFloat(v, 64)
	return err == nil
}

func (r *Reader) appendRecord(f *j.Frame, schema j.Schema, rec []string) error {
	f.AppendNullRow()
	row := f.Rows() - 1
	for i, cs := range schema.Columns {
		val, ok := r.cell(rec[i])
		if !ok {
			continue
		}
		switch cs.Type {
		case j.KindFloat:
			x, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("row %d column %s: %w", row+1, cs.Name, err)
			}
			_ = f.SetCell(row, cs.Name, x)
		case j.KindInt:
			x, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return fmt.Errorf("row %d column %s: %w", row+1, cs.Name, err)
			}
			_ = f.SetCell(row, cs.Name, x)
		default:
			_ = f.SetCell(row, cs.Name, rec[i])
		}
	}
	return nil
}

func (r *Reader) inferKinds(rows [][]string, ncol int) []j.Kind {
	kinds := make([]j.Kind, ncol)
	for c := 0; c < ncol; c++ {
		num, integer, str := 0, 0, 0
		for _, row := range rows {
			v, ok := r.cell(row[c])
			if !ok {
				continue
			}
			if !isNumber(v) {
				str++
				break
			}
			num++
			if !strings.ContainsAny(v, ".eE") {
				if _, err := strconv.ParseInt(v, 10, 64); err == nil {
					integer++
				}
			}
		}
		switch {
		case str > 0:
			kinds[c] = j.KindString
		case num > 0 && integer == num:
			kinds[c] = j.KindInt
		default:
			kinds[c] = j.KindFloat
		}
	}
	return kinds
}

func sniffDelimiterAndQuotes(br *bufio.Reader) (rune, bool) {
	sample, _ := br.Peek(4096)
	if len(sample) == 0 {
		return ',', false
	}
	// only the first line decides; quoted text further down skews counts
	if i := strings.IndexByte(string(sample), '\n'); i >= 0 {
		sample = sample[:i]
	}
	candidates := []byte{',', '\t', ';', '|'}
	best := byte(',')
	bestCount := 0
	for _, c := range candidates {
		cnt := 0
		for _, b := range sample {
			if b == c {
				cnt++
			}
		}
		if cnt > bestCount {
			bestCount = cnt
			best = c
		}
	}
	quoteCount := 0
	for _, b := range sample {
		if b == '"' {
			quoteCount++
		}
	}
	return rune(best), quoteCount%2 != 0
}

// Warnings returns a summary string of any repairs/mismatches encountered.
func (r *Reader) Warnings() string {
	if r.shortRecords == 0 && r.longRecords == 0 {
		return ""
	}
	parts := []string{}
	if r.shortRecords > 0 {
		parts = append(parts, fmt.Sprintf("short_records=%d", r.shortRecords))
	}
	if r.longRecords > 0 {
		parts = append(parts, fmt.Sprintf("long_records=%d", r.longRecords))
	}
	return strings.Join(parts, ", ")
}
