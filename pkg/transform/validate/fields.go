package validate

import (
	"context"
	"fmt"
	"strings"

	j "github.com/wdm0006/intakegate/pkg/janitor"
	"github.com/wdm0006/intakegate/pkg/rules"
)

// Violation is a mandatory field present with the wrong column type.
type Violation struct {
	Field    string
	Expected rules.Type
	Actual   j.Kind
}

// String renders the violation the way it is reported to callers.
func (v Violation) String() string {
	return fmt.Sprintf("%s (expected %s)", v.Field, v.Expected)
}

// Result lists the mandatory fields that are absent and those present with
// the wrong type. A field appears in at most one of the two lists.
type Result struct {
	Missing      []string
	InvalidTypes []Violation
}

func (r Result) OK() bool { return len(r.Missing) == 0 && len(r.InvalidTypes) == 0 }

// InvalidFields returns the names of the wrongly typed fields.
func (r Result) InvalidFields() []string {
	out := make([]string, len(r.InvalidTypes))
	for i, v := range r.InvalidTypes {
		out[i] = v.Field
	}
	return out
}

// InvalidReasons returns one human readable reason per wrongly typed field.
func (r Result) InvalidReasons() []string {
	out := make([]string, len(r.InvalidTypes))
	for i, v := range r.InvalidTypes {
		out[i] = v.String()
	}
	return out
}

// Check compares the declared column kinds of f against fields. It does not
// look at individual cells: a type failure is a property of the column.
func Check(f *j.Frame, fields []rules.Field) Result {
	res := Result{Missing: []string{}, InvalidTypes: []Violation{}}
	for _, field := range fields {
		col, ok := f.ColumnByName(field.Name)
		if !ok {
			res.Missing = append(res.Missing, field.Name)
			continue
		}
		if !field.Type.Accepts(col.Kind()) {
			res.InvalidTypes = append(res.InvalidTypes, Violation{Field: field.Name, Expected: field.Type, Actual: col.Kind()})
		}
	}
	return res
}

// Error is returned when mandatory fields are missing or mistyped.
type Error struct {
	Result Result
}

func (e *Error) Error() string {
	var parts []string
	if len(e.Result.Missing) > 0 {
		parts = append(parts, "missing fields: "+strings.Join(e.Result.Missing, ", "))
	}
	if len(e.Result.InvalidTypes) > 0 {
		parts = append(parts, "invalid types: "+strings.Join(e.Result.InvalidReasons(), ", "))
	}
	return "invalid data format: " + strings.Join(parts, "; ")
}

// Fields fails the pipeline with an *Error when the frame does not satisfy
// the mandatory field list. The frame is returned untouched.
type Fields struct {
	Mandatory []rules.Field
}

func (t *Fields) Name() string { return "validate_fields" }

func (t *Fields) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	if res := Check(f, t.Mandatory); !res.OK() {
		return f, &Error{Result: res}
	}
	return f, nil
}
