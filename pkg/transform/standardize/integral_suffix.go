package standardize

import (
	"context"

	j "github.com/wdm0006/intakegate/pkg/janitor"
)

// integralPattern matches whole numbers written with a single ".0" decimal.
const integralPattern = `^([+-]?[0-9]+)\.0$`

// IntegralSuffix removes a trailing ".0" from whole numbers that were
// serialised as decimals, e.g. "4.0" becomes "4". On a string column only
// such values change; "4.00", "4.5" or "four" pass through. A float column holding only whole
// numbers is turned into an int column, which is the same rewrite on typed
// data. Applying it twice is the same as applying it once.
type IntegralSuffix struct {
	Column string

	strip *RegexReplace
}

func NewIntegralSuffix(column string) *IntegralSuffix {
	return &IntegralSuffix{
		Column: column,
		strip:  &RegexReplace{Column: column, Pattern: integralPattern, Replace: "${1}"},
	}
}

func (t *IntegralSuffix) Name() string { return "strip_integral_suffix" }

func (t *IntegralSuffix) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok {
		return f, nil
	}
	switch c := col.(type) {
	case *j.StringColumn:
		if t.strip == nil {
			t.strip = &RegexReplace{Column: t.Column, Pattern: integralPattern, Replace: "${1}"}
		}
		return t.strip.Apply(ctx, f)
	case *j.FloatColumn:
		if ic, ok := c.ToInt(); ok {
			if err := f.ReplaceColumn(ic); err != nil {
				return f, err
			}
		}
	}
	return f, nil
}
