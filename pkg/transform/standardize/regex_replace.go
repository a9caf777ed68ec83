package standardize

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	j "github.com/wdm0006/intakegate/pkg/janitor"
)

// RegexReplace rewrites every non-null value of a string column. Columns of
// other kinds are left alone.
type RegexReplace struct {
	Column  string
	Pattern string
	Replace string

	once sync.Once
	re   *regexp.Regexp
	err  error
}

func (t *RegexReplace) Name() string { return "regex_replace" }

func (t *RegexReplace) compile() (*regexp.Regexp, error) {
	t.once.Do(func() {
		t.re, t.err = regexp.Compile(t.Pattern)
		if t.err != nil {
			t.err = fmt.Errorf("regex_replace: %w", t.err)
		}
	})
	return t.re, t.err
}

func (t *RegexReplace) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	re, err := t.compile()
	if err != nil {
		return f, err
	}
	col, ok := f.ColumnByName(t.Column)
	if !ok {
		return f, nil
	}
	if c, ok := col.(*j.StringColumn); ok {
		for i := 0; i < c.Len(); i++ {
			if c.IsNull(i) {
				continue
			}
			v, _ := c.Get(i)
			c.Set(i, re.ReplaceAllString(v, t.Replace))
		}
	}
	return f, nil
}
