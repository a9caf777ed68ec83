package standardize

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	j "github.com/wdm0006/intakegate/pkg/janitor"
)

func stringFrame(t require.TestingT, name string, vals []string) (*j.Frame, *j.StringColumn) {
	c := j.NewStringColumn(name, len(vals))
	for i, v := range vals {
		c.Set(i, v)
	}
	f, err := j.FromColumns(c)
	require.NoError(t, err)
	return f, c
}

func values(c *j.StringColumn) []string {
	out := make([]string, c.Len())
	for i := range out {
		out[i], _ = c.Get(i)
	}
	return out
}

func TestIntegralSuffixStrings(t *testing.T) {
	f, c := stringFrame(t, "cylindernumber", []string{"4.0", "6.0", "4", "four", "2.05", "8.00", "10.0"})
	c.SetNull(3)
	_, err := NewIntegralSuffix("cylindernumber").Apply(context.Background(), f)
	require.NoError(t, err)
	got := values(c)
	assert.Equal(t, []string{"4", "6", "4"}, got[:3])
	assert.True(t, c.IsNull(3))
	assert.Equal(t, []string{"2.05", "8.00", "10"}, got[4:])
}

func TestIntegralSuffixFloatColumn(t *testing.T) {
	fc := j.NewFloatColumn("cylindernumber", 3)
	fc.Set(0, 4)
	fc.Set(1, 6)
	fc.Set(2, 4)
	f, err := j.FromColumns(fc)
	require.NoError(t, err)
	out, err := NewIntegralSuffix("cylindernumber").Apply(context.Background(), f)
	require.NoError(t, err)
	col, _ := out.ColumnByName("cylindernumber")
	ic, ok := col.(*j.IntColumn)
	require.True(t, ok)
	for i, want := range []int64{4, 6, 4} {
		v, _ := ic.Get(i)
		assert.Equal(t, want, v)
	}
}

func TestIntegralSuffixFractionalFloatUntouched(t *testing.T) {
	fc := j.NewFloatColumn("x", 2)
	fc.Set(0, 4)
	fc.Set(1, 4.5)
	f, err := j.FromColumns(fc)
	require.NoError(t, err)
	out, err := NewIntegralSuffix("x").Apply(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, j.KindFloat, out.Schema().Columns[0].Type)
}

func TestIntegralSuffixZeroValue(t *testing.T) {
	f, c := stringFrame(t, "x", []string{"3.0"})
	_, err := (&IntegralSuffix{Column: "x"}).Apply(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, values(c))
}

func TestIntegralSuffixIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		vals := rapid.SliceOf(rapid.StringMatching(`[0-9]{1,2}(\.0|\.00|\.5)?(\.0)?`)).Draw(t, "values")
		once, c1 := stringFrame(t, "x", vals)
		twice, c2 := stringFrame(t, "x", vals)
		tf := NewIntegralSuffix("x")
		if _, err := tf.Apply(context.Background(), once); err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 2; i++ {
			if _, err := tf.Apply(context.Background(), twice); err != nil {
				t.Fatal(err)
			}
		}
		a, b := values(c1), values(c2)
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("value %d: once %q, twice %q", i, a[i], b[i])
			}
		}
	})
}

func TestRegexReplaceBadPattern(t *testing.T) {
	f, _ := stringFrame(t, "s", []string{"a"})
	_, err := (&RegexReplace{Column: "s", Pattern: "("}).Apply(context.Background(), f)
	require.Error(t, err)
}
