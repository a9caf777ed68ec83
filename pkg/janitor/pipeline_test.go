package janitor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	j "github.com/wdm0006/intakegate/pkg/janitor"
	"github.com/wdm0006/intakegate/pkg/transform/filter"
	"github.com/wdm0006/intakegate/pkg/transform/impute"
	"github.com/wdm0006/intakegate/pkg/transform/prune"
	"github.com/wdm0006/intakegate/pkg/transform/standardize"
)

func TestPipeline(t *testing.T) {
	s := j.Schema{Columns: []j.ColumnSchema{
		{Name: "id", Type: j.KindInt, Nullable: true},
		{Name: "x", Type: j.KindFloat, Nullable: true},
		{Name: "s", Type: j.KindString, Nullable: true},
		{Name: "cyl", Type: j.KindString, Nullable: true},
	}}
	f := j.NewFrame(s)
	for i := 0; i < 3; i++ {
		f.AppendNullRow()
	}
	require.NoError(t, f.SetCell(0, "x", 1.0))
	require.NoError(t, f.SetCell(0, "s", "a"))
	require.NoError(t, f.SetCell(0, "cyl", "4.0"))
	require.NoError(t, f.SetCell(1, "x", 3.0))
	require.NoError(t, f.SetCell(1, "cyl", "6"))
	// row 2 has no cyl and is dropped

	p := j.NewPipeline().Add(
		&prune.Drop{Columns: []string{"id"}},
		&filter.Required{Columns: []string{"cyl"}},
		&impute.Mode{Column: "s"},
		standardize.NewIntegralSuffix("cyl"),
	)
	assert.Equal(t, []string{"drop_columns", "drop_incomplete_rows", "impute_mode", "strip_integral_suffix"}, p.Steps())

	out, err := p.Run(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "s", "cyl"}, out.Schema().Names())
	require.Equal(t, 2, out.Rows())

	col, _ := out.ColumnByName("s")
	v, ok := col.(*j.StringColumn).Get(1)
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	col, _ = out.ColumnByName("cyl")
	v, _ = col.(*j.StringColumn).Get(0)
	assert.Equal(t, "4", v)
}

type failing struct{ err error }

func (t *failing) Name() string { return "failing" }
func (t *failing) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	return nil, t.err
}

func TestPipelineStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	f := j.NewFrame(j.Schema{Columns: []j.ColumnSchema{{Name: "x", Type: j.KindFloat}}})
	f.AppendNullRow()

	_, err := j.NewPipeline().Add(&failing{err: boom}, &impute.Median{Column: "x"}).Run(context.Background(), f)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failing: ")

	col, _ := f.ColumnByName("x")
	assert.True(t, col.IsNull(0))
}

func TestPipelineHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := j.NewPipeline().Add(&impute.Median{Column: "x"}).Run(ctx, j.NewFrame(j.Schema{}))
	require.ErrorIs(t, err, context.Canceled)
}
