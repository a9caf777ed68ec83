package prune

import (
	"context"

	j "github.com/wdm0006/intakegate/pkg/janitor"
)

// Drop removes the listed columns. Columns that are not in the frame are
// ignored; the remaining columns keep their order.
type Drop struct {
	Columns []string
}

func (t *Drop) Name() string { return "drop_columns" }

func (t *Drop) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	return f.Drop(t.Columns...), nil
}
