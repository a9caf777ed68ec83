package janitor

import (
	"context"
	"fmt"

	loglib "github.com/wdm0006/intakegate/pkg/log"
)

// Transform is a mutation or validation applied to a Frame. A transform may
// modify its input in place or return a new frame; callers must only use the
// returned frame.
type Transform interface {
	Name() string
	Apply(ctx context.Context, f *Frame) (*Frame, error)
}

// Pipeline composes a sequence of Transforms. Each step's output is the next
// step's input.
type Pipeline struct {
	steps  []Transform
	logger loglib.Logger
}

type PipelineOption func(*Pipeline)

func WithLogger(l loglib.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = loglib.NewLogger(l)
	}
}

func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{logger: loglib.NewNoopLogger()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) Add(t ...Transform) *Pipeline {
	p.steps = append(p.steps, t...)
	return p
}

// Steps returns the step names in execution order.
func (p *Pipeline) Steps() []string {
	names := make([]string, len(p.steps))
	for i, t := range p.steps {
		names[i] = t.Name()
	}
	return names
}

// Run applies every step in order, stopping at the first error. The error is
// wrapped with the failing step name.
func (p *Pipeline) Run(ctx context.Context, f *Frame) (*Frame, error) {
	var err error
	cur := f
	for _, t := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows := cur.Rows()
		cur, err = t.Apply(ctx, cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Name(), err)
		}
		p.logger.Trace("step applied", loglib.Fields{
			"step":     t.Name(),
			"rows_in":  rows,
			"rows_out": cur.Rows(),
			"columns":  cur.Cols(),
		})
	}
	return cur, nil
}
