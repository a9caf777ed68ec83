// Package gate runs the quality gate over one newly arrived file: load,
// validate, clean and write it, or reject it without writing anything.
package gate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wdm0006/intakegate/pkg/io/csvio"
	"github.com/wdm0006/intakegate/pkg/io/ioutils"
	"github.com/wdm0006/intakegate/pkg/io/jsonlio"
	"github.com/wdm0006/intakegate/pkg/io/parquetio"
	j "github.com/wdm0006/intakegate/pkg/janitor"
	loglib "github.com/wdm0006/intakegate/pkg/log"
	"github.com/wdm0006/intakegate/pkg/profile"
	"github.com/wdm0006/intakegate/pkg/rules"
	"github.com/wdm0006/intakegate/pkg/store"
	"github.com/wdm0006/intakegate/pkg/transform/filter"
	"github.com/wdm0006/intakegate/pkg/transform/impute"
	"github.com/wdm0006/intakegate/pkg/transform/prune"
	"github.com/wdm0006/intakegate/pkg/transform/standardize"
	"github.com/wdm0006/intakegate/pkg/transform/validate"
)

// DestinationPrefix is prepended to the source key to name the cleaned file.
const DestinationPrefix = "processed_"

// DestinationKey returns the key the cleaned version of key is written to.
// Output is always CSV, so a parquet or JSON Lines extension becomes .csv;
// a trailing .gz is kept.
func DestinationKey(key string) string {
	if sourceFormat(key) == formatCSV {
		return DestinationPrefix + key
	}
	base, gz := key, ""
	if ext := path.Ext(key); strings.EqualFold(ext, ".gz") {
		base, gz = strings.TrimSuffix(key, ext), ext
	}
	return DestinationPrefix + strings.TrimSuffix(base, path.Ext(base)) + ".csv" + gz
}

type Gate struct {
	rules      *rules.Rules
	src        store.Reader
	dst        store.Writer
	destBucket string
	csvOptions csvio.ReaderOptions
	logger     loglib.Logger
	metrics    *Metrics
	profileTop int
	newID      func() string
	now        func() time.Time
}

type Option func(*Gate)

func WithLogger(l loglib.Logger) Option {
	return func(g *Gate) {
		g.logger = loglib.NewLogger(l).WithFields(loglib.Fields{loglib.ModuleField: "gate"})
	}
}

func WithMetrics(m *Metrics) Option {
	return func(g *Gate) {
		g.metrics = m
	}
}

// WithProfile attaches a profile of the cleaned table to every summary,
// listing up to topK frequent values per string column.
func WithProfile(topK int) Option {
	return func(g *Gate) {
		g.profileTop = topK
	}
}

// WithCSVOptions overrides how CSV sources are parsed. The header is always
// required.
func WithCSVOptions(opt csvio.ReaderOptions) Option {
	return func(g *Gate) {
		g.csvOptions = opt
		g.csvOptions.HasHeader = true
	}
}

// New returns a gate reading sources from src and writing cleaned files to
// destBucket through dst.
func New(r *rules.Rules, src store.Reader, dst store.Writer, destBucket string, opts ...Option) (*Gate, error) {
	if r == nil {
		return nil, errors.New("gate: rules are required")
	}
	if src == nil || dst == nil {
		return nil, errors.New("gate: source and destination stores are required")
	}
	if strings.TrimSpace(destBucket) == "" {
		return nil, errors.New("gate: destination bucket is required")
	}
	g := &Gate{
		rules:      r,
		src:        src,
		dst:        dst,
		destBucket: destBucket,
		csvOptions: csvio.ReaderOptions{HasHeader: true, Delimiter: ','},
		logger:     loglib.NewNoopLogger(),
		metrics:    NewMetrics(nil),
		newID:      uuid.NewString,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Process runs one file through the gate. It never panics on bad input and
// never writes anything unless the result is SUCCESS.
func (g *Gate) Process(ctx context.Context, src store.Location) Result {
	start := g.now()
	id := g.newID()
	logger := g.logger.WithFields(loglib.Fields{
		loglib.InvocationField: id,
		loglib.SourceField:     src.String(),
	})

	res := g.process(ctx, src, logger)
	res.InvocationID = id

	g.metrics.observe(res, g.now().Sub(start).Seconds())
	if f := res.Failure; f != nil {
		if f.Kind == FailureValidation {
			logger.Warn(f.Err, "file rejected", loglib.Fields{
				"missing_fields": f.Missing,
				"invalid_types":  len(f.InvalidTypes),
			})
		} else {
			logger.Error(f.Err, "file processing failed", loglib.Fields{"kind": string(f.Kind)})
		}
		return res
	}
	logger.Info("file processed", loglib.Fields{
		"destination": res.Summary.Destination.String(),
		"rows_in":     res.Summary.RowsIn,
		"rows_out":    res.Summary.RowsOut,
	})
	return res
}

func (g *Gate) process(ctx context.Context, src store.Location, logger loglib.Logger) Result {
	fail := func(kind FailureKind, err error) Result {
		return Result{State: StateFailure, Failure: &Failure{Kind: kind, Source: src, Err: err}}
	}

	logger.Debug("state", loglib.Fields{"state": StateReceived})
	if err := src.Validate(); err != nil {
		return fail(FailureLoad, fmt.Errorf("%w: %w", ErrLoad, err))
	}
	frame, err := g.load(ctx, src, logger)
	if err != nil {
		return fail(FailureLoad, fmt.Errorf("%w %s: %w", ErrLoad, src, err))
	}

	if _, err := g.validate(logger).Run(ctx, frame); err != nil {
		var verr *validate.Error
		if !errors.As(err, &verr) {
			return fail(FailureTransform, err)
		}
		logger.Debug("state", loglib.Fields{"state": StateRejected})
		return Result{State: StateFailure, Failure: &Failure{
			Kind:         FailureValidation,
			Source:       src,
			Missing:      verr.Result.Missing,
			InvalidTypes: verr.Result.InvalidTypes,
			Err:          verr,
		}}
	}
	logger.Debug("state", loglib.Fields{"state": StateValidated, "rows": frame.Rows(), "columns": frame.Cols()})

	summary := &Summary{
		Source:          src,
		Destination:     store.Location{Bucket: g.destBucket, Key: DestinationKey(src.Key)},
		RowsIn:          frame.Rows(),
		MandatoryFields: g.rules.MandatoryNames(),
	}
	for _, name := range g.rules.Drop() {
		if frame.Has(name) {
			summary.ColumnsDropped = append(summary.ColumnsDropped, name)
		}
	}

	frame, err = g.prepare(logger).Run(ctx, frame)
	if err != nil {
		return fail(FailureTransform, err)
	}
	summary.Imputed = g.missingImputable(frame)
	frame, err = g.fill(logger).Run(ctx, frame)
	if err != nil {
		var ie *impute.Error
		if errors.As(err, &ie) {
			return fail(FailureImputation, err)
		}
		return fail(FailureTransform, err)
	}
	summary.RowsOut = frame.Rows()
	if g.profileTop > 0 {
		summary.Profile = profile.Of(frame, g.profileTop)
	}

	if err := g.write(ctx, summary.Destination, frame); err != nil {
		return fail(FailureWrite, fmt.Errorf("%w %s: %w", ErrWrite, summary.Destination, err))
	}
	logger.Debug("state", loglib.Fields{"state": StateSuccess})
	return Result{State: StateSuccess, Summary: summary}
}

func (g *Gate) validate(logger loglib.Logger) *j.Pipeline {
	return j.NewPipeline(j.WithLogger(logger)).Add(&validate.Fields{Mandatory: g.rules.Mandatory()})
}

// prepare removes what must not reach the output: dropped columns and rows
// lacking a mandatory value.
func (g *Gate) prepare(logger loglib.Logger) *j.Pipeline {
	return j.NewPipeline(j.WithLogger(logger)).Add(
		&prune.Drop{Columns: g.rules.Drop()},
		&filter.Required{Columns: g.rules.MandatoryNames()},
	)
}

// fill imputes the median group, then the mode group, then normalizes.
func (g *Gate) fill(logger loglib.Logger) *j.Pipeline {
	p := j.NewPipeline(j.WithLogger(logger))
	for _, c := range g.rules.MedianColumns() {
		p.Add(&impute.Median{Column: c})
	}
	for _, c := range g.rules.ModeColumns() {
		p.Add(&impute.Mode{Column: c})
	}
	for _, c := range g.rules.IntegralColumns() {
		p.Add(standardize.NewIntegralSuffix(c))
	}
	return p
}

func (g *Gate) missingImputable(f *j.Frame) map[string]int {
	out := map[string]int{}
	for _, names := range [][]string{g.rules.MedianColumns(), g.rules.ModeColumns()} {
		for _, name := range names {
			if c, ok := f.ColumnByName(name); ok {
				if n := j.NullCount(c); n > 0 {
					out[name] = n
				}
			}
		}
	}
	return out
}

func (g *Gate) load(ctx context.Context, src store.Location, logger loglib.Logger) (*j.Frame, error) {
	raw, err := g.src.Get(ctx, src)
	if err != nil {
		return nil, err
	}
	data, err := ioutils.ReadAllMaybeCompressed(raw)
	if err != nil {
		return nil, fmt.Errorf("decompressing: %w", err)
	}
	switch sourceFormat(src.Key) {
	case formatParquet:
		return parquetio.ReadAll(data)
	case formatJSONL:
		return jsonlio.ReadAll(data)
	}
	r := csvio.NewReaderFrom(bytes.NewReader(data), g.csvOptions)
	f, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if w := r.Warnings(); w != "" {
		logger.Warn(nil, "csv records repaired", loglib.Fields{"repairs": w})
	}
	return f, nil
}

func (g *Gate) write(ctx context.Context, dst store.Location, f *j.Frame) error {
	data, err := csvio.Encode(f, csvio.WriterOptions{})
	if err != nil {
		return err
	}
	data, err = ioutils.CompressFor(dst.Key, data)
	if err != nil {
		return err
	}
	return g.dst.Put(ctx, dst, data)
}

const (
	formatCSV     = "csv"
	formatParquet = "parquet"
	formatJSONL   = "jsonl"
)

// sourceFormat picks the decoder from the key extension, ignoring a trailing
// .gz. Unknown extensions are read as CSV.
func sourceFormat(key string) string {
	key = strings.TrimSuffix(strings.ToLower(key), ".gz")
	switch path.Ext(key) {
	case ".parquet":
		return formatParquet
	case ".jsonl", ".ndjson":
		return formatJSONL
	default:
		return formatCSV
	}
}
