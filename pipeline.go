package featquant

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/featquant/blobstore"
	"github.com/hupe1980/featquant/compress"
	"github.com/hupe1980/featquant/group"
	"github.com/hupe1980/featquant/internal/hash"
	"github.com/hupe1980/featquant/persistence"
	"github.com/hupe1980/featquant/quantization"
	"github.com/hupe1980/featquant/scale"
	"github.com/hupe1980/featquant/table"
)

// Status is the lifecycle state of a Pipeline.
type Status uint8

const (
	// StatusUnfit is the state of a new pipeline. Only Fit may run.
	StatusUnfit Status = iota
	// StatusFitted is the state after a successful Fit.
	StatusFitted
	// StatusReloaded is the state of a pipeline returned by Load.
	StatusReloaded
)

func (s Status) String() string {
	switch s {
	case StatusUnfit:
		return "unfit"
	case StatusFitted:
		return "fitted"
	case StatusReloaded:
		return "reloaded"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// Pipeline classifies, scales and quantizes numeric feature columns.
//
// Fit runs at most once per instance. After Fit (or Load) the pipeline is
// read-only: Transform, Save and the accessors are safe for concurrent use.
type Pipeline struct {
	opts options

	mu    sync.Mutex // serializes Fit
	state atomic.Pointer[fittedState]
}

// New creates an unfit pipeline.
func New(optFns ...Option) (*Pipeline, error) {
	opts := applyOptions(optFns)
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Pipeline{opts: opts}, nil
}

// Status returns the lifecycle state.
func (p *Pipeline) Status() Status {
	st := p.state.Load()
	switch {
	case st == nil:
		return StatusUnfit
	case st.reloaded:
		return StatusReloaded
	default:
		return StatusFitted
	}
}

// FeatureCols returns the frozen feature columns, or nil before Fit.
func (p *Pipeline) FeatureCols() []string {
	st := p.state.Load()
	if st == nil {
		return nil
	}
	return append([]string(nil), st.featureCols...)
}

// Groups returns the frozen group of every feature column, or nil before Fit.
func (p *Pipeline) Groups() map[string]group.Group {
	st := p.state.Load()
	if st == nil {
		return nil
	}
	return maps.Clone(st.metadata().Groups)
}

// Metadata returns the metadata record of the fitted state.
func (p *Pipeline) Metadata() (Metadata, error) {
	st := p.state.Load()
	if st == nil {
		return Metadata{}, ErrNotFitted
	}
	return st.metadata(), nil
}

// Fit learns the column groups, per-column transforms and quantizer bin edges
// from t and returns the codes of t.
//
// Fit fails without retaining any state if t is empty, has no numeric
// columns or a column cannot be fitted. A second Fit returns ErrAlreadyFitted.
func (p *Pipeline) Fit(ctx context.Context, t *table.Table) (codes *table.Codes, err error) {
	start := time.Now()
	var rows, cols int
	if t != nil {
		rows = t.Len()
	}
	var (
		perGroup map[group.Group]int
		missing  map[string]uint64
	)
	defer func() {
		p.opts.metricsCollector.RecordFit(rows, cols, time.Since(start), err)
		p.opts.logger.LogFit(ctx, rows, cols, perGroup, missing, err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state.Load() != nil {
		return nil, ErrAlreadyFitted
	}

	st, err := p.fit(ctx, t)
	if err != nil {
		return nil, translateError(err)
	}
	rows, cols = st.numRows, len(st.featureCols)

	codes, err = p.encode(ctx, st, t)
	if err != nil {
		return nil, translateError(err)
	}

	perGroup = make(map[group.Group]int)
	missing = make(map[string]uint64)
	for j, ct := range st.transforms {
		perGroup[ct.Group]++
		col, _ := t.Column(st.featureCols[j])
		if n := col.Missing().GetCardinality(); n > 0 {
			missing[ct.Name] = n
		}
	}
	p.state.Store(st)
	return codes, nil
}

func (p *Pipeline) fit(ctx context.Context, t *table.Table) (*fittedState, error) {
	if t.Empty() {
		return nil, group.ErrEmptyTable
	}
	names := t.NumericColumns()
	if len(names) == 0 {
		return nil, group.ErrNoNumericColumns
	}

	// Groups are decided over the raw values. A column left with a single
	// value after imputation cannot carry a scaling transform and is Constant.
	classes, err := group.Classify(t, func(o *group.Options) {
		o.SmallCardinalityLimit = p.opts.smallCardinalityLimit
	})
	if err != nil {
		return nil, err
	}
	raw := make([][]float64, len(names))
	for j, name := range names {
		col, _ := t.Column(name)
		raw[j] = col.Coerce()
		imputed := scale.FitImputer(raw[j]).Transform(raw[j])
		if floats.Min(imputed) == floats.Max(imputed) {
			classes.Groups[name] = group.Constant
		}
	}

	transforms := make([]*scale.ColumnTransform, len(names))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(p.opts.parallelism)
	for j, name := range names {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			ct, err := scale.Fit(name, classes.Groups[name], raw[j], p.opts.scale)
			if err != nil {
				return err
			}
			transforms[j] = ct
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	rows := t.Len()
	scaled := mat.NewDense(rows, len(names), nil)
	direct := make([]bool, len(names))
	for j, ct := range transforms {
		scaled.SetCol(j, ct.Transform(raw[j]))
		direct[j] = ct.Direct()
	}

	q, err := quantization.NewKBinsQuantizer(p.opts.bins)
	if err != nil {
		return nil, err
	}
	if err := q.Train(scaled, direct); err != nil {
		return nil, err
	}

	return &fittedState{
		bins:                  p.opts.bins,
		scale:                 p.opts.scale,
		smallCardinalityLimit: p.opts.smallCardinalityLimit,
		featureCols:           names,
		numRows:               rows,
		fittedAt:              p.opts.clock().UTC(),
		transforms:            transforms,
		quantizer:             q,
	}, nil
}

// Transform returns the codes of t using the frozen fitted state.
//
// Every frozen feature column must be present in t; extra columns are
// ignored. The result holds the feature columns in frozen order and shares
// the row index of t.
func (p *Pipeline) Transform(ctx context.Context, t *table.Table) (codes *table.Codes, err error) {
	start := time.Now()
	rows := 0
	if t != nil {
		rows = t.Len()
	}
	defer func() {
		p.opts.metricsCollector.RecordTransform(rows, time.Since(start), err)
		p.opts.logger.LogTransform(ctx, rows, err)
	}()

	st, err := p.batchState(ctx, t)
	if err != nil {
		return nil, err
	}
	codes, err = p.encode(ctx, st, t)
	if err != nil {
		return nil, translateError(err)
	}
	return codes, nil
}

// TransformScaled returns the scaled feature values of t without quantization,
// one column per frozen feature column in frozen order.
//
// It applies the same imputation and per-column transforms as Transform and
// is subject to the same checks. Constant, SmallCardinalityInteger and
// extreme-mode Binary columns hold their final codes.
func (p *Pipeline) TransformScaled(ctx context.Context, t *table.Table) (scaled *mat.Dense, err error) {
	start := time.Now()
	rows := 0
	if t != nil {
		rows = t.Len()
	}
	defer func() {
		p.opts.metricsCollector.RecordTransform(rows, time.Since(start), err)
		p.opts.logger.LogTransform(ctx, rows, err)
	}()

	st, err := p.batchState(ctx, t)
	if err != nil {
		return nil, err
	}
	cols := make([][]float64, len(st.featureCols))
	err = p.replay(ctx, st, t, func(j int, values []float64) error {
		cols[j] = values
		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}

	scaled = mat.NewDense(t.Len(), len(cols), nil)
	for j, values := range cols {
		scaled.SetCol(j, values)
	}
	return scaled, nil
}

// batchState returns the fitted state after checking that t can be replayed.
func (p *Pipeline) batchState(ctx context.Context, t *table.Table) (*fittedState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	st := p.state.Load()
	if st == nil {
		return nil, ErrNotFitted
	}
	if t == nil || t.Len() == 0 {
		return nil, fmt.Errorf("%w: empty table", ErrInvalidInput)
	}
	if missing := t.MissingColumns(st.featureCols); len(missing) > 0 {
		return nil, &SchemaMismatchError{Missing: missing}
	}
	return st, nil
}

// encode replays the frozen state over t. It is the only path producing codes.
func (p *Pipeline) encode(ctx context.Context, st *fittedState, t *table.Table) (*table.Codes, error) {
	data := make([][]int8, len(st.featureCols))
	err := p.replay(ctx, st, t, func(j int, scaled []float64) error {
		c, err := st.quantizer.EncodeColumn(j, scaled)
		if err != nil {
			return err
		}
		data[j] = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return table.NewCodes(t.Index(), st.featureCols, data), nil
}

// replay applies the frozen column transforms to the feature columns of t
// and hands each scaled column to emit. Columns run in parallel.
func (p *Pipeline) replay(ctx context.Context, st *fittedState, t *table.Table, emit func(j int, scaled []float64) error) error {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(p.opts.parallelism)
	for j, name := range st.featureCols {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			col, _ := t.Column(name)
			if err := emit(j, st.transforms[j].Transform(col.Coerce())); err != nil {
				return fmt.Errorf("column %q: %w", name, err)
			}
			return nil
		})
	}
	return eg.Wait()
}

// Save writes the fitted state to <prefix>/pipeline.bin and then the
// metadata record to <prefix>/metadata.json.
func (p *Pipeline) Save(ctx context.Context, store blobstore.BlobStore, prefix string) (err error) {
	start := time.Now()
	written := 0
	logger := p.opts.logger.WithModel(prefix)
	defer func() {
		p.opts.metricsCollector.RecordSave(written, time.Since(start), err)
		logger.LogSave(ctx, prefix, written, err)
	}()

	st := p.state.Load()
	if st == nil {
		return ErrNotFitted
	}

	payload, err := st.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	c, err := compress.New(p.opts.compression)
	if err != nil {
		return translateError(err)
	}
	blob, err := persistence.Seal(payload, hash.Fingerprint(st.featureCols), c)
	if err != nil {
		return fmt.Errorf("seal state: %w", err)
	}

	meta := st.metadata()
	meta.StateCRC32C = hash.CRC32C(blob)
	record, err := marshalMetadata(p.opts.codec, &meta)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	// The metadata record is written last so that it only ever refers to a
	// complete state blob.
	if err := store.Put(ctx, blobstore.Join(prefix, StateFile), blob); err != nil {
		return translateError(err)
	}
	if err := store.Put(ctx, blobstore.Join(prefix, MetadataFile), record); err != nil {
		return translateError(err)
	}
	written = len(blob) + len(record)
	return nil
}

// Load reads a pipeline saved under prefix and returns it in StatusReloaded.
//
// Load fails with ErrNotFound when either artifact is missing and with
// ErrCorrupted when the artifacts fail validation or do not belong together.
// Options shaping the fitted state are ignored; runtime options apply.
func Load(ctx context.Context, store blobstore.BlobStore, prefix string, optFns ...Option) (_ *Pipeline, err error) {
	p, err := New(optFns...)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	read := 0
	logger := p.opts.logger.WithModel(prefix)
	defer func() {
		p.opts.metricsCollector.RecordLoad(read, time.Since(start), err)
		logger.LogLoad(ctx, prefix, err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var blob, record []byte
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		blob, err = store.Get(egCtx, blobstore.Join(prefix, StateFile))
		return err
	})
	eg.Go(func() (err error) {
		record, err = store.Get(egCtx, blobstore.Join(prefix, MetadataFile))
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, translateError(err)
	}
	read = len(blob) + len(record)

	st, err := openState(p.opts, blob, record)
	if err != nil {
		return nil, translateError(err)
	}
	p.state.Store(st)
	return p, nil
}

func openState(opts options, blob, record []byte) (*fittedState, error) {
	var meta Metadata
	if err := unmarshalMetadata(opts.codec, record, &meta); err != nil {
		return nil, fmt.Errorf("%w: metadata: %w", ErrCorrupted, err)
	}
	if meta.FormatVersion != MetadataFormatVersion {
		return nil, fmt.Errorf("%w: metadata format version %d", ErrCorrupted, meta.FormatVersion)
	}
	if sum := hash.CRC32C(blob); sum != meta.StateCRC32C {
		return nil, fmt.Errorf("%w: state checksum 0x%08x, metadata expects 0x%08x", ErrCorrupted, sum, meta.StateCRC32C)
	}

	header, payload, err := persistence.Open(blob)
	if err != nil {
		return nil, err
	}
	st := &fittedState{}
	if err := st.UnmarshalBinary(payload); err != nil {
		return nil, err
	}

	fp := hash.Fingerprint(st.featureCols)
	if header.Fingerprint != fp || meta.SchemaFingerprint != hash.FingerprintString(st.featureCols) {
		return nil, fmt.Errorf("%w: schema fingerprint mismatch", ErrCorrupted)
	}
	if !st.sameSchema(meta.FeatureCols) {
		return nil, fmt.Errorf("%w: metadata feature columns differ from state", ErrCorrupted)
	}

	st.reloaded = true
	return st, nil
}
