package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ddcharts/pkg/cache"
	"github.com/matzehuels/ddcharts/pkg/chart/layout"
	"github.com/matzehuels/ddcharts/pkg/errors"
	"github.com/matzehuels/ddcharts/pkg/message"
	"github.com/matzehuels/ddcharts/pkg/observability"
)

// Runner executes render cycles with caching.
// Both the CLI and the server use it so cycles behave the same everywhere.
//
// The Runner holds no chart state of its own; that lives in the
// [ChartState] passed to each cycle. Multiple goroutines can share one
// Runner as long as each state is used by one goroutine at a time.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the default cache entry lifetime when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Cycle decodes raw and runs one render cycle against state.
// See [Runner.CycleMessage].
func (r *Runner) Cycle(ctx context.Context, state *ChartState, raw []byte, opts Options) (*Result, error) {
	msg, err := message.Decode(raw)
	if stderrors.Is(err, message.ErrIgnored) {
		r.Logger.Debug("message ignored", "kind", state.Kind())
		return nil, err
	}
	if err != nil {
		return r.fail(ctx, state, PhaseReceiving, time.Now(), err)
	}
	return r.CycleMessage(ctx, state, msg, opts)
}

// CycleMessage runs one render cycle for msg against state.
//
// Messages without a usable row count return message.ErrIgnored and leave
// state untouched. Any other failure aborts the cycle: the error is logged
// and returned, and state keeps its previous render. On success the new
// result replaces state.Last.
func (r *Runner) CycleMessage(ctx context.Context, state *ChartState, msg message.Message, opts Options) (*Result, error) {
	if msg.Mode() == message.ModeIgnore {
		r.Logger.Debug("message ignored", "kind", state.Kind())
		return nil, message.ErrIgnored
	}

	start := time.Now()
	kind := state.Kind()
	hooks := observability.Pipeline()
	hooks.OnCycleStart(ctx, string(kind))

	if opts.Kind == "" {
		opts.Kind = kind
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return r.fail(ctx, state, PhaseIdle, start, fmt.Errorf("invalid options: %w", err))
	}
	if opts.Kind != kind {
		err := errors.New(errors.ErrCodeInvalidKind, "options for %s chart used on %s chart", opts.Kind, kind)
		return r.fail(ctx, state, PhaseIdle, start, err)
	}

	msg.ResultName = Title(msg.ResultName)
	result := &Result{
		ResultName: msg.ResultName,
		Kind:       kind,
		Mode:       msg.Mode(),
	}

	// Phase 1: Receiving
	if err := r.enter(ctx, state, PhaseReceiving); err != nil {
		return r.fail(ctx, state, PhaseReceiving, start, err)
	}
	table, err := Receive(msg, kind)
	if err != nil {
		return r.fail(ctx, state, PhaseReceiving, start, err)
	}

	// Phase 2: Normalizing
	if err := r.enter(ctx, state, PhaseNormalizing); err != nil {
		return r.fail(ctx, state, PhaseNormalizing, start, err)
	}
	in, err := Normalize(msg.ResultName, table)
	if err != nil {
		return r.fail(ctx, state, PhaseNormalizing, start, err)
	}
	result.Stats.Rows = len(in.Records)
	result.PayloadHash = PayloadHash(msg.ResultName, table)

	// Phase 3: ComputingBand (line charts only)
	if kind == layout.KindLine {
		if err := r.enter(ctx, state, PhaseComputingBand); err != nil {
			return r.fail(ctx, state, PhaseComputingBand, start, err)
		}
		if in.Band, err = ComputeBand(kind, in, opts); err != nil {
			return r.fail(ctx, state, PhaseComputingBand, start, err)
		}
	}

	// Phase 4: Scaling
	if err := r.enter(ctx, state, PhaseScaling); err != nil {
		return r.fail(ctx, state, PhaseScaling, start, err)
	}
	layoutStart := time.Now()
	l, layoutHit, err := r.GenerateLayoutWithCacheInfo(ctx, kind, in, result.PayloadHash, opts)
	if err != nil {
		return r.fail(ctx, state, PhaseScaling, start, err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	// Phase 5: Drawing
	if err := r.enter(ctx, state, PhaseDrawing); err != nil {
		return r.fail(ctx, state, PhaseDrawing, start, err)
	}
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return r.fail(ctx, state, PhaseDrawing, start, err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit
	result.Stats.Duration = time.Since(start)

	state.complete(result)
	hooks.OnCycleComplete(ctx, string(kind), result.Stats.Rows, result.Stats.Duration, nil)

	r.Logger.Info("rendered chart",
		"kind", kind,
		"mode", result.Mode,
		"rows", result.Stats.Rows,
		"formats", opts.Formats,
		"cached", layoutHit && renderHit,
		"duration", result.Stats.Duration)

	return result, nil
}

// Execute runs one cycle on a fresh state, for one-shot rendering.
func (r *Runner) Execute(ctx context.Context, msg message.Message, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if opts.Kind == "" {
		return nil, errors.New(errors.ErrCodeInvalidKind, "chart kind is required")
	}
	return r.CycleMessage(ctx, NewChartState(opts.Kind), msg, opts)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) enter(ctx context.Context, state *ChartState, p Phase) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	state.phase = p
	observability.Pipeline().OnPhase(ctx, string(state.Kind()), p.String())
	return nil
}

func (r *Runner) fail(ctx context.Context, state *ChartState, p Phase, start time.Time, err error) (*Result, error) {
	err = fmt.Errorf("%s: %w", p, err)
	state.abort(err)
	d := time.Since(start)
	observability.Pipeline().OnCycleComplete(ctx, string(state.Kind()), 0, d, err)

	fields := []any{"kind", state.Kind(), "phase", p, "err", err}
	if code := errors.GetCode(err); code != "" {
		fields = append(fields, "code", code)
	}
	// A bad payload only costs this cycle; anything else needs attention.
	if errors.Recoverable(err) {
		r.Logger.Warn("cycle aborted", fields...)
	} else {
		r.Logger.Error("cycle aborted", fields...)
	}
	return nil, err
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}
