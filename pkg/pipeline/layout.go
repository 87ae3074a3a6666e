package pipeline

import (
	"context"

	"github.com/matzehuels/ddcharts/pkg/cache"
	"github.com/matzehuels/ddcharts/pkg/chart/layout"
	"github.com/matzehuels/ddcharts/pkg/chart/sink"
	"github.com/matzehuels/ddcharts/pkg/observability"
	"github.com/matzehuels/ddcharts/pkg/stats"
)

// ComputeBand returns the confidence band for line chart input. Other kinds
// have no band and return nil.
func ComputeBand(kind layout.Kind, in layout.Input, opts Options) (*stats.Band, error) {
	if kind != layout.KindLine {
		return nil, nil
	}
	band, err := layout.LineBand(in, opts.LayoutConfig())
	if err != nil {
		return nil, err
	}
	return &band, nil
}

// GenerateLayout builds the layout for in without caching.
func GenerateLayout(kind layout.Kind, in layout.Input, opts Options) (layout.Layout, error) {
	return layout.Build(kind, in, opts.LayoutConfig())
}

// GenerateLayoutWithCacheInfo builds the layout through the cache and
// reports whether it was a hit. An empty payloadHash disables caching.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, kind layout.Kind, in layout.Input, payloadHash string, opts Options) (layout.Layout, bool, error) {
	if payloadHash == "" {
		l, err := GenerateLayout(kind, in, opts)
		return l, false, err
	}

	hooks := observability.Cache()
	cacheKey := r.Keyer.LayoutKey(payloadHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := sink.ReadJSON(data); err == nil {
				hooks.OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
			// Unreadable entry, recompute and overwrite.
		}
		hooks.OnCacheMiss(ctx, "layout")
	}

	l, err := GenerateLayout(kind, in, opts)
	if err != nil {
		return layout.Layout{}, false, err
	}

	if data, err := sink.RenderJSON(l, sink.WithJSONCompact()); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLLayout)); err == nil {
			hooks.OnCacheSet(ctx, "layout", len(data))
		} else {
			opts.Logger.Warn("cache write failed", "type", "layout", "err", err)
		}
	}
	return l, false, nil
}
