package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/ddcharts/pkg/cache"
	"github.com/matzehuels/ddcharts/pkg/chart/layout"
	"github.com/matzehuels/ddcharts/pkg/chart/sink"
	"github.com/matzehuels/ddcharts/pkg/observability"
)

// Render draws l in every requested format without caching.
func Render(l layout.Layout, opts Options) (map[sink.Format][]byte, error) {
	artifacts := make(map[sink.Format][]byte, len(opts.Formats))
	for _, f := range opts.Formats {
		var (
			data []byte
			err  error
		)
		if f == sink.FormatPNG {
			data, err = sink.RenderPNG(l, sink.WithPNGScale(opts.PNGScale))
		} else {
			data, err = sink.Render(l, f)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", f, err)
		}
		artifacts[f] = data
	}
	return artifacts, nil
}

// RenderWithCacheInfo draws l through the cache. The hit flag is true only
// when every requested format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l layout.Layout, opts Options) (map[sink.Format][]byte, bool, error) {
	layoutData, err := sink.RenderJSON(l, sink.WithJSONCompact())
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)
	hooks := observability.Cache()

	if !opts.Refresh {
		artifacts := make(map[sink.Format][]byte, len(opts.Formats))
		for _, f := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(f))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[f] = data
		}
		if len(artifacts) == len(opts.Formats) {
			hooks.OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		hooks.OnCacheMiss(ctx, "artifact")
	}

	rendered, err := Render(l, opts)
	if err != nil {
		return nil, false, err
	}

	for _, f := range opts.Formats {
		data := rendered[f]
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(f))
		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLArtifact)); err != nil {
			opts.Logger.Warn("cache write failed", "type", "artifact", "format", f, "err", err)
			continue
		}
		hooks.OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, false, nil
}
