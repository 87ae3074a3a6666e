// Package pkg provides the libraries behind ddcharts.
//
// # Overview
//
// ddcharts draws the bar and line charts a host analytics application asks
// for. The host sends a message with a row count, column descriptors and
// row data; ddcharts maps the rows to records, computes a confidence band
// for line charts, builds the scales and renders a chart. The pkg directory
// is organized bottom-up:
//
//  1. [dataset] - Cell values, column descriptors, records and sample tables
//  2. [stats] - The baseline confidence band (mean ± z·σ)
//  3. [scale] - Band, point and linear scales with nice ticks
//  4. [chart/layout] - Chart geometry: axes, bars, lines, shading, legend
//  5. [chart/sink] - Output formats (SVG, PNG, PDF, JSON)
//  6. [message] - Host message decoding, sample requests and fetching
//  7. [pipeline] - One render cycle per message, with caching
//  8. [server] - HTTP and websocket front end over the pipeline
//
// # Architecture
//
// The data flow of one render cycle:
//
//	Host message (JSON)
//	         ↓
//	    [message] package (decode, classify, resolve sample)
//	         ↓
//	    [dataset] package (columns + rows → records)
//	         ↓
//	    [stats] package (band over baseline rows, line charts only)
//	         ↓
//	    [scale] + [chart/layout] packages (geometry)
//	         ↓
//	    [chart/sink] package → SVG/PNG/PDF/JSON output
//
// # Quick Start
//
// Draw the built-in bar sample:
//
//	import (
//	    "github.com/matzehuels/ddcharts/pkg/chart/layout"
//	    "github.com/matzehuels/ddcharts/pkg/chart/sink"
//	    "github.com/matzehuels/ddcharts/pkg/dataset"
//	)
//
//	table := dataset.BarSample()
//	records, _ := table.Records()
//	l, _ := layout.Build(layout.KindBar, layout.Input{
//	    Title:   "Revenue",
//	    Columns: table.Columns,
//	    Records: records,
//	}, layout.Config{})
//	svg := sink.RenderSVG(l)
//
// Or run full cycles, keeping the last good chart across failures:
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	state := pipeline.NewChartState(layout.KindLine)
//	result, err := runner.Cycle(ctx, state, raw, pipeline.Options{})
//
// # Supporting Packages
//
// [cache] - Null, file and Redis backends for layouts and artifacts, keyed
// by a content hash of the payload and every option that changes output.
//
// [config] - The TOML config file: chart geometry, band parameters, server
// address and cache backend.
//
// [errors] - Coded errors shared by every layer, with HTTP status mapping.
//
// [observability] - Hooks for cycle, cache and HTTP events.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
//	go test ./pkg/...         # All tests
//	go test ./pkg/scale/...   # Specific package
//	go test -run Example      # Examples only
//
// [dataset]: https://pkg.go.dev/github.com/matzehuels/ddcharts/pkg/dataset
// [stats]: https://pkg.go.dev/github.com/matzehuels/ddcharts/pkg/stats
// [scale]: https://pkg.go.dev/github.com/matzehuels/ddcharts/pkg/scale
// [chart/layout]: https://pkg.go.dev/github.com/matzehuels/ddcharts/pkg/chart/layout
// [chart/sink]: https://pkg.go.dev/github.com/matzehuels/ddcharts/pkg/chart/sink
// [message]: https://pkg.go.dev/github.com/matzehuels/ddcharts/pkg/message
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/ddcharts/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/ddcharts/pkg/server
// [cache]: https://pkg.go.dev/github.com/matzehuels/ddcharts/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/ddcharts/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/ddcharts/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/ddcharts/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/ddcharts/pkg/buildinfo
package pkg
