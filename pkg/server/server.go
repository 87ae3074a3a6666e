// Package server exposes chart rendering over HTTP.
//
// Routes:
//
//	GET  /healthz                  liveness and build version
//	POST /charts/{kind}/messages   run one render cycle for a host message
//	GET  /charts/{kind}            last good render (?format=svg|png|pdf|json)
//	GET  /charts/{kind}/ws         websocket session with its own chart state
//
// Each chart kind has one shared [pipeline.ChartState]; cycles against it
// are serialized by a mutex. Websocket sessions draw into private states
// and never touch the shared charts.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/ddcharts/pkg/chart/layout"
	"github.com/matzehuels/ddcharts/pkg/pipeline"
)

// MaxMessageSize bounds inbound message bodies and websocket frames.
const MaxMessageSize = 10 << 20

// shutdownTimeout bounds graceful shutdown in ListenAndServe.
const shutdownTimeout = 5 * time.Second

// Server routes HTTP and websocket requests to render cycles.
type Server struct {
	runner *pipeline.Runner
	base   pipeline.Options
	logger *log.Logger

	charts   map[layout.Kind]*chart
	upgrader websocket.Upgrader
	router   chi.Router
}

// chart is a shared chart state and the lock serializing its cycles.
type chart struct {
	mu    sync.Mutex
	state *pipeline.ChartState
}

// New creates a server. base supplies the drawing options of every cycle;
// its Kind is ignored and its Formats are the defaults when a request names
// none.
func New(runner *pipeline.Runner, base pipeline.Options, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Default()
	}
	base.Kind = ""
	check := base
	if err := check.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	s := &Server{
		runner: runner,
		base:   base,
		logger: logger,
		charts: make(map[layout.Kind]*chart, len(layout.Kinds)),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	for _, k := range layout.Kinds {
		s.charts[k] = &chart{state: pipeline.NewChartState(k)}
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/charts/{kind}", s.handleGetChart)
	r.Post("/charts/{kind}/messages", s.handlePostMessage)
	r.Get("/charts/{kind}/ws", s.handleWebsocket)
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// requestLogger logs one line per request at debug level, or at warn
// level for 5xx responses.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			fields := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			}
			if ww.Status() >= http.StatusInternalServerError {
				logger.Warn("request", fields...)
				return
			}
			logger.Debug("request", fields...)
		})
	}
}
