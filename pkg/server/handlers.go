package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/ddcharts/pkg/buildinfo"
	"github.com/matzehuels/ddcharts/pkg/chart/layout"
	"github.com/matzehuels/ddcharts/pkg/chart/sink"
	"github.com/matzehuels/ddcharts/pkg/errors"
	"github.com/matzehuels/ddcharts/pkg/message"
	"github.com/matzehuels/ddcharts/pkg/pipeline"
)

// cycleResponse summarizes a completed render cycle.
type cycleResponse struct {
	Kind        layout.Kind   `json:"kind"`
	ResultName  string        `json:"result_name,omitempty"`
	Mode        string        `json:"mode"`
	Rows        int           `json:"rows"`
	PayloadHash string        `json:"payload_hash,omitempty"`
	Formats     []sink.Format `json:"formats"`
	Cached      bool          `json:"cached"`
	DurationMS  float64       `json:"duration_ms"`
}

func newCycleResponse(res *pipeline.Result) cycleResponse {
	formats := make([]sink.Format, 0, len(res.Artifacts))
	for _, f := range sink.Formats {
		if _, ok := res.Artifacts[f]; ok {
			formats = append(formats, f)
		}
	}
	return cycleResponse{
		Kind:        res.Kind,
		ResultName:  res.ResultName,
		Mode:        res.Mode.String(),
		Rows:        res.Stats.Rows,
		PayloadHash: res.PayloadHash,
		Formats:     formats,
		Cached:      res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit,
		DurationMS:  float64(res.Stats.Duration.Microseconds()) / 1000,
	}
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	c, kind, err := s.chartFor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts, err := s.options(kind, r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxMessageSize))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read message"))
		return
	}

	c.mu.Lock()
	res, err := s.runner.Cycle(r.Context(), c.state, body, opts)
	c.mu.Unlock()

	switch {
	case stderrors.Is(err, message.ErrIgnored):
		w.WriteHeader(http.StatusNoContent)
	case err != nil:
		writeError(w, err)
	default:
		writeJSON(w, http.StatusOK, newCycleResponse(res))
	}
}

func (s *Server) handleGetChart(w http.ResponseWriter, r *http.Request) {
	c, kind, err := s.chartFor(r)
	if err != nil {
		writeError(w, err)
		return
	}
	f := sink.FormatSVG
	if q := r.URL.Query().Get("format"); q != "" {
		if f, err = sink.ParseFormat(q); err != nil {
			writeError(w, err)
			return
		}
	}

	c.mu.Lock()
	last := c.state.Last()
	c.mu.Unlock()
	if last == nil {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no %s chart rendered yet", kind))
		return
	}

	// Results are immutable once stored; formats the cycle did not
	// produce are drawn from the stored layout.
	data, ok := last.Artifact(f)
	if !ok {
		if data, err = sink.Render(last.Layout, f); err != nil {
			writeError(w, err)
			return
		}
	}

	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("X-Payload-Hash", last.PayloadHash)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// chartFor resolves the {kind} URL parameter to its shared chart.
func (s *Server) chartFor(r *http.Request) (*chart, layout.Kind, error) {
	kind, err := layout.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		return nil, "", err
	}
	c, ok := s.charts[kind]
	if !ok {
		return nil, "", errors.New(errors.ErrCodeNotFound, "no chart %q", kind)
	}
	return c, kind, nil
}

// options returns the base options for kind with formats taken from a
// comma-separated list, if any.
func (s *Server) options(kind layout.Kind, formats string) (pipeline.Options, error) {
	opts := s.base
	opts.Kind = kind
	opts.Formats = nil
	if formats == "" {
		opts.Formats = append(opts.Formats, s.base.Formats...)
		return opts, nil
	}
	for _, part := range strings.Split(formats, ",") {
		f, err := sink.ParseFormat(part)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Formats = append(opts.Formats, f)
	}
	return opts, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errors.HTTPStatus(err), map[string]errorBody{
		"error": newErrorBody(err),
	})
}

// newErrorBody reports the code separately, so the message drops it along
// with the cycle phase prefix.
func newErrorBody(err error) errorBody {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return errorBody{Code: code, Message: errors.UserMessage(err)}
}
