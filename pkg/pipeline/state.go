package pipeline

import "github.com/matzehuels/ddcharts/pkg/chart/layout"

// Phase is a step of the render cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseReceiving
	PhaseNormalizing
	PhaseComputingBand
	PhaseScaling
	PhaseDrawing
)

var phaseNames = [...]string{
	PhaseIdle:          "idle",
	PhaseReceiving:     "receiving",
	PhaseNormalizing:   "normalizing",
	PhaseComputingBand: "computing_band",
	PhaseScaling:       "scaling",
	PhaseDrawing:       "drawing",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// ChartState is the render state of one chart between messages. It is not
// safe for concurrent use; callers serialize cycles per state.
type ChartState struct {
	kind  layout.Kind
	phase Phase
	last  *Result

	cycles   int
	failures int
	lastErr  error
}

// NewChartState returns an idle state with nothing rendered.
func NewChartState(kind layout.Kind) *ChartState {
	return &ChartState{kind: kind}
}

// Kind returns the chart kind the state draws.
func (s *ChartState) Kind() layout.Kind { return s.kind }

// Phase returns the phase of the running cycle, or PhaseIdle between cycles.
func (s *ChartState) Phase() Phase { return s.phase }

// Last returns the last successful render, or nil.
func (s *ChartState) Last() *Result { return s.last }

// Cycles returns the number of completed cycles.
func (s *ChartState) Cycles() int { return s.cycles }

// Failures returns the number of aborted cycles.
func (s *ChartState) Failures() int { return s.failures }

// LastError returns the error of the most recent aborted cycle.
func (s *ChartState) LastError() error { return s.lastErr }

func (s *ChartState) complete(r *Result) {
	s.last = r
	s.cycles++
	s.phase = PhaseIdle
}

func (s *ChartState) abort(err error) {
	s.failures++
	s.lastErr = err
	s.phase = PhaseIdle
}
