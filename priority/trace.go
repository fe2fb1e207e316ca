package priority

import "log/slog"

// StepKind names a point in the tree walk.
type StepKind string

const (
	StepConsider    StepKind = "considering"
	StepMet         StepKind = "conditions_met"
	StepSelect      StepKind = "executing_behaviour"
	StepTrueBranch  StepKind = "entering_true_branch"
	StepFalseBranch StepKind = "entering_false_branch"
	StepExit        StepKind = "exiting_branch"
)

// Step describes one traced decision. Index is -1 for StepExit.
type Step struct {
	Kind      StepKind `json:"kind"`
	Depth     int      `json:"depth"`
	Index     int      `json:"index"`
	Label     string   `json:"label,omitempty"`
	Behaviour string   `json:"behaviour,omitempty"`
}

// Tracer observes tree walks. Tracers must not influence the outcome.
type Tracer interface {
	Step(s Step)
}

// TracerFunc adapts a function to Tracer.
type TracerFunc func(Step)

func (f TracerFunc) Step(s Step) { f(s) }

// SlogTracer logs each step at debug level.
type SlogTracer struct {
	Logger *slog.Logger
}

func (t SlogTracer) Step(s Step) {
	l := t.Logger
	if l == nil {
		l = slog.Default()
	}
	l.Debug("priority walk",
		"step", s.Kind,
		"depth", s.Depth,
		"index", s.Index,
		"label", s.Label,
		"behaviour", s.Behaviour,
	)
}

// Tee fans a step out to several tracers, skipping nils.
func Tee(tracers ...Tracer) Tracer {
	var live []Tracer
	for _, t := range tracers {
		if t != nil {
			live = append(live, t)
		}
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	}
	return TracerFunc(func(s Step) {
		for _, t := range live {
			t.Step(s)
		}
	})
}
