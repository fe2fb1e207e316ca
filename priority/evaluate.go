package priority

import (
	"fmt"
	"strconv"
	"strings"
)

// Selection is the result of a successful walk.
type Selection[C any] struct {
	Behaviour *Behaviour[C]
	// Label of the entry that carried the behaviour.
	Label string
	// Path holds the entry index at every depth, outermost first.
	Path []int
	// Reconsider is the entry's timer override; zero when absent.
	Reconsider float64
}

// LeafError wraps a failure raised by a leaf callback during a walk.
type LeafError struct {
	Label string
	Path  []int
	Hook  string // "preconfiguration", "condition", "configuration"
	Err   error
}

func (e *LeafError) Error() string {
	return fmt.Sprintf("priority %q (entry %s): %s: %v", e.Label, FormatPath(e.Path), e.Hook, e.Err)
}

func (e *LeafError) Unwrap() error { return e.Err }

// FormatPath renders an index path as "0.2.1".
func FormatPath(path []int) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ".")
}

// Evaluate walks list depth-first in order and returns the first applicable
// behaviour, or nil when nothing in the list applies. tr may be nil.
//
// Leaf errors stop the walk immediately; hooks that already ran are not
// undone. Panics from leaves are not recovered.
func Evaluate[C any](c C, list []Entry[C], tr Tracer) (*Selection[C], error) {
	w := walker[C]{ctx: c, tr: tr}
	return w.list(list)
}

type walker[C any] struct {
	ctx  C
	tr   Tracer
	path []int
}

func (w *walker[C]) trace(kind StepKind, index int, label, behaviour string) {
	if w.tr == nil {
		return
	}
	// Entry steps run with their own index already pushed.
	depth := len(w.path)
	if kind != StepExit {
		depth--
	}
	w.tr.Step(Step{
		Kind:      kind,
		Depth:     depth,
		Index:     index,
		Label:     label,
		Behaviour: behaviour,
	})
}

func (w *walker[C]) list(entries []Entry[C]) (*Selection[C], error) {
	for i := range entries {
		w.path = append(w.path, i)
		sel, err := w.entry(i, &entries[i])
		w.path = w.path[:len(w.path)-1]
		if err != nil || sel != nil {
			return sel, err
		}
	}
	w.trace(StepExit, -1, "", "")
	return nil, nil
}

func (w *walker[C]) fail(label, hook string, err error) error {
	return &LeafError{Label: label, Path: append([]int(nil), w.path...), Hook: hook, Err: err}
}

func (w *walker[C]) entry(i int, e *Entry[C]) (*Selection[C], error) {
	label := e.Label
	if label == "" {
		label = "entry " + strconv.Itoa(i)
	}
	w.trace(StepConsider, i, label, "")

	if e.Preconfiguration != nil {
		if err := e.Preconfiguration(w.ctx); err != nil {
			return nil, w.fail(label, "preconfiguration", err)
		}
	}

	satisfied := true
	switch {
	case e.NotCondition != nil:
		met, err := e.NotCondition(w.ctx)
		if err != nil {
			return nil, w.fail(label, "condition", err)
		}
		satisfied = !met
	case e.Condition != nil:
		met, err := e.Condition(w.ctx)
		if err != nil {
			return nil, w.fail(label, "condition", err)
		}
		satisfied = met
	}

	if !satisfied {
		if len(e.FalseBranch) == 0 {
			return nil, nil
		}
		w.trace(StepFalseBranch, i, label, "")
		return w.list(e.FalseBranch)
	}

	w.trace(StepMet, i, label, "")
	if e.Configuration != nil {
		if err := e.Configuration(w.ctx); err != nil {
			return nil, w.fail(label, "configuration", err)
		}
	}

	if e.Behaviour != nil {
		w.trace(StepSelect, i, label, e.Behaviour.Name)
		return &Selection[C]{
			Behaviour:  e.Behaviour,
			Label:      label,
			Path:       append([]int(nil), w.path...),
			Reconsider: e.Reconsider,
		}, nil
	}
	if len(e.TrueBranch) > 0 {
		w.trace(StepTrueBranch, i, label, "")
		return w.list(e.TrueBranch)
	}
	return nil, nil
}
