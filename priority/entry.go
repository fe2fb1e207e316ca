// Package priority implements prioritised decision lists: ordered entries with
// optional (possibly inverted) conditions, configuration hooks, nested true and
// false branches, and terminal behaviours. The first satisfied behaviour found
// by a depth-first, in-order walk wins.
//
// Every type is generic over the context C handed to leaf callbacks, which
// keeps this package free of any knowledge about agents or the world model.
package priority

// Condition gates an entry. A returned error aborts the walk.
type Condition[C any] func(c C) (bool, error)

// Action is a side-effecting configuration hook.
type Action[C any] func(c C) error

// Behaviour is a terminal, long-running routine. Handlers names the handler
// set the host installs before Run is called; empty leaves the current set.
type Behaviour[C any] struct {
	Name     string
	Handlers string
	Run      func(c C) error
}

// Entry is one node of a priority list.
//
// An entry without a behaviour or branches is a fall-through marker that
// exists only for its configuration side effects.
type Entry[C any] struct {
	Label string

	// NotCondition takes precedence over Condition when both are set.
	Condition    Condition[C]
	NotCondition Condition[C]

	// Preconfiguration runs on every visit, before the condition.
	Preconfiguration Action[C]
	// Configuration runs only when the entry is satisfied.
	Configuration Action[C]

	Behaviour *Behaviour[C]
	// Reconsider, when positive, replaces the reconsideration timer for the
	// selected behaviour. Zero leaves the timer alone.
	Reconsider float64

	TrueBranch  []Entry[C]
	FalseBranch []Entry[C]
}

// unconditional reports whether the entry is always satisfied.
func (e Entry[C]) unconditional() bool {
	return e.Condition == nil && e.NotCondition == nil
}

// When adapts an infallible predicate.
func When[C any](f func(C) bool) Condition[C] {
	return func(c C) (bool, error) { return f(c), nil }
}

// Do adapts an infallible configuration hook.
func Do[C any](f func(C)) Action[C] {
	return func(c C) error {
		f(c)
		return nil
	}
}

// NewBehaviour builds a behaviour that installs the handler set handlers.
func NewBehaviour[C any](name, handlers string, run func(C) error) *Behaviour[C] {
	return &Behaviour[C]{Name: name, Handlers: handlers, Run: run}
}
