package agent

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/nstehr/helm/model"
	"github.com/nstehr/helm/priority"
)

// Agent owns the decision-making for a single controlled entity: its
// parameters, communications, the handler set currently attached to the
// entity, the priority tree in effect and the reconsideration timer.
//
// An Agent is not safe for concurrent use. All calls are expected on the
// goroutine that dispatches clock ticks and world events.
type Agent struct {
	ID string

	entity model.Entity
	clock  model.Clock
	log    *slog.Logger
	tracer priority.Tracer

	tree      []priority.Entry[*Agent]
	behaviour string

	params map[string]any
	comms  map[string]string
	format Formatter

	sets   map[string]HandlerSetBuilder
	active []string

	wake      float64
	waypoints WaypointGenerator
}

type Option func(*Agent)

func WithID(id string) Option { return func(a *Agent) { a.ID = id } }

func WithLogger(l *slog.Logger) Option { return func(a *Agent) { a.log = l } }

// WithTracer attaches a tracer that sees every tree walk, independent of the
// behaviour logging flag.
func WithTracer(t priority.Tracer) Option { return func(a *Agent) { a.tracer = t } }

func WithFormatter(f Formatter) Option { return func(a *Agent) { a.format = f } }

// WithHandlerSets adds named handler-set builders on top of HandlerSets.
func WithHandlerSets(sets map[string]HandlerSetBuilder) Option {
	return func(a *Agent) {
		for name, b := range sets {
			a.sets[name] = b
		}
	}
}

// New attaches a fresh agent to e. The agent does nothing until a priority
// tree is installed.
func New(e model.Entity, clock model.Clock, opts ...Option) *Agent {
	a := &Agent{
		ID:     uuid.NewString(),
		entity: e,
		clock:  clock,
		log:    slog.Default(),
		params: make(map[string]any),
		comms:  make(map[string]string),
		format: TemplateFormatter,
		sets:   make(map[string]HandlerSetBuilder),
		wake:   never,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With("agent", a.ID, "ship", e.String())
	return a
}

func (a *Agent) Entity() model.Entity { return a.entity }

func (a *Agent) Logger() *slog.Logger { return a.log }

// Now is the current simulation time.
func (a *Agent) Now() float64 { return a.clock.Now() }

// Behaviour is the name of the most recently selected behaviour, or "" if
// no evaluation has succeeded yet.
func (a *Agent) Behaviour() string { return a.behaviour }

// SetPriorityTree replaces the tree wholesale. Only the wake handler stays
// attached until the next evaluation picks a behaviour, which is requested
// immediately.
func (a *Agent) SetPriorityTree(tree []priority.Entry[*Agent]) {
	a.tree = tree
	a.InstallHandlers(nil)
	a.RequestEvaluationSoon()
	a.log.Debug("priority tree set", "entries", priority.Count(tree))
}

func (a *Agent) PriorityTree() []priority.Entry[*Agent] { return a.tree }
