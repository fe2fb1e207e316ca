// Package dispatch hosts agents: it owns the simulation clock, delivers
// world events to ships, and wakes agents whose reconsideration is due.
// All agent work happens on the goroutine that calls Step; other
// goroutines hand work over with Post.
package dispatch

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/nstehr/helm/agent"
	"github.com/nstehr/helm/model"
	"github.com/nstehr/helm/priority"
)

// Spawner builds the agent that drives a newly added ship. The world
// installs its current tree on the returned agent.
type Spawner func(w *World, s *model.Ship) (*agent.Agent, error)

// World is a set of ships and the agents flying them.
type World struct {
	clock *model.SimClock
	spawn Spawner
	log   *slog.Logger

	mu     sync.Mutex
	posted []func(*World)

	ships  map[int]*model.Ship
	agents map[int]*agent.Agent
	groups map[string]*model.Group
	system *model.System
	tree   []priority.Entry[*agent.Agent]
	detect *Detector

	// Physics, when set, moves ships between the clock advance and event
	// detection.
	Physics func(s *model.Ship, dt float64)
}

func NewWorld(clock *model.SimClock, spawn Spawner) *World {
	return &World{
		clock:  clock,
		spawn:  spawn,
		log:    slog.Default(),
		ships:  make(map[int]*model.Ship),
		agents: make(map[int]*agent.Agent),
		groups: make(map[string]*model.Group),
		detect: NewDetector(),
	}
}

func (w *World) Clock() *model.SimClock { return w.clock }

// Post queues fn to run on the stepping goroutine at the start of the next
// step. Safe for concurrent use.
func (w *World) Post(fn func(*World)) {
	w.mu.Lock()
	w.posted = append(w.posted, fn)
	w.mu.Unlock()
}

// SetSystem places every current and future ship in sys.
func (w *World) SetSystem(sys *model.System) {
	w.system = sys
	for _, s := range w.ships {
		s.System = sys
	}
}

func (w *World) System() *model.System { return w.system }

// SetTree installs tree on every agent and on agents spawned later.
func (w *World) SetTree(tree []priority.Entry[*agent.Agent]) {
	w.tree = tree
	for _, a := range w.Agents() {
		a.SetPriorityTree(tree)
	}
}

// Add registers s and spawns its agent.
func (w *World) Add(s *model.Ship) (*agent.Agent, error) {
	if _, ok := w.ships[s.ID]; ok {
		return nil, fmt.Errorf("ship %d already in world", s.ID)
	}
	if w.system != nil && s.System == nil {
		s.System = w.system
	}
	w.ships[s.ID] = s
	if w.spawn == nil {
		return nil, nil
	}
	a, err := w.spawn(w, s)
	if err != nil {
		delete(w.ships, s.ID)
		return nil, fmt.Errorf("spawn agent for %s: %w", s, err)
	}
	w.agents[s.ID] = a
	if w.tree != nil {
		a.SetPriorityTree(w.tree)
	}
	return a, nil
}

// Remove drops a ship and its agent. The ship leaves its group.
func (w *World) Remove(id int) {
	s, ok := w.ships[id]
	if !ok {
		return
	}
	if s.Group != nil {
		s.Group.Remove(s)
	}
	delete(w.ships, id)
	delete(w.agents, id)
}

func (w *World) Ship(id int) (*model.Ship, bool) {
	s, ok := w.ships[id]
	return s, ok
}

// Agent returns the agent flying ship id.
func (w *World) Agent(id int) (*agent.Agent, bool) {
	a, ok := w.agents[id]
	return a, ok
}

// Ships returns every ship in ship ID order.
func (w *World) Ships() []*model.Ship {
	ids := slices.Sorted(maps.Keys(w.ships))
	out := make([]*model.Ship, len(ids))
	for i, id := range ids {
		out[i] = w.ships[id]
	}
	return out
}

// Agents returns every agent in ship ID order.
func (w *World) Agents() []*agent.Agent {
	ids := slices.Sorted(maps.Keys(w.agents))
	out := make([]*agent.Agent, len(ids))
	for i, id := range ids {
		out[i] = w.agents[id]
	}
	return out
}

// Group returns the named group, creating it on first use.
func (w *World) Group(name string) *model.Group {
	g, ok := w.groups[name]
	if !ok {
		g = model.NewGroup(name)
		w.groups[name] = g
	}
	return g
}

// Fire delivers a named event to s. Events nobody listens for are dropped.
// A failing handler is logged and does not affect other ships.
func (w *World) Fire(s *model.Ship, event string, args ...any) {
	handled, err := s.Fire(event, args...)
	if !handled {
		w.log.Debug("event dropped", "event", event, "ship", s.String())
		return
	}
	if err != nil {
		attrs := []any{"event", event, "ship", s.String(), "error", err}
		if a, ok := w.agents[s.ID]; ok {
			attrs = append(attrs, "agent", a.ID)
		}
		var leaf *priority.LeafError
		if errors.As(err, &leaf) {
			attrs = append(attrs, "entry", priority.FormatPath(leaf.Path))
		}
		w.log.Error("event handler failed", attrs...)
	}
}

// Step runs one full tick: advance the clock by dt, run posted work, wake
// due agents, move ships, fire detected events and drop destroyed ships.
// Agents are woken before events are delivered, so an evaluation an event
// handler schedules runs in a later step.
func (w *World) Step(dt float64) {
	now := w.Advance(dt)
	w.Drain()
	w.WakeDue(now)
	w.Move(dt)
	w.FireDetected()
	w.Prune()
}

// Advance moves the clock forward and returns the new time.
func (w *World) Advance(dt float64) float64 { return w.clock.Advance(dt) }

// Drain runs work queued with Post, in order.
func (w *World) Drain() int {
	w.mu.Lock()
	work := w.posted
	w.posted = nil
	w.mu.Unlock()
	for _, fn := range work {
		fn(w)
	}
	return len(work)
}

// Move applies Physics to every live ship.
func (w *World) Move(dt float64) {
	if w.Physics == nil || dt <= 0 {
		return
	}
	for _, s := range w.Ships() {
		if s.InSpace() {
			w.Physics(s, dt)
		}
	}
}

// FireDetected fires events derived from ship state changes since the last
// call.
func (w *World) FireDetected() int {
	events := w.detect.Observe(w.Ships())
	for _, ev := range events {
		w.Fire(ev.Ship, ev.Name, ev.Args...)
	}
	return len(events)
}

// WakeDue fires the wake event for every agent whose reconsideration time
// has come. Each agent evaluates at most once per call.
func (w *World) WakeDue(now float64) int {
	woken := 0
	for _, a := range w.Agents() {
		if !a.Wake(now) {
			continue
		}
		s, ok := a.Entity().(*model.Ship)
		if !ok {
			continue
		}
		woken++
		w.Fire(s, agent.EventAwoken)
	}
	return woken
}

// Prune removes destroyed ships and their agents.
func (w *World) Prune() int {
	var dead []int
	for id, s := range w.ships {
		if !s.Valid() {
			dead = append(dead, id)
		}
	}
	for _, id := range dead {
		w.Remove(id)
	}
	return len(dead)
}
