package agent

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nstehr/helm/model"
)

// EventAwoken is fired by the dispatcher when the agent's wake time is due.
// Every installed set carries it, bound to reconsideration.
const EventAwoken = "aiAwoken"

// ErrUnknownHandlerSet is returned when a behaviour names a handler set that
// no builder is registered for.
var ErrUnknownHandlerSet = errors.New("agent: unknown handler set")

// HandlerSet maps event names to callbacks already bound to an agent.
type HandlerSet map[string]model.Handler

// HandlerSetBuilder produces the handler set for one agent.
type HandlerSetBuilder func(a *Agent) HandlerSet

// HandlerSets is the table of builders every agent can use. Agents built
// with WithHandlerSets see their own entries first.
var HandlerSets = map[string]HandlerSetBuilder{
	"none": func(*Agent) HandlerSet { return nil },
}

// InstallHandlers swaps the entity's callbacks for set. Every previously
// installed event is detached first, so names missing from set end up
// unbound.
func (a *Agent) InstallHandlers(set HandlerSet) {
	for _, name := range a.active {
		a.entity.Detach(name)
	}

	bound := make(HandlerSet, len(set)+1)
	for name, h := range set {
		if h != nil {
			bound[name] = h
		}
	}
	bound[EventAwoken] = func(...any) error { return a.reconsider() }

	a.active = a.active[:0]
	for name, h := range bound {
		a.entity.Attach(name, h)
		a.active = append(a.active, name)
	}
	sort.Strings(a.active)
}

// InstallHandlerSet builds the named set and installs it.
func (a *Agent) InstallHandlerSet(id string) error {
	build, ok := a.sets[id]
	if !ok {
		build, ok = HandlerSets[id]
	}
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownHandlerSet, id)
	}
	a.InstallHandlers(build(a))
	return nil
}

// ActiveHandlers lists the installed event names in sorted order.
func (a *Agent) ActiveHandlers() []string {
	return append([]string(nil), a.active...)
}
