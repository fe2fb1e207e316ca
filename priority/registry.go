package priority

import (
	"log/slog"
	"sort"
)

// Registry maps names to leaf callbacks so trees can be described as data.
// Registering a name twice replaces the earlier callback; the replacement is
// logged because two differently behaving leaves under one name is almost
// always an authoring mistake.
type Registry[C any] struct {
	conditions map[string]Condition[C]
	actions    map[string]Action[C]
	behaviours map[string]*Behaviour[C]
}

func NewRegistry[C any]() *Registry[C] {
	return &Registry[C]{
		conditions: make(map[string]Condition[C]),
		actions:    make(map[string]Action[C]),
		behaviours: make(map[string]*Behaviour[C]),
	}
}

func (r *Registry[C]) AddCondition(name string, c Condition[C]) {
	if _, ok := r.conditions[name]; ok {
		slog.Warn("condition shadowed", "name", name)
	}
	r.conditions[name] = c
}

func (r *Registry[C]) AddAction(name string, a Action[C]) {
	if _, ok := r.actions[name]; ok {
		slog.Warn("configuration shadowed", "name", name)
	}
	r.actions[name] = a
}

// AddBehaviour registers b under b.Name.
func (r *Registry[C]) AddBehaviour(b *Behaviour[C]) {
	if _, ok := r.behaviours[b.Name]; ok {
		slog.Warn("behaviour shadowed", "name", b.Name)
	}
	r.behaviours[b.Name] = b
}

func (r *Registry[C]) Condition(name string) (Condition[C], bool) {
	c, ok := r.conditions[name]
	return c, ok
}

func (r *Registry[C]) Action(name string) (Action[C], bool) {
	a, ok := r.actions[name]
	return a, ok
}

func (r *Registry[C]) Behaviour(name string) (*Behaviour[C], bool) {
	b, ok := r.behaviours[name]
	return b, ok
}

// Names lists registered names of each kind, sorted.
func (r *Registry[C]) Names() (conditions, actions, behaviours []string) {
	return sortedKeys(r.conditions), sortedKeys(r.actions), sortedKeys(r.behaviours)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
