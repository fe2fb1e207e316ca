package dispatch

import (
	"sort"

	"github.com/nstehr/helm/library"
	"github.com/nstehr/helm/model"
)

// Event is a named world event for one ship, ready to be fired.
type Event struct {
	Ship *model.Ship
	Name string
	Args []any
}

// snapshot captures the diffable fields of a ship at the end of a step.
// The detector stores one per ship and compares against the next step.
type snapshot struct {
	inSpace bool
	energy  float64

	target      *model.Ship
	targetAlive bool

	// arrived is true while a fly-to-range order has reached its range.
	arrived bool
}

func takeSnapshot(s *model.Ship) snapshot {
	return snapshot{
		inSpace:     s.InSpace(),
		energy:      s.Energy,
		target:      s.Target,
		targetAlive: s.Target.Valid(),
		arrived:     arrived(s),
	}
}

func arrived(s *model.Ship) bool {
	return s.Order == model.OrderFlyToRange && s.Position.Within(s.Destination, s.DesiredRange)
}

// detectEvents compares a ship against its previous snapshot and returns
// the events that became true since. Returns nil if prev is nil (first
// observation).
func detectEvents(s *model.Ship, prev *snapshot) []Event {
	if prev == nil {
		return nil
	}
	var events []Event
	cur := takeSnapshot(s)
	emit := func(name string, args ...any) {
		events = append(events, Event{Ship: s, Name: name, Args: args})
	}

	// 1. left or rejoined normal space
	switch {
	case prev.inSpace && !cur.inSpace && s.Valid():
		emit(library.EventShipExitedSpace)
	case !prev.inSpace && cur.inSpace:
		emit(library.EventShipEnteredSpace)
	}

	// 2. the ship we were targeting is gone
	if prev.target != nil && prev.targetAlive && !prev.target.Valid() {
		emit(library.EventShipTargetDestroyed, prev.target)
	}

	// 3. energy dropped while someone is shooting at us
	if cur.energy < prev.energy && s.Aggressor.Valid() {
		if s.Aggressor.Class == model.ClassMissile {
			emit(library.EventShipAttackedWithMissile, s.Aggressor, s.Aggressor.Aggressor)
		} else {
			emit(library.EventShipBeingAttacked, s.Aggressor)
		}
	}

	// 4. reached the desired range of the current destination
	if !prev.arrived && cur.arrived {
		emit(library.EventShipAchievedDesiredRange)
	}

	return events
}

// Detector turns consecutive observations of a set of ships into events.
type Detector struct {
	prev map[*model.Ship]snapshot
}

func NewDetector() *Detector {
	return &Detector{prev: make(map[*model.Ship]snapshot)}
}

// Observe diffs every ship against its last observation. Ships seen for the
// first time yield no events. Ships absent from ships are forgotten.
func (d *Detector) Observe(ships []*model.Ship) []Event {
	var events []Event
	seen := make(map[*model.Ship]snapshot, len(ships))
	for _, s := range ships {
		if p, ok := d.prev[s]; ok {
			events = append(events, detectEvents(s, &p)...)
		}
		seen[s] = takeSnapshot(s)
	}
	d.prev = seen
	sort.SliceStable(events, func(i, j int) bool { return events[i].Ship.ID < events[j].Ship.ID })
	return events
}
