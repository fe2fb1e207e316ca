package model

import (
	"fmt"
	"slices"
	"sort"
)

// ScanClass is the coarse classification a scanner reports for an object.
type ScanClass string

const (
	ClassShip     ScanClass = "ship"
	ClassStation  ScanClass = "station"
	ClassMissile  ScanClass = "missile"
	ClassMine     ScanClass = "mine"
	ClassCargo    ScanClass = "cargo"
	ClassRock     ScanClass = "rock"
	ClassThargoid ScanClass = "thargoid"
)

// Order is the flight order a behaviour leaves the ship executing.
type Order string

const (
	OrderIdle       Order = "idle"
	OrderAttack     Order = "attack"
	OrderFlee       Order = "flee"
	OrderFlyToRange Order = "fly_to_range"
	OrderLand       Order = "land"
	OrderExplode    Order = "explode"
)

// System holds the landmarks of the star system a ship is flying in.
type System struct {
	MainStation  *Ship
	Planet       Vector
	PlanetRadius float64
	Sun          Vector
	SunRadius    float64
}

// Ship is the in-memory reference Entity used by the dispatcher, the
// simulator bridge and the behaviour library.
type Ship struct {
	ID           int
	Name         string
	Class        ScanClass
	PrimaryRole  string
	Position     Vector
	Forward      Vector
	Velocity     Vector
	Energy       float64
	MaxEnergy    float64
	MaxSpeed     float64
	ScannerRange float64
	Bounty       int
	Hyperdrive   bool
	CargoSpace   int
	FuelScoops   bool

	Target         *Ship
	Aggressor      *Ship
	DefenseTargets []*Ship

	Destination  Vector
	DesiredRange float64
	DesiredSpeed float64
	Order        Order

	Group  *Group
	System *System

	// Messages is every communication the ship has sent, oldest first.
	Messages []string

	// OnOrder and OnMessage let a host forward orders and comms to an
	// external simulator. Either may be nil.
	OnOrder   func(s *Ship)
	OnMessage func(s *Ship, text string)

	destroyed bool
	docked    bool
	handlers  map[string]Handler
}

func NewShip(id int, name string, class ScanClass) *Ship {
	return &Ship{
		ID:           id,
		Name:         name,
		Class:        class,
		Energy:       100,
		MaxEnergy:    100,
		MaxSpeed:     300,
		ScannerRange: 25600,
		Order:        OrderIdle,
		handlers:     make(map[string]Handler),
	}
}

func (s *Ship) String() string {
	if s == nil {
		return "<nil ship>"
	}
	return fmt.Sprintf("%s#%d", s.Name, s.ID)
}

func (s *Ship) Valid() bool { return s != nil && !s.destroyed }

func (s *Ship) InSpace() bool { return s.Valid() && !s.docked }

// SetInSpace moves the ship in or out of normal space (launch, dock, jump).
func (s *Ship) SetInSpace(in bool) { s.docked = !in }

// Destroy removes the ship from the world. Handlers stay attached but the
// engine refuses to evaluate for invalid entities.
func (s *Ship) Destroy() { s.destroyed = true }

func (s *Ship) Attach(event string, h Handler) {
	if s.handlers == nil {
		s.handlers = make(map[string]Handler)
	}
	s.handlers[event] = h
}

func (s *Ship) Detach(event string) { delete(s.handlers, event) }

// Bound reports whether a callback is attached for event.
func (s *Ship) Bound(event string) bool {
	_, ok := s.handlers[event]
	return ok
}

// Events lists the attached event names in sorted order.
func (s *Ship) Events() []string {
	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Fire invokes the callback attached for event. Events without a callback
// are dropped and reported with handled=false.
func (s *Ship) Fire(event string, args ...any) (handled bool, err error) {
	h, ok := s.handlers[event]
	if !ok {
		return false, nil
	}
	return true, h(args...)
}

func (s *Ship) Message(text string) {
	s.Messages = append(s.Messages, text)
	if s.OnMessage != nil {
		s.OnMessage(s, text)
	}
}

// Pos is the ship's current position.
func (s *Ship) Pos() Vector { return s.Position }

func (s *Ship) DistanceTo(o *Ship) float64 { return s.Position.DistanceTo(o.Position) }

// HasHostileTarget is true while the ship is attacking its current target.
func (s *Ship) HasHostileTarget() bool {
	return s.Target.Valid() && s.Order == OrderAttack
}

func (s *Ship) AddDefenseTarget(t *Ship) {
	if t == nil || slices.Contains(s.DefenseTargets, t) {
		return
	}
	s.DefenseTargets = append(s.DefenseTargets, t)
}

func (s *Ship) RemoveDefenseTarget(t *Ship) {
	s.DefenseTargets = slices.DeleteFunc(s.DefenseTargets, func(d *Ship) bool { return d == t })
}

func (s *Ship) ClearDefenseTargets() { s.DefenseTargets = nil }

// Perform sets the flight order and notifies the host.
func (s *Ship) Perform(o Order) {
	s.Order = o
	if o == OrderExplode {
		s.destroyed = true
	}
	if s.OnOrder != nil {
		s.OnOrder(s)
	}
}
