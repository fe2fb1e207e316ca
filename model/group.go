package model

import (
	"errors"
	"slices"

	"github.com/google/uuid"
)

// ErrNotLeader is returned when a non-leader tries to change group state.
var ErrNotLeader = errors.New("group: caller is not the leader")

// Group gives ships a persistent shared identity. The leader owns every
// mutable group field; members hold a pointer to the group and may only read.
type Group struct {
	ID   string
	Name string

	members []*Ship
	leader  *Ship

	cargoDemanded int
	cargoMet      bool
	// cargoEpoch counts forgotten demands. Members stamp their dumped-cargo
	// tally with it, so a tally from an earlier demand is recognisably stale.
	cargoEpoch int
}

func NewGroup(name string) *Group {
	return &Group{ID: uuid.NewString(), Name: name}
}

// Add makes s a member and points s.Group at g.
func (g *Group) Add(s *Ship) {
	if !slices.Contains(g.members, s) {
		g.members = append(g.members, s)
	}
	s.Group = g
}

// Remove drops s from the roster. A removed leader leaves the group leaderless.
func (g *Group) Remove(s *Ship) {
	g.members = slices.DeleteFunc(g.members, func(m *Ship) bool { return m == s })
	if g.leader == s {
		g.leader = nil
	}
	if s.Group == g {
		s.Group = nil
	}
}

// Members returns the members that are still valid. The roster itself only
// changes through Add and Remove.
func (g *Group) Members() []*Ship {
	live := make([]*Ship, 0, len(g.members))
	for _, m := range g.members {
		if m.Valid() {
			live = append(live, m)
		}
	}
	return live
}

// Leader returns the leader, or nil when there is none or it was destroyed.
func (g *Group) Leader() *Ship {
	if !g.leader.Valid() {
		return nil
	}
	return g.leader
}

// Appoint designates s as leader. s must already be a member.
func (g *Group) Appoint(s *Ship) error {
	if !slices.Contains(g.members, s) {
		return errors.New("group: leader must be a member")
	}
	g.leader = s
	return nil
}

// IsLeader reports whether s currently leads g.
func (g *Group) IsLeader(s *Ship) bool { return g != nil && s != nil && g.Leader() == s }

// CargoDemand is the outstanding cargo demand and whether it has been met.
func (g *Group) CargoDemand() (demanded int, met bool) {
	return g.cargoDemanded, g.cargoMet
}

// DemandCargo records a new demand on behalf of the group.
func (g *Group) DemandCargo(by *Ship, amount int) error {
	if !g.IsLeader(by) {
		return ErrNotLeader
	}
	g.cargoDemanded = amount
	g.cargoMet = false
	return nil
}

func (g *Group) MarkCargoMet(by *Ship) error {
	if !g.IsLeader(by) {
		return ErrNotLeader
	}
	g.cargoMet = true
	return nil
}

// ForgetCargoDemand clears the demand and starts a new cargo epoch, which
// invalidates every member's dumped-cargo tally.
func (g *Group) ForgetCargoDemand(by *Ship) error {
	if !g.IsLeader(by) {
		return ErrNotLeader
	}
	g.cargoDemanded = 0
	g.cargoMet = false
	g.cargoEpoch++
	return nil
}

// CargoEpoch identifies the current demand cycle.
func (g *Group) CargoEpoch() int { return g.cargoEpoch }
