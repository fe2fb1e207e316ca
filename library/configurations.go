package library

import (
	"github.com/nstehr/helm/agent"
	"github.com/nstehr/helm/model"
	"github.com/nstehr/helm/priority"
)

func (l *Library) configurations() map[string]priority.Action[*agent.Agent] {
	return map[string]priority.Action[*agent.Agent]{
		"checkScanner":             l.checkScanner,
		"acquireCombatTarget":      acquireCombatTarget,
		"acquireScannedTarget":     acquireScannedTarget,
		"setWaypoint":              l.setWaypoint,
		"setDestinationToWaypoint": l.setDestinationToWaypoint,
		"appointGroupLeader":       appointGroupLeader,
		"demandCargo":              demandCargo,
		"forgetCargoDemand":        forgetCargoDemand,
	}
}

func (l *Library) checkScanner(a *agent.Agent) error {
	s, err := shipOf(a)
	if err != nil {
		return err
	}
	a.SetParameter(agent.KeyScanResults, l.Scan(s))
	a.SetParameter(agent.KeyScanResultSpecific, nil)
	return nil
}

// acquireCombatTarget keeps a live non-allied target, or else takes one from
// the defense targets or from a fighting group mate. When any defense target
// is in range the first one on the list is taken, in range or not.
func acquireCombatTarget(a *agent.Agent) error {
	s, err := shipOf(a)
	if err != nil {
		return err
	}
	if s.Target != nil && Allied(s, s.Target) {
		s.RemoveDefenseTarget(s.Target)
		s.Target = nil
	}
	if s.Target != nil && s.Target.Class == model.ClassCargo {
		s.Target = nil
	}
	if s.Target.InSpace() {
		return nil
	}
	if anyWithin(s.DefenseTargets, s.Position, s.ScannerRange) {
		s.Target = s.DefenseTargets[0]
		return nil
	}
	if s.Group != nil {
		for _, m := range s.Group.Members() {
			if m == s || !IsFighting(m) {
				continue
			}
			if m.Target.Position.Within(s.Position, s.ScannerRange) {
				s.Target = m.Target
				return nil
			}
		}
	}
	return nil
}

func acquireScannedTarget(a *agent.Agent) error {
	s, err := shipOf(a)
	if err != nil {
		return err
	}
	s.Target, _ = a.Parameter(agent.KeyScanResultSpecific).(*model.Ship)
	return nil
}

func (l *Library) setWaypoint(a *agent.Agent) error {
	gen := a.WaypointGenerator()
	if gen == nil {
		return nil
	}
	if err := gen(a); err != nil {
		return err
	}
	return l.setDestinationToWaypoint(a)
}

func (l *Library) setDestinationToWaypoint(a *agent.Agent) error {
	s, err := shipOf(a)
	if err != nil {
		return err
	}
	wp, ok := a.Parameter(KeyWaypoint).(model.Vector)
	if !ok {
		return nil
	}
	s.Destination = wp
	s.DesiredRange, _ = a.Number(KeyWaypointRange)
	s.DesiredSpeed = l.cruiseSpeed(s)
	return nil
}

// appointGroupLeader gives a leaderless group a leader, preferring the first
// member with a hyperdrive.
func appointGroupLeader(a *agent.Agent) error {
	s, err := shipOf(a)
	if err != nil {
		return err
	}
	g := s.Group
	if g == nil || g.Leader() != nil {
		return nil
	}
	members := g.Members()
	if len(members) == 0 {
		return nil
	}
	leader := members[0]
	for _, m := range members {
		if m.Hyperdrive {
			leader = m
			break
		}
	}
	if err := g.Appoint(leader); err != nil {
		return err
	}
	if role, ok := a.Parameter(KeyLeaderRole).(string); ok {
		leader.PrimaryRole = role
	}
	a.Logger().Debug("group leader appointed", "group", g.ID, "leader", leader.String())
	return nil
}

// demandCargo records the amount in KeyCargoDemand as the group's demand.
// Non-leaders leave the group untouched.
func demandCargo(a *agent.Agent) error {
	s, err := shipOf(a)
	if err != nil {
		return err
	}
	amount, _ := a.Number(KeyCargoDemand)
	if s.Group == nil {
		a.SetParameter(KeyCargoDemandMet, nil)
		return nil
	}
	if !s.Group.IsLeader(s) {
		return nil
	}
	return s.Group.DemandCargo(s, int(amount))
}

func forgetCargoDemand(a *agent.Agent) error {
	s, err := shipOf(a)
	if err != nil {
		return err
	}
	a.SetParameter(KeyCargoDropped, nil)
	if s.Group == nil {
		a.SetParameter(KeyCargoDemand, nil)
		a.SetParameter(KeyCargoDemandMet, nil)
		return nil
	}
	if !s.Group.IsLeader(s) {
		return nil
	}
	return s.Group.ForgetCargoDemand(s)
}

// cruiseSpeed is the profile's fraction of top speed, slowed to the slowest
// group mate that is not far slower than this ship.
func (l *Library) cruiseSpeed(s *model.Ship) float64 {
	cruise := s.MaxSpeed * l.Profile.CruiseFraction
	if s.Group == nil {
		return cruise
	}
	for _, m := range s.Group.Members() {
		if m.MaxSpeed >= s.MaxSpeed/4 && m.MaxSpeed < cruise {
			cruise = m.MaxSpeed
		}
	}
	return cruise
}
