package library

import (
	"github.com/nstehr/helm/agent"
	"github.com/nstehr/helm/model"
	"github.com/nstehr/helm/priority"
)

func (l *Library) conditions() map[string]priority.Condition[*agent.Agent] {
	return map[string]priority.Condition[*agent.Agent]{
		"inCombat":                    l.inCombat,
		"losingCombat":                l.losingCombat,
		"energyLow":                   l.energyLow,
		"hasTarget":                   hasTarget,
		"hasWaypoint":                 hasWaypoint,
		"nearDestination":             nearDestination,
		"scannerContainsHostiles":     scannerContainsHostiles,
		"scannerContainsFugitive":     scannerContainsFugitive,
		"scannerContainsSalvage":      scannerContainsSalvage,
		"scannerContainsSalvageForMe": scannerContainsSalvageForMe,
		"canScoopCargo":               canScoopCargo,
		"isGroupLeader":               isGroupLeader,
		"hasGroup":                    hasGroup,
		"groupIsSeparated":            groupIsSeparated,
		"combatOddsGood":              combatOddsGood,
		"cargoDemandsMet":             cargoDemandsMet,
	}
}

// fighting reports whether s, something attacking it, or a group mate is in
// a fight.
func fighting(s *model.Ship) bool {
	if IsFighting(s) {
		return true
	}
	if anyWithin(s.DefenseTargets, s.Position, s.ScannerRange) {
		return true
	}
	if s.Group != nil {
		for _, m := range s.Group.Members() {
			if IsFighting(m) {
				return true
			}
		}
	}
	return false
}

func (l *Library) inCombat(a *agent.Agent) (bool, error) {
	s, err := shipOf(a)
	if err != nil {
		return false, err
	}
	return fighting(s), nil
}

func (l *Library) losingCombat(a *agent.Agent) (bool, error) {
	s, err := shipOf(a)
	if err != nil {
		return false, err
	}
	if cascade, ok := a.Parameter(KeyCascadeDetected).(model.Vector); ok {
		if cascade.Within(s.Position, l.Profile.ThreatRange) {
			return true, nil
		}
		a.SetParameter(KeyCascadeDetected, nil)
	}
	if s.Energy == s.MaxEnergy {
		// full energy forgets previous defeats
		a.SetParameter(KeyLastFleeing, nil)
	}
	if !fighting(s) {
		return false, nil
	}
	if last, ok := a.Parameter(KeyLastFleeing).(*model.Ship); ok && last != nil && last.Position.Within(s.Position, l.Profile.ThreatRange) {
		return true, nil
	}
	if s.Energy < s.MaxEnergy*l.Profile.LosingEnergyFraction {
		return true, nil
	}
	for _, d := range s.DefenseTargets {
		if d.Class == model.ClassMissile && d.Target == s {
			return true, nil
		}
		if d.Class == model.ClassMine {
			return true, nil
		}
	}
	return false, nil
}

func (l *Library) energyLow(a *agent.Agent) (bool, error) {
	s, err := shipOf(a)
	if err != nil {
		return false, err
	}
	return s.Energy < s.MaxEnergy*l.Profile.LosingEnergyFraction, nil
}

func hasTarget(a *agent.Agent) (bool, error) {
	s, err := shipOf(a)
	if err != nil {
		return false, err
	}
	return s.Target.Valid(), nil
}

func hasWaypoint(a *agent.Agent) (bool, error) {
	return a.HasParameter(KeyWaypoint), nil
}

func nearDestination(a *agent.Agent) (bool, error) {
	s, err := shipOf(a)
	if err != nil {
		return false, err
	}
	return s.Destination.Within(s.Position, s.DesiredRange), nil
}

func scannerContainsHostiles(a *agent.Agent) (bool, error) {
	s, err := shipOf(a)
	if err != nil {
		return false, err
	}
	return a.CheckScanner(func(o *model.Ship) bool {
		return o.InSpace() && o.Target == s && IsAggressive(o)
	}), nil
}

func scannerContainsFugitive(a *agent.Agent) (bool, error) {
	return a.CheckScanner(func(o *model.Ship) bool {
		return o.InSpace() && o.Bounty > 50
	}), nil
}

func scannerContainsSalvage(a *agent.Agent) (bool, error) {
	return a.CheckScanner(func(o *model.Ship) bool {
		return o.InSpace() && o.Class == model.ClassCargo
	}), nil
}

// scannerContainsSalvageForMe only matches cargo the ship can scoop and
// catch.
func scannerContainsSalvageForMe(a *agent.Agent) (bool, error) {
	s, err := shipOf(a)
	if err != nil {
		return false, err
	}
	if !scoops(s) {
		return false, nil
	}
	return a.CheckScanner(func(o *model.Ship) bool {
		return o.InSpace() && o.Class == model.ClassCargo && o.Velocity.Magnitude() < s.MaxSpeed
	}), nil
}

func scoops(s *model.Ship) bool { return s.CargoSpace > 0 && s.FuelScoops }

func canScoopCargo(a *agent.Agent) (bool, error) {
	s, err := shipOf(a)
	if err != nil {
		return false, err
	}
	return scoops(s), nil
}

// isGroupLeader is true for ships without a group.
func isGroupLeader(a *agent.Agent) (bool, error) {
	s, err := shipOf(a)
	if err != nil {
		return false, err
	}
	if s.Group == nil {
		return true, nil
	}
	return s.Group.IsLeader(s), nil
}

func hasGroup(a *agent.Agent) (bool, error) {
	s, err := shipOf(a)
	if err != nil {
		return false, err
	}
	return s.Group != nil, nil
}

func groupIsSeparated(a *agent.Agent) (bool, error) {
	s, err := shipOf(a)
	if err != nil {
		return false, err
	}
	leader := leaderOf(s)
	if leader == nil {
		return false, nil
	}
	limit := s.ScannerRange
	if leader.Class == model.ClassStation {
		limit *= 2
	}
	return s.DistanceTo(leader) > limit, nil
}

func combatOddsGood(a *agent.Agent) (bool, error) {
	s, err := shipOf(a)
	if err != nil {
		return false, err
	}
	if !s.Target.Valid() {
		return false, nil
	}
	us, them := 1, 1
	if s.Group != nil {
		us = max(len(s.Group.Members()), 1)
	}
	if s.Target.Group != nil {
		them = max(len(s.Target.Group.Members()), 1)
	}
	return us >= them, nil
}

// cargoDemandsMet compares the cargo seen dumped nearby against the demand
// the group leader made. Only the leader records the demand as met; other
// members just answer.
func cargoDemandsMet(a *agent.Agent) (bool, error) {
	s, err := shipOf(a)
	if err != nil {
		return false, err
	}
	if !a.Flag(FlagWatchForCargo) {
		a.Logger().Warn("cargo demand checked without watching for cargo", "flag", FlagWatchForCargo)
		return true, nil
	}
	seen, ok := cargoSeen(a, s)
	if !ok {
		return false, nil
	}

	if g := s.Group; g != nil {
		demand, met := g.CargoDemand()
		if met {
			return true, nil
		}
		if demand == 0 || float64(demand) > seen {
			return false, nil
		}
		if g.IsLeader(s) {
			if err := g.MarkCargoMet(s); err != nil {
				return false, err
			}
		}
		return true, nil
	}

	if a.Flag(KeyCargoDemandMet) {
		return true, nil
	}
	demand, _ := a.Number(KeyCargoDemand)
	if demand == 0 || demand > seen {
		return false, nil
	}
	a.SetParameter(KeyCargoDemandMet, true)
	return true, nil
}

// cargoSeen is the agent's tally of cargo dumped nearby. In a group the
// tally belongs to the group's current cargo epoch; one left over from a
// forgotten demand is dropped and reads as absent.
func cargoSeen(a *agent.Agent, s *model.Ship) (float64, bool) {
	if s.Group != nil {
		epoch, _ := a.Number(KeyCargoEpoch)
		if current := s.Group.CargoEpoch(); int(epoch) != current {
			a.SetParameter(KeyCargoDropped, nil)
			a.SetParameter(KeyCargoEpoch, current)
			return 0, false
		}
	}
	return a.Number(KeyCargoDropped)
}
