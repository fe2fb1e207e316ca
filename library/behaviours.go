package library

import (
	"github.com/nstehr/helm/agent"
	"github.com/nstehr/helm/model"
	"github.com/nstehr/helm/priority"
)

// Handler set ids declared by the stock behaviours.
const (
	HandlersNone     = "none"
	HandlersStandard = "standard"
	HandlersApproach = "approach"
)

func (l *Library) behaviours() []*priority.Behaviour[*agent.Agent] {
	return []*priority.Behaviour[*agent.Agent]{
		priority.NewBehaviour("idle", HandlersStandard, idle),
		priority.NewBehaviour("reconsider", HandlersStandard, reconsider),
		priority.NewBehaviour("fleeCombat", HandlersStandard, l.fleeCombat),
		priority.NewBehaviour("destroyCurrentTarget", HandlersStandard, destroyCurrentTarget),
		priority.NewBehaviour("approachDestination", HandlersApproach, approachDestination),
		priority.NewBehaviour("landOnPlanet", HandlersNone, landOnPlanet),
		priority.NewBehaviour("selfDestruct", HandlersNone, selfDestruct),
	}
}

func idle(a *agent.Agent) error {
	s, err := shipOf(a)
	if err != nil {
		return err
	}
	s.DesiredSpeed = 0
	s.Perform(model.OrderIdle)
	return nil
}

// reconsider does nothing but ask for another decision shortly.
func reconsider(a *agent.Agent) error {
	a.RequestEvaluationSoon()
	return nil
}

// fleeCombat runs from a cascade weapon if one was seen nearby, otherwise
// from the primary aggressor. With no aggressor in range it runs from the
// first defense target on the list.
func (l *Library) fleeCombat(a *agent.Agent) error {
	s, err := shipOf(a)
	if err != nil {
		return err
	}
	if cascade, ok := a.Parameter(KeyCascadeDetected).(model.Vector); ok {
		if cascade.Within(s.Position, l.Profile.ThreatRange) {
			if s.Destination != cascade {
				if err := a.Communicate(CommsQuiriumCascade); err != nil {
					return err
				}
			}
			s.Destination = cascade
			s.DesiredRange = 30000
			s.DesiredSpeed = 10 * s.MaxSpeed
			s.Perform(model.OrderFlyToRange)
			return nil
		}
		a.SetParameter(KeyCascadeDetected, nil)
	}

	s.Target = s.Aggressor
	if !s.Target.Valid() || !s.Target.Position.Within(s.Position, l.Profile.FleeRange) {
		if len(s.DefenseTargets) > 0 {
			s.Target = s.DefenseTargets[0]
		}
	}
	if s.Target != nil {
		a.SetParameter(KeyLastFleeing, s.Target)
	} else {
		a.SetParameter(KeyLastFleeing, nil)
	}
	s.Perform(model.OrderFlee)
	return nil
}

func destroyCurrentTarget(a *agent.Agent) error {
	s, err := shipOf(a)
	if err != nil {
		return err
	}
	a.SetParameter(KeyWitchspaceEntry, nil)
	if s.Target.Valid() && !s.HasHostileTarget() {
		if err := a.Communicate(CommsBeginningAttack, s.Target.Name); err != nil {
			return err
		}
	}
	s.Perform(model.OrderAttack)
	return nil
}

// approachDestination flies toward the destination, or toward the top of
// the pending waypoint stack when there is one.
func approachDestination(a *agent.Agent) error {
	s, err := shipOf(a)
	if err != nil {
		return err
	}
	if stack, ok := a.Parameter(KeyWaypoints).([]model.Vector); ok && len(stack) > 0 {
		s.Destination = stack[len(stack)-1]
		s.DesiredRange = 1000
	}
	s.Perform(model.OrderFlyToRange)
	return nil
}

// landOnPlanet is terminal: no timer, no interruptions.
func landOnPlanet(a *agent.Agent) error {
	s, err := shipOf(a)
	if err != nil {
		return err
	}
	s.DesiredSpeed = s.MaxSpeed / 4
	s.Perform(model.OrderLand)
	a.CancelReconsideration()
	return a.Communicate(CommsLandingOnPlanet)
}

func selfDestruct(a *agent.Agent) error {
	s, err := shipOf(a)
	if err != nil {
		return err
	}
	a.CancelReconsideration()
	s.Perform(model.OrderExplode)
	return nil
}
