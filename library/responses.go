package library

import (
	"slices"

	"github.com/nstehr/helm/agent"
	"github.com/nstehr/helm/model"
)

// HandlerSets returns the builders for the handler sets the stock
// behaviours declare. Pass it to agent.WithHandlerSets.
func (l *Library) HandlerSets() map[string]agent.HandlerSetBuilder {
	return map[string]agent.HandlerSetBuilder{
		HandlersNone:     func(*agent.Agent) agent.HandlerSet { return nil },
		HandlersStandard: l.standardResponses,
		HandlersApproach: l.approachResponses,
	}
}

// shipArg returns args[i] when it is a ship.
func shipArg(args []any, i int) *model.Ship {
	if i >= len(args) {
		return nil
	}
	s, _ := args[i].(*model.Ship)
	return s
}

func (l *Library) standardResponses(a *agent.Agent) agent.HandlerSet {
	s, err := shipOf(a)
	if err != nil {
		a.Logger().Error("standard responses need a ship", "error", err)
		return nil
	}

	distress := func() error {
		if s.HasHostileTarget() || !a.Flag(FlagSendsDistressCalls) {
			return nil
		}
		return a.Communicate(CommsDistress, s.Name)
	}

	return agent.HandlerSet{
		EventCascadeWeaponDetected: func(args ...any) error {
			weapon := shipArg(args, 0)
			if weapon == nil {
				return nil
			}
			s.ClearDefenseTargets()
			s.AddDefenseTarget(weapon)
			a.SetParameter(KeyCascadeDetected, weapon.Position)
			s.Target = weapon
			s.Perform(model.OrderFlee)
			a.RequestEvaluationSoon()
			return nil
		},

		EventShipAttackedWithMissile: func(args ...any) error {
			missile, whom := shipArg(args, 0), shipArg(args, 1)
			if err := distress(); err != nil {
				return err
			}
			s.AddDefenseTarget(missile)
			s.AddDefenseTarget(whom)
			a.RequestEvaluationSoon()
			return nil
		},

		EventShipBeingAttacked: func(args ...any) error {
			whom := shipArg(args, 0)
			if whom == nil {
				return nil
			}
			if whom.Target != s {
				// stray fire
				if Allied(whom, s) {
					return a.Communicate(CommsFriendlyFire, whom.Name)
				}
				if l.Rand.Float64() > 0.1 {
					return nil
				}
			}
			if err := distress(); err != nil {
				return err
			}
			if !slices.Contains(s.DefenseTargets, whom) {
				s.AddDefenseTarget(whom)
				a.RequestEvaluationSoon()
			} else if s.Energy < s.MaxEnergy*l.Profile.LosingEnergyFraction {
				a.RequestEvaluationSoon()
			}
			if s.HasHostileTarget() {
				switch {
				case !IsAggressive(s.Target):
					s.Target = whom
				case s.Target.Target != s && l.Rand.Float64() < 0.2:
					s.Target = whom
				}
			}
			return nil
		},

		EventShipTargetDestroyed: func(args ...any) error {
			if t := shipArg(args, 0); t != nil {
				s.RemoveDefenseTarget(t)
			}
			a.RequestEvaluationSoon()
			return nil
		},

		EventCargoDumpedNearby: func(...any) error {
			if a.Flag(FlagWatchForCargo) {
				n, _ := cargoSeen(a, s)
				a.SetParameter(KeyCargoDropped, n+1)
			}
			return nil
		},

		EventShipExitedSpace: func(...any) error {
			a.ResetTransient()
			return nil
		},

		EventShipEnteredSpace: func(...any) error {
			a.RequestEvaluationSoon()
			return nil
		},
	}
}

// approachResponses adds waypoint progress tracking to the standard set.
func (l *Library) approachResponses(a *agent.Agent) agent.HandlerSet {
	set := l.standardResponses(a)
	if set == nil {
		return nil
	}
	s, _ := shipOf(a)

	set[EventShipAchievedDesiredRange] = func(...any) error {
		if stack, ok := a.Parameter(KeyWaypoints).([]model.Vector); ok {
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 {
				a.SetParameter(KeyWaypoints, nil)
			} else {
				a.SetParameter(KeyWaypoints, stack)
			}
			a.RequestEvaluationSoon()
			return nil
		}

		patrol, ok := a.Parameter(KeyWaypoint).(model.Vector)
		radius, _ := a.Number(KeyWaypointRange)
		if ok && s.Destination.Within(patrol, 1000+radius) {
			if err := a.Communicate(CommsWaypointReached); err != nil {
				return err
			}
			a.SetParameter(KeyWaypoint, nil)
			a.SetParameter(KeyWaypointRange, nil)
			if a.Flag(FlagPatrolStation) {
				if station := leaderOf(s); station != nil && station.Class == model.ClassStation {
					if err := a.Communicate(CommsPatrolReportIn, station.Name); err != nil {
						return err
					}
				}
			}
		}
		a.RequestEvaluationSoon()
		return nil
	}
	return set
}
