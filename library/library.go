// Package library is the stock leaf content for ship agents: conditions,
// configurations and behaviours that priority trees are assembled from,
// the event handler sets behaviours install, and waypoint generators.
package library

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/nstehr/helm/agent"
	"github.com/nstehr/helm/model"
	"github.com/nstehr/helm/priority"
)

// ErrNoShip is returned when a library leaf runs for an agent whose entity
// is not a *model.Ship.
var ErrNoShip = errors.New("library: agent entity is not a ship")

// Scanner reports the objects a ship can currently see, nearest first.
type Scanner func(s *model.Ship) []*model.Ship

// Library binds the leaf functions to a pilot profile, a scanner and a
// random source.
type Library struct {
	Profile Profile
	Scan    Scanner
	Rand    *rand.Rand
}

// New returns a library. A nil scanner sees nothing; a nil rng is seeded
// from the runtime.
func New(p Profile, scan Scanner, rng *rand.Rand) *Library {
	p.Validate()
	if scan == nil {
		scan = func(*model.Ship) []*model.Ship { return nil }
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Library{Profile: p, Scan: scan, Rand: rng}
}

func shipOf(a *agent.Agent) (*model.Ship, error) {
	s, ok := a.Entity().(*model.Ship)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoShip, a.Entity())
	}
	return s, nil
}

// Prepare applies the profile to a freshly created agent: flags, stock
// communications and the profile's waypoint generator.
func (l *Library) Prepare(a *agent.Agent) error {
	a.SetParameter(FlagSendsDistressCalls, l.Profile.SendsDistressCalls)
	a.SetParameter(FlagWatchForCargo, l.Profile.WatchForCargo)
	for key, tmpl := range Communications {
		a.SetCommunication(key, tmpl)
	}
	if l.Profile.Waypoints == "" {
		return nil
	}
	gen, ok := l.WaypointGenerators()[l.Profile.Waypoints]
	if !ok {
		return fmt.Errorf("library: unknown waypoint generator %q", l.Profile.Waypoints)
	}
	a.SetWaypointGenerator(gen)
	return nil
}

// Register adds every stock leaf to r under its tree name.
func (l *Library) Register(r *priority.Registry[*agent.Agent]) {
	for name, c := range l.conditions() {
		r.AddCondition(name, c)
	}
	for name, c := range l.configurations() {
		r.AddAction(name, c)
	}
	for _, b := range l.behaviours() {
		r.AddBehaviour(b)
	}
}

// Registry is a fresh registry holding only the stock leaves.
func (l *Library) Registry() *priority.Registry[*agent.Agent] {
	r := priority.NewRegistry[*agent.Agent]()
	l.Register(r)
	return r
}

// Communications are the stock message templates every prepared agent gets.
var Communications = map[string]string{
	CommsBeginningAttack: "Die, {{.P1}}!",
	CommsDistress:        "Mayday! {{.P1}} under attack!",
	CommsFriendlyFire:    "Watch where you're shooting, {{.P1}}!",
	CommsLandingOnPlanet: "Commencing planetary landing.",
	CommsQuiriumCascade:  "Cascade weapon! Get clear!",
	CommsWaypointReached: "Waypoint reached.",
	CommsPatrolReportIn:  "Patrol reporting in to {{.P1}}.",
}
