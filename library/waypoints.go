package library

import (
	"github.com/nstehr/helm/agent"
	"github.com/nstehr/helm/model"
)

// Patrol geometry.
const (
	stationPatrolRadius = 25000
	stationPatrolAccept = 100
	witchpointAccept    = 7500
)

// WaypointGenerators returns the stock generators by name.
func (l *Library) WaypointGenerators() map[string]agent.WaypointGenerator {
	return map[string]agent.WaypointGenerator{
		"stationPatrol":   l.stationPatrol,
		"spacelanePatrol": l.spacelanePatrol,
	}
}

func setWaypoint(a *agent.Agent, p model.Vector, r float64) {
	a.SetParameter(KeyWaypoint, p)
	a.SetParameter(KeyWaypointRange, r)
}

// stationPatrol walks a square around the group leader, or the system's main
// station, advancing one corner whenever the ship is near the current one.
func (l *Library) stationPatrol(a *agent.Agent) error {
	s, err := shipOf(a)
	if err != nil {
		return err
	}
	station := leaderOf(s)
	if station == nil && s.System != nil {
		station = s.System.MainStation
	}
	if !station.Valid() {
		setWaypoint(a, model.Origin, witchpointAccept)
		return nil
	}

	z := station.Forward
	tmp := model.Vector{Y: 1}
	if s.System != nil {
		tmp = z.Cross(s.System.Sun.Direction())
	}
	x := z.Cross(tmp)
	y := z.Cross(x)

	corners := [4]model.Vector{
		station.Position.Add(x.Scale(stationPatrolRadius)),
		station.Position.Add(y.Scale(stationPatrolRadius)),
		station.Position.Add(x.Scale(-stationPatrolRadius)),
		station.Position.Add(y.Scale(-stationPatrolRadius)),
	}
	next := corners[0]
	for i, c := range corners {
		if s.Position.Within(c, 500) {
			next = corners[(i+1)%4]
			break
		}
	}
	setWaypoint(a, next, stationPatrolAccept)
	return nil
}

type lane int

const (
	toWitchpoint lane = iota
	toPlanet
	toSun
)

// spacelanePatrol picks the next leg between witchpoint, main planet and sun
// based on where the ship currently is.
func (l *Library) spacelanePatrol(a *agent.Agent) error {
	s, err := shipOf(a)
	if err != nil {
		return err
	}
	sys := s.System
	if sys == nil {
		setWaypoint(a, model.Origin, witchpointAccept)
		return nil
	}

	p := s.Position
	pick := func(chance float64, likely, otherwise lane) lane {
		if l.Rand.Float64() < chance {
			return likely
		}
		return otherwise
	}

	var choice lane
	switch {
	case p.Magnitude() < 10000:
		choice = pick(0.9, toPlanet, toSun)
	case p.Within(sys.Planet, sys.PlanetRadius*2):
		choice = pick(0.75, toWitchpoint, toSun)
	case p.Within(sys.Sun, sys.SunRadius*3):
		choice = pick(0.9, toPlanet, toSun)
	case p.Z < sys.Planet.Z && p.X*p.X+p.Y*p.Y < sys.PlanetRadius*3:
		choice = pick(0.5, toPlanet, toWitchpoint)
	case p.Sub(sys.Planet).Dot(p.Sub(sys.Sun)) < -0.9:
		choice = pick(0.5, toPlanet, toSun)
	case p.Dot(sys.Sun) > 0.9:
		choice = pick(0.5, toWitchpoint, toSun)
	default:
		choice = toPlanet
	}

	switch choice {
	case toWitchpoint:
		setWaypoint(a, model.Origin, witchpointAccept)
	case toPlanet:
		setWaypoint(a, sys.Planet, sys.PlanetRadius*2)
	case toSun:
		setWaypoint(a, sys.Sun, sys.SunRadius*2.5)
	}
	return nil
}
