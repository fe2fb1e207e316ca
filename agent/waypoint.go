package agent

// WaypointGenerator computes the next navigation target and writes it into
// the parameter store.
type WaypointGenerator func(a *Agent) error

func (a *Agent) SetWaypointGenerator(g WaypointGenerator) { a.waypoints = g }

// WaypointGenerator returns the installed generator, or nil.
func (a *Agent) WaypointGenerator() WaypointGenerator { return a.waypoints }
