package ipc

// Inbound message types, sent by the simulator.
const (
	TypeHello = "hello"
	TypeState = "state"
	TypeEvent = "event"
)

// Outbound message types, sent by the engine.
const (
	TypeAck   = "ack"
	TypeOrder = "order"
	TypeComms = "comms"
)

// Vec is a position or direction in simulator space.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HelloMessage opens a session. System is optional; without it waypoint
// generators fall back to the witchpoint.
type HelloMessage struct {
	Simulator string       `json:"simulator"`
	System    *SystemState `json:"system,omitempty"`
	Ships     []ShipState  `json:"ships,omitempty"`
}

type SystemState struct {
	MainStation  int     `json:"main_station,omitempty"`
	Planet       Vec     `json:"planet"`
	PlanetRadius float64 `json:"planet_radius"`
	Sun          Vec     `json:"sun"`
	SunRadius    float64 `json:"sun_radius"`
}

// ShipState is the simulator's view of one ship. Target, Aggressor and
// MainStation refer to other ships by ID; zero means none.
type ShipState struct {
	ID           int     `json:"id"`
	Name         string  `json:"name,omitempty"`
	Class        string  `json:"class,omitempty"`
	Role         string  `json:"role,omitempty"`
	Group        string  `json:"group,omitempty"`
	Position     Vec     `json:"position"`
	Forward      Vec     `json:"forward"`
	Velocity     Vec     `json:"velocity"`
	Energy       float64 `json:"energy"`
	MaxEnergy    float64 `json:"max_energy"`
	MaxSpeed     float64 `json:"max_speed"`
	ScannerRange float64 `json:"scanner_range,omitempty"`
	Bounty       int     `json:"bounty,omitempty"`
	Hyperdrive   bool    `json:"hyperdrive,omitempty"`
	CargoSpace   int     `json:"cargo_space,omitempty"`
	FuelScoops   bool    `json:"fuel_scoops,omitempty"`
	InSpace      bool    `json:"in_space"`
	Destroyed    bool    `json:"destroyed,omitempty"`
	Target       int     `json:"target,omitempty"`
	Aggressor    int     `json:"aggressor,omitempty"`
}

// StateMessage reports every changed ship at simulator time Time (seconds).
type StateMessage struct {
	Time  float64     `json:"time"`
	Ships []ShipState `json:"ships"`
}

// EventMessage is a named world event for one ship. Args are ship IDs.
type EventMessage struct {
	Ship int    `json:"ship"`
	Name string `json:"name"`
	Args []int  `json:"args,omitempty"`
}

type AckMessage struct {
	Status string `json:"status"`
	Agents int    `json:"agents"`
}
