package dispatch

import (
	"fmt"
	"log/slog"

	"github.com/nstehr/helm/ipc"
	"github.com/nstehr/helm/model"
)

// Sender delivers outbound envelopes to the simulator.
type Sender interface {
	Send(msgType string, data any) error
}

// Bridge connects a World to an external simulator. The simulator reports
// ship state and world events; the bridge steps the world on every state
// report and sends back the orders and communications agents produce.
type Bridge struct {
	world *World
	out   Sender
	log   *slog.Logger
}

func NewBridge(w *World, out Sender) *Bridge {
	return &Bridge{world: w, out: out, log: slog.Default()}
}

// Register installs the bridge's handlers on c.
func (b *Bridge) Register(c *ipc.Connection) {
	c.Handle(ipc.TypeHello, b.HandleHello)
	c.Handle(ipc.TypeState, b.HandleState)
	c.Handle(ipc.TypeEvent, b.HandleEvent)
}

func (b *Bridge) HandleHello(env ipc.Envelope) error {
	var msg ipc.HelloMessage
	if err := env.Decode(&msg); err != nil {
		return err
	}
	b.log = slog.Default().With("simulator", msg.Simulator)
	b.world.log = b.log

	if err := b.apply(msg.Ships); err != nil {
		return err
	}
	if msg.System != nil {
		sys := &model.System{
			Planet:       vec(msg.System.Planet),
			PlanetRadius: msg.System.PlanetRadius,
			Sun:          vec(msg.System.Sun),
			SunRadius:    msg.System.SunRadius,
		}
		if st, ok := b.world.Ship(msg.System.MainStation); ok {
			sys.MainStation = st
		}
		b.world.SetSystem(sys)
	}
	b.log.Info("simulator connected", "ships", len(msg.Ships))
	return b.out.Send(ipc.TypeAck, ipc.AckMessage{Status: "ok", Agents: len(b.world.Agents())})
}

// HandleState applies the reported ship state and steps the world up to
// the reported time.
func (b *Bridge) HandleState(env ipc.Envelope) error {
	var msg ipc.StateMessage
	if err := env.Decode(&msg); err != nil {
		return err
	}
	if err := b.apply(msg.Ships); err != nil {
		return err
	}
	dt := msg.Time - b.world.Clock().Now()
	if dt < 0 {
		dt = 0
	}
	b.world.Step(dt)
	return nil
}

func (b *Bridge) HandleEvent(env ipc.Envelope) error {
	var msg ipc.EventMessage
	if err := env.Decode(&msg); err != nil {
		return err
	}
	s, ok := b.world.Ship(msg.Ship)
	if !ok {
		return fmt.Errorf("event %s for unknown ship %d", msg.Name, msg.Ship)
	}
	args := make([]any, len(msg.Args))
	for i, id := range msg.Args {
		if o, ok := b.world.Ship(id); ok {
			args[i] = o
		}
	}
	b.world.Fire(s, msg.Name, args...)
	return nil
}

// apply creates or updates ships, then resolves ID references once every
// ship in the batch exists.
func (b *Bridge) apply(states []ipc.ShipState) error {
	for _, st := range states {
		s, ok := b.world.Ship(st.ID)
		if !ok {
			s = model.NewShip(st.ID, st.Name, model.ScanClass(st.Class))
			if s.Class == "" {
				s.Class = model.ClassShip
			}
			s.OnOrder = b.sendOrder
			s.OnMessage = b.sendComms
			update(s, st)
			if _, err := b.world.Add(s); err != nil {
				return err
			}
		} else {
			update(s, st)
		}
		if st.Group != "" && (s.Group == nil || s.Group.Name != st.Group) {
			if s.Group != nil {
				s.Group.Remove(s)
			}
			b.world.Group(st.Group).Add(s)
		}
	}
	for _, st := range states {
		s, _ := b.world.Ship(st.ID)
		if s == nil {
			continue
		}
		s.Target = b.ref(st.Target)
		s.Aggressor = b.ref(st.Aggressor)
	}
	return nil
}

func (b *Bridge) ref(id int) *model.Ship {
	if id == 0 {
		return nil
	}
	s, _ := b.world.Ship(id)
	return s
}

func update(s *model.Ship, st ipc.ShipState) {
	if st.Name != "" {
		s.Name = st.Name
	}
	if st.Role != "" {
		s.PrimaryRole = st.Role
	}
	s.Position = vec(st.Position)
	s.Forward = vec(st.Forward)
	s.Velocity = vec(st.Velocity)
	s.Energy = st.Energy
	s.MaxEnergy = st.MaxEnergy
	s.MaxSpeed = st.MaxSpeed
	if st.ScannerRange > 0 {
		s.ScannerRange = st.ScannerRange
	}
	s.Bounty = st.Bounty
	s.Hyperdrive = st.Hyperdrive
	s.CargoSpace = st.CargoSpace
	s.FuelScoops = st.FuelScoops
	s.SetInSpace(st.InSpace)
	if st.Destroyed {
		s.Destroy()
	}
}

func (b *Bridge) sendOrder(s *model.Ship) {
	cmd := ipc.OrderCommand{
		Ship:         s.ID,
		Order:        string(s.Order),
		Destination:  ipcVec(s.Destination),
		DesiredRange: s.DesiredRange,
		DesiredSpeed: s.DesiredSpeed,
	}
	if s.Target.Valid() {
		cmd.Target = s.Target.ID
	}
	if a, ok := b.world.Agent(s.ID); ok {
		cmd.Behaviour = a.Behaviour()
	}
	if err := b.out.Send(ipc.TypeOrder, cmd); err != nil {
		b.log.Error("failed to send order", "ship", s.String(), "order", s.Order, "error", err)
	}
}

func (b *Bridge) sendComms(s *model.Ship, text string) {
	if err := b.out.Send(ipc.TypeComms, ipc.CommsCommand{Ship: s.ID, Text: text}); err != nil {
		b.log.Error("failed to send comms", "ship", s.String(), "error", err)
	}
}

func vec(v ipc.Vec) model.Vector { return model.Vector{X: v.X, Y: v.Y, Z: v.Z} }

func ipcVec(v model.Vector) ipc.Vec { return ipc.Vec{X: v.X, Y: v.Y, Z: v.Z} }
