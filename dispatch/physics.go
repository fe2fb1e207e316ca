package dispatch

import (
	"github.com/nstehr/helm/model"
)

// Combat tuning for the reference physics.
const (
	weaponRange  = 2000.0
	weaponDamage = 8.0 // energy per second
	landingRange = 1000.0
)

// Kinematics is a minimal flight model for local simulation: ships fly
// their order at their desired speed, attackers within weapon range drain
// their target's energy, and landing ships leave space on arrival.
func Kinematics(s *model.Ship, dt float64) {
	speed := s.DesiredSpeed
	if speed <= 0 || speed > s.MaxSpeed {
		speed = s.MaxSpeed
	}

	switch s.Order {
	case model.OrderIdle:
		s.Velocity = model.Vector{}

	case model.OrderFlyToRange:
		if arrived(s) {
			s.Velocity = model.Vector{}
			break
		}
		steer(s, s.Destination.Sub(s.Position), speed)

	case model.OrderAttack:
		t := s.Target
		if !t.Valid() {
			s.Velocity = model.Vector{}
			break
		}
		if s.Position.Within(t.Position, weaponRange) {
			s.Velocity = model.Vector{}
			t.Aggressor = s
			t.Energy -= weaponDamage * dt
			if t.Energy <= 0 {
				t.Energy = 0
				t.Destroy()
			}
			break
		}
		steer(s, t.Position.Sub(s.Position), speed)

	case model.OrderFlee:
		if !s.Target.Valid() {
			s.Velocity = model.Vector{}
			break
		}
		steer(s, s.Position.Sub(s.Target.Position), s.MaxSpeed)

	case model.OrderLand:
		if s.System == nil {
			break
		}
		if s.Position.Within(s.System.Planet, s.System.PlanetRadius+landingRange) {
			s.Velocity = model.Vector{}
			s.SetInSpace(false)
			break
		}
		steer(s, s.System.Planet.Sub(s.Position), speed)
	}

	s.Position = s.Position.Add(s.Velocity.Scale(dt))
}

func steer(s *model.Ship, heading model.Vector, speed float64) {
	dir := heading.Direction()
	if dir != (model.Vector{}) {
		s.Forward = dir
	}
	s.Velocity = dir.Scale(speed)
}
