package model

import "math"

// Vector is a position or direction in simulation space (metres).
type Vector struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Origin is the zero vector. Witchpoint arrivals happen here.
var Origin = Vector{}

func (v Vector) Add(o Vector) Vector { return Vector{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector) Sub(o Vector) Vector { return Vector{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vector) Scale(f float64) Vector { return Vector{v.X * f, v.Y * f, v.Z * f} }

func (v Vector) Dot(o Vector) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vector) Cross(o Vector) Vector {
	return Vector{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Magnitude is the length of v.
func (v Vector) Magnitude() float64 { return math.Sqrt(v.Dot(v)) }

// Direction returns the unit vector of v, or the zero vector when v has no length.
func (v Vector) Direction() Vector {
	m := v.Magnitude()
	if m == 0 {
		return Vector{}
	}
	return v.Scale(1 / m)
}

func (v Vector) DistanceTo(o Vector) float64 { return v.Sub(o).Magnitude() }

// SquaredDistanceTo avoids the square root for range comparisons.
func (v Vector) SquaredDistanceTo(o Vector) float64 {
	d := v.Sub(o)
	return d.Dot(d)
}

// Within reports whether o lies inside radius r of v.
func (v Vector) Within(o Vector, r float64) bool {
	return v.SquaredDistanceTo(o) < r*r
}
