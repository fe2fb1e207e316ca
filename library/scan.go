package library

import (
	"slices"

	"github.com/nstehr/helm/model"
)

// located is anything with a position in space.
type located interface {
	Valid() bool
	Pos() model.Vector
}

// anyWithin reports whether any live item is closer than r to p.
func anyWithin[T located](items []T, p model.Vector, r float64) bool {
	for _, it := range items {
		if it.Valid() && it.Pos().Within(p, r) {
			return true
		}
	}
	return false
}

// RangeScanner builds a Scanner over the ships returned by all. A ship sees
// every other live in-space object inside its scanner range, nearest first.
func RangeScanner(all func() []*model.Ship) Scanner {
	return func(s *model.Ship) []*model.Ship {
		var seen []*model.Ship
		for _, o := range all() {
			if o == s || !o.InSpace() {
				continue
			}
			if o.Position.Within(s.Position, s.ScannerRange) {
				seen = append(seen, o)
			}
		}
		slices.SortStableFunc(seen, func(a, b *model.Ship) int {
			da := a.Position.SquaredDistanceTo(s.Position)
			db := b.Position.SquaredDistanceTo(s.Position)
			switch {
			case da < db:
				return -1
			case da > db:
				return 1
			}
			return 0
		})
		return seen
	}
}

// Allied is true when the two ships share a group, or one's group leader
// belongs to the other's group.
func Allied(a, b *model.Ship) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Group != nil && slices.Contains(a.Group.Members(), b) {
		return true
	}
	if l := leaderOf(a); l != nil && l.Group != nil && slices.Contains(l.Group.Members(), b) {
		return true
	}
	if l := leaderOf(b); l != nil && l.Group != nil && slices.Contains(l.Group.Members(), a) {
		return true
	}
	return false
}

func leaderOf(s *model.Ship) *model.Ship {
	if s.Group == nil {
		return nil
	}
	return s.Group.Leader()
}

// IsAggressive is true for a ship attacking something and not running away.
func IsAggressive(s *model.Ship) bool {
	return s.Valid() && s.HasHostileTarget() && s.Order != model.OrderFlee
}

// IsFighting is true while s has a hostile target.
func IsFighting(s *model.Ship) bool {
	return s.Valid() && s.HasHostileTarget()
}
