package pathfinding

import "github.com/udisondev/tilepath/internal/geo"

// Wilderness is a set of policy-significant areas. Safe areas take
// precedence over the wilderness areas they overlap.
type Wilderness struct {
	Areas []geo.Area `yaml:"areas"`
	Safe  []geo.Area `yaml:"safe"`
}

// DefaultWilderness returns the surface and underground wilderness with the
// Ferox Enclave carved out.
func DefaultWilderness() Wilderness {
	return Wilderness{
		Areas: []geo.Area{
			{X: 2944, Y: 3522, Width: 446, Height: 446, Plane: 0},
			{X: 2944, Y: 9918, Width: 320, Height: 442, Plane: 0},
		},
		Safe: []geo.Area{
			{X: 3125, Y: 3622, Width: 27, Height: 18, Plane: 0},
		},
	}
}

// Contains reports whether p is in the wilderness.
func (w Wilderness) Contains(p geo.PackedPoint) bool {
	for _, a := range w.Safe {
		if a.Contains(p) {
			return false
		}
	}
	for _, a := range w.Areas {
		if a.Contains(p) {
			return true
		}
	}
	return false
}
