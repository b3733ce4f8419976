package geo

import "fmt"

// PackedPoint is a tile coordinate packed into 32 bits.
type PackedPoint uint32

// Point is an unpacked tile coordinate.
type Point struct {
	X     int `json:"x" yaml:"x"`
	Y     int `json:"y" yaml:"y"`
	Plane int `json:"plane" yaml:"plane"`
}

// Pack packs x, y and plane. Out-of-range inputs are masked to their low bits.
func Pack(x, y, plane int) PackedPoint {
	return PackedPoint(uint32(x&coordMask) | uint32(y&coordMask)<<coordBits | uint32(plane&planeMask)<<planeShift)
}

// X returns the x coordinate.
func (p PackedPoint) X() int { return int(p & coordMask) }

// Y returns the y coordinate.
func (p PackedPoint) Y() int { return int(p>>coordBits) & coordMask }

// Plane returns the plane.
func (p PackedPoint) Plane() int { return int(p>>planeShift) & planeMask }

// Unpack returns all three components.
func (p PackedPoint) Unpack() (x, y, plane int) {
	return p.X(), p.Y(), p.Plane()
}

// Point converts to an unpacked Point.
func (p PackedPoint) Point() Point {
	return Point{X: p.X(), Y: p.Y(), Plane: p.Plane()}
}

// Offset returns the point moved by (dx, dy) on the same plane.
func (p PackedPoint) Offset(dx, dy int) PackedPoint {
	return Pack(p.X()+dx, p.Y()+dy, p.Plane())
}

func (p PackedPoint) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X(), p.Y(), p.Plane())
}

// Pack packs the point.
func (p Point) Pack() PackedPoint {
	return Pack(p.X, p.Y, p.Plane)
}

// Valid reports whether the point fits the packed domain.
func (p Point) Valid() bool {
	return p.X >= 0 && p.X <= coordMask && p.Y >= 0 && p.Y <= coordMask && p.Plane >= 0 && p.Plane < MaxPlanes
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Plane)
}

// Chebyshev returns max(|dx|, |dy|). Planes are ignored.
func Chebyshev(a, b PackedPoint) int {
	return max(abs(a.X()-b.X()), abs(a.Y()-b.Y()))
}

// Manhattan returns |dx| + |dy|. Planes are ignored.
func Manhattan(a, b PackedPoint) int {
	return abs(a.X()-b.X()) + abs(a.Y()-b.Y())
}

// Area is an axis-aligned rectangle of tiles on a single plane.
type Area struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Plane  int `yaml:"plane"`
}

// Contains reports whether p lies inside the area.
func (a Area) Contains(p PackedPoint) bool {
	return DistanceToArea(p, a) == 0
}

// DistanceToArea returns the Chebyshev distance from p to the nearest tile of
// the area, or Unreachable when the planes differ.
func DistanceToArea(p PackedPoint, a Area) int {
	if p.Plane() != a.Plane {
		return Unreachable
	}
	x, y := p.X(), p.Y()
	maxX := a.X + a.Width - 1
	maxY := a.Y + a.Height - 1
	dx := max(a.X-x, 0, x-maxX)
	dy := max(a.Y-y, 0, y-maxY)
	return max(dx, dy)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
