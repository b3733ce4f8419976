package geo

// Direction is one of the eight ordinal steps on the tile grid.
type Direction struct {
	DX, DY int
}

// Ordinal lists the eight directions in expansion order: the four
// orthogonal steps first, then the diagonals.
var Ordinal = [8]Direction{
	{-1, 0},  // west
	{1, 0},   // east
	{0, -1},  // south
	{0, 1},   // north
	{-1, -1}, // south-west
	{1, -1},  // south-east
	{-1, 1},  // north-west
	{1, 1},   // north-east
}

// Orthogonal reports whether d moves along a single axis.
func (d Direction) Orthogonal() bool {
	return d.DX == 0 || d.DY == 0
}
