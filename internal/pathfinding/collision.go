package pathfinding

import (
	"github.com/udisondev/tilepath/internal/geo"
	"github.com/udisondev/tilepath/internal/transport"
)

// candidate is a neighbor produced by one expansion.
type candidate struct {
	point geo.PackedPoint
	extra int // cost added on top of the Chebyshev step
	kind  nodeKind
}

// CollisionMap answers movement queries against a flag store.
// Not safe for concurrent use: it owns scratch buffers reused by every
// expansion, so each worker needs its own.
type CollisionMap struct {
	store       *geo.FlagStore
	traversable [len(geo.Ordinal)]bool
	scratch     []candidate
}

// NewCollisionMap returns a collision map over store.
func NewCollisionMap(store *geo.FlagStore) *CollisionMap {
	return &CollisionMap{store: store, scratch: make([]candidate, 0, 16)}
}

// North reports whether (x, y) can step to (x, y+1).
func (m *CollisionMap) North(x, y, plane int) bool {
	return m.store.Get(x, y, plane, geo.FlagNorth)
}

// South reports whether (x, y) can step to (x, y-1).
func (m *CollisionMap) South(x, y, plane int) bool {
	return m.store.Get(x, y-1, plane, geo.FlagNorth)
}

// East reports whether (x, y) can step to (x+1, y).
func (m *CollisionMap) East(x, y, plane int) bool {
	return m.store.Get(x, y, plane, geo.FlagEast)
}

// West reports whether (x, y) can step to (x-1, y).
func (m *CollisionMap) West(x, y, plane int) bool {
	return m.store.Get(x-1, y, plane, geo.FlagEast)
}

// Step reports whether the orthogonal step d is open from (x, y).
func (m *CollisionMap) Step(x, y, plane int, d geo.Direction) bool {
	switch {
	case d.DX > 0:
		return m.East(x, y, plane)
	case d.DX < 0:
		return m.West(x, y, plane)
	case d.DY > 0:
		return m.North(x, y, plane)
	case d.DY < 0:
		return m.South(x, y, plane)
	}
	return false
}

// Diagonal reports whether the diagonal step d is open from (x, y). Both
// orthogonal legs must be open from the origin, and each intermediate tile
// must be able to finish the move, so no wall corner is cut.
func (m *CollisionMap) Diagonal(x, y, plane int, d geo.Direction) bool {
	vertical := geo.Direction{DY: d.DY}
	horizontal := geo.Direction{DX: d.DX}
	return m.Step(x, y, plane, vertical) &&
		m.Step(x, y, plane, horizontal) &&
		m.Step(x+d.DX, y, plane, vertical) &&
		m.Step(x, y+d.DY, plane, horizontal)
}

// IsBlocked reports whether no orthogonal step leaves (x, y).
func (m *CollisionMap) IsBlocked(x, y, plane int) bool {
	return !m.North(x, y, plane) && !m.South(x, y, plane) && !m.East(x, y, plane) && !m.West(x, y, plane)
}

// neighbors lists the candidates reachable from p in one expansion.
// The returned slice is only valid until the next call.
func (m *CollisionMap) neighbors(p geo.PackedPoint, visited *geo.VisitedTiles, transports *transport.Table) []candidate {
	out := m.scratch[:0]

	for _, e := range transports.Edges(p) {
		if visited.Get(e.Destination) {
			continue
		}
		out = append(out, candidate{point: e.Destination, extra: e.Cost, kind: kindTransport})
	}

	x, y, plane := p.Unpack()
	if m.IsBlocked(x, y, plane) {
		// Escape mode: a tile with no exits may still leave towards any
		// neighbor that is not itself walled in.
		for i, d := range geo.Ordinal {
			m.traversable[i] = !m.IsBlocked(x+d.DX, y+d.DY, plane)
		}
	} else {
		for i, d := range geo.Ordinal {
			if d.Orthogonal() {
				m.traversable[i] = m.Step(x, y, plane, d)
			} else {
				m.traversable[i] = m.Diagonal(x, y, plane, d)
			}
		}
	}

	for i, d := range geo.Ordinal {
		nx, ny := x+d.DX, y+d.DY
		if nx < 0 || ny < 0 {
			continue
		}
		next := geo.Pack(nx, ny, plane)
		if visited.Get(next) {
			continue
		}
		switch {
		case m.traversable[i]:
			out = append(out, candidate{point: next, kind: kindWalk})
		case d.Orthogonal() && m.IsBlocked(nx, ny, plane) && len(transports.Edges(next)) > 0:
			// Walk into a walled-in transport origin so its edges are taken
			// on the next expansion.
			out = append(out, candidate{point: next, kind: kindWalk})
		}
	}

	m.scratch = out
	return out
}
