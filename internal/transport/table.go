package transport

import (
	"fmt"

	"github.com/udisondev/tilepath/internal/geo"
	"github.com/udisondev/tilepath/internal/intmap"
)

// Table maps a packed origin to its outgoing edges.
// Thread-safe for readers once built.
type Table struct {
	byOrigin *intmap.Map[[]Edge]
	edges    int
}

// NewTable groups edges by origin.
func NewTable(edges []Edge) (*Table, error) {
	grouped := make(map[geo.PackedPoint][]Edge)
	for _, e := range edges {
		grouped[e.Origin] = append(grouped[e.Origin], e)
	}

	t := &Table{byOrigin: intmap.New[[]Edge](len(grouped)), edges: len(edges)}
	for origin, list := range grouped {
		if err := t.byOrigin.Put(uint32(origin), list); err != nil {
			return nil, fmt.Errorf("indexing transports at %s: %w", origin, err)
		}
	}
	return t, nil
}

// Edges returns the edges leaving origin. The slice must not be modified.
func (t *Table) Edges(origin geo.PackedPoint) []Edge {
	if t == nil {
		return nil
	}
	edges, _ := t.byOrigin.Get(uint32(origin))
	return edges
}

// Origins returns the number of distinct origins.
func (t *Table) Origins() int {
	if t == nil {
		return 0
	}
	return t.byOrigin.Len()
}

// Len returns the total number of edges.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return t.edges
}
