package pathfinding

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/tilepath/internal/geo"
	"github.com/udisondev/tilepath/internal/transport"
)

// openRegion builds region (0, 0) on plane 0 where every step between two
// open tiles is passable.
func openRegion(t *testing.T, open func(x, y int) bool) *geo.Region {
	t.Helper()
	r, err := geo.NewRegion(0, 0, 1)
	require.NoError(t, err)
	for x := range geo.RegionSize {
		for y := range geo.RegionSize {
			if !open(x, y) {
				continue
			}
			require.NoError(t, r.Set(x, y, 0, geo.FlagNorth, open(x, y+1)))
			require.NoError(t, r.Set(x, y, 0, geo.FlagEast, open(x+1, y)))
		}
	}
	return r
}

func storeOf(t *testing.T, r *geo.Region) *geo.FlagStore {
	t.Helper()
	s, err := geo.NewFlagStore(geo.RegionExtent{}, map[geo.RegionKey]*geo.Region{{X: 0, Y: 0}: r})
	require.NoError(t, err)
	return s
}

func rect(x0, y0, x1, y1 int) func(x, y int) bool {
	return func(x, y int) bool {
		return x >= x0 && x <= x1 && y >= y0 && y <= y1
	}
}

func tableOf(t *testing.T, edges ...transport.Edge) *transport.Table {
	t.Helper()
	table, err := transport.NewTable(edges)
	require.NoError(t, err)
	return table
}

func pt(x, y int) geo.Point {
	return geo.Point{X: x, Y: y}
}

// fakeClock advances by step on every reading.
type fakeClock struct {
	now  time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

func requireWalkable(t *testing.T, path []geo.Point) {
	t.Helper()
	for i := 1; i < len(path); i++ {
		require.Equal(t, 1, geo.Chebyshev(path[i-1].Pack(), path[i].Pack()),
			"step %d: %s -> %s", i, path[i-1], path[i])
	}
}
