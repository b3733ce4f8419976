package pathfinding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/tilepath/internal/geo"
	"github.com/udisondev/tilepath/internal/transport"
)

func TestCollisionMapOrthogonal(t *testing.T) {
	m := NewCollisionMap(storeOf(t, openRegion(t, rect(1, 1, 3, 3))))

	assert.True(t, m.North(2, 2, 0))
	assert.True(t, m.South(2, 2, 0))
	assert.True(t, m.East(2, 2, 0))
	assert.True(t, m.West(2, 2, 0))

	assert.False(t, m.North(2, 3, 0))
	assert.False(t, m.South(2, 1, 0))
	assert.False(t, m.East(3, 2, 0))
	assert.False(t, m.West(1, 2, 0))
	assert.False(t, m.South(0, 0, 0))
	assert.False(t, m.West(0, 0, 0))
}

func TestCollisionMapDiagonal(t *testing.T) {
	ne := geo.Direction{DX: 1, DY: 1}
	tests := []struct {
		name string
		wall func(*geo.Region) error
		want bool
	}{
		{"open", func(*geo.Region) error { return nil }, true},
		{"origin north", func(r *geo.Region) error { return r.Set(2, 2, 0, geo.FlagNorth, false) }, false},
		{"origin east", func(r *geo.Region) error { return r.Set(2, 2, 0, geo.FlagEast, false) }, false},
		{"east tile north", func(r *geo.Region) error { return r.Set(3, 2, 0, geo.FlagNorth, false) }, false},
		{"north tile east", func(r *geo.Region) error { return r.Set(2, 3, 0, geo.FlagEast, false) }, false},
		{"unrelated wall", func(r *geo.Region) error { return r.Set(3, 3, 0, geo.FlagNorth, false) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := openRegion(t, rect(0, 0, 5, 5))
			require.NoError(t, tt.wall(r))
			m := NewCollisionMap(storeOf(t, r))

			assert.Equal(t, tt.want, m.Diagonal(2, 2, 0, ne))
		})
	}
}

func TestCollisionMapIsBlocked(t *testing.T) {
	open := func(x, y int) bool {
		return rect(0, 0, 4, 4)(x, y) && !(x == 2 && y == 2)
	}
	m := NewCollisionMap(storeOf(t, openRegion(t, open)))

	assert.True(t, m.IsBlocked(2, 2, 0))
	assert.False(t, m.IsBlocked(1, 2, 0))
	assert.True(t, m.IsBlocked(10, 10, 0))
	assert.True(t, m.IsBlocked(100, 100, 0))
}

func TestCollisionMapNeighbors(t *testing.T) {
	store := storeOf(t, openRegion(t, rect(0, 0, 4, 4)))
	table := tableOf(t, transport.Edge{
		Origin:      geo.Pack(2, 2, 0),
		Destination: geo.Pack(40, 40, 0),
		Cost:        6,
		Kind:        transport.KindSpiritTree,
	})

	m := NewCollisionMap(store)
	visited := geo.NewVisitedTiles(store)
	visited.Set(geo.Pack(1, 2, 0))

	got := m.neighbors(geo.Pack(2, 2, 0), visited, table)

	require.Len(t, got, 8)
	assert.Equal(t, candidate{point: geo.Pack(40, 40, 0), extra: 6, kind: kindTransport}, got[0])

	var walks []geo.PackedPoint
	for _, c := range got[1:] {
		assert.Equal(t, kindWalk, c.kind)
		walks = append(walks, c.point)
	}
	assert.Equal(t, []geo.PackedPoint{
		geo.Pack(3, 2, 0),
		geo.Pack(2, 1, 0),
		geo.Pack(2, 3, 0),
		geo.Pack(1, 1, 0),
		geo.Pack(3, 1, 0),
		geo.Pack(1, 3, 0),
		geo.Pack(3, 3, 0),
	}, walks)
}

func TestCollisionMapNeighborsAtOrigin(t *testing.T) {
	store := storeOf(t, openRegion(t, rect(0, 0, 4, 4)))
	m := NewCollisionMap(store)

	got := m.neighbors(geo.Pack(0, 0, 0), geo.NewVisitedTiles(store), nil)

	points := make([]geo.PackedPoint, 0, len(got))
	for _, c := range got {
		points = append(points, c.point)
	}
	assert.Equal(t, []geo.PackedPoint{geo.Pack(1, 0, 0), geo.Pack(0, 1, 0), geo.Pack(1, 1, 0)}, points)
}

func TestDeque(t *testing.T) {
	var d deque
	for i := range int32(40) {
		d.pushBack(i)
	}
	d.pushFront(-1)
	d.pushFront(-2)

	require.Equal(t, 42, d.len())
	assert.Equal(t, int32(-2), d.front())

	var got []int32
	for d.len() > 0 {
		got = append(got, d.popFront())
	}
	assert.Equal(t, []int32{-2, -1}, got[:2])
	assert.Equal(t, int32(39), got[len(got)-1])
}

func TestPendingQueueOrder(t *testing.T) {
	var q pendingQueue
	q.push(1, 10)
	q.push(2, 5)
	q.push(3, 10)
	q.push(4, 5)

	var got []int32
	for q.len() > 0 {
		got = append(got, q.pop())
	}
	assert.Equal(t, []int32{2, 4, 1, 3}, got)
}

func TestArenaGrowsAcrossChunks(t *testing.T) {
	var a arena
	for i := range chunkSize + 10 {
		idx := a.add(node{point: geo.Pack(i%100, i/100, 0), prev: int32(i) - 1})
		require.Equal(t, int32(i), idx)
	}

	assert.Equal(t, chunkSize+10, a.len())
	last := int32(chunkSize + 9)
	assert.Equal(t, *a.at(last), a.load(last))
	assert.Equal(t, last-1, a.load(last).prev)
}
