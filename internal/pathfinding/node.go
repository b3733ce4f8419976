package pathfinding

import (
	"slices"
	"sync/atomic"

	"github.com/udisondev/tilepath/internal/geo"
)

type nodeKind uint8

const (
	kindWalk nodeKind = iota
	kindTransport
)

// noNode marks the absence of a predecessor or best node.
const noNode int32 = -1

type node struct {
	point geo.PackedPoint
	prev  int32
	cost  int32
	kind  nodeKind
}

const (
	chunkBits = 12
	chunkSize = 1 << chunkBits
	chunkMask = chunkSize - 1
)

type chunk [chunkSize]node

// arena stores the nodes of one search by index. A single writer appends;
// readers resolve indices published to them through the atomic chunk
// directory. Slots are never rewritten once handed out.
type arena struct {
	chunks []*chunk
	dir    atomic.Pointer[[]*chunk]
	n      int32
}

func (a *arena) add(n node) int32 {
	i := a.n
	c := int(i >> chunkBits)
	if c == len(a.chunks) {
		a.chunks = append(a.chunks, new(chunk))
		dir := slices.Clone(a.chunks)
		a.dir.Store(&dir)
	}
	a.chunks[c][i&chunkMask] = n
	a.n++
	return i
}

// at returns node i for the writer.
func (a *arena) at(i int32) *node {
	return &a.chunks[i>>chunkBits][i&chunkMask]
}

// load returns node i for a reader that learned i from an atomic publish.
func (a *arena) load(i int32) node {
	dir := *a.dir.Load()
	return dir[i>>chunkBits][i&chunkMask]
}

func (a *arena) len() int {
	return int(a.n)
}
