package geo

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrTooManyPlanes is returned when a region blob holds more planes than a
// packed point can address.
var ErrTooManyPlanes = errors.New("region blob exceeds plane limit")

// Region holds the collision flags of one 64×64 tile block across all of its
// planes. Flags are immutable once loaded; Set exists for loaders and tests.
type Region struct {
	minX, minY int
	planes     int
	words      []uint64
}

// NewRegion returns an empty region with the given plane count. Its origin is
// the south-west tile of region (regionX, regionY).
func NewRegion(regionX, regionY, planes int) (*Region, error) {
	if planes < 0 || planes > MaxPlanes {
		return nil, fmt.Errorf("new region %d_%d: %d planes: %w", regionX, regionY, planes, ErrTooManyPlanes)
	}
	return &Region{
		minX:   regionX * RegionSize,
		minY:   regionY * RegionSize,
		planes: planes,
		words:  make([]uint64, planes*PlaneBits/64),
	}, nil
}

// LoadRegion decodes a little-endian bit-packed blob. Bit n of the blob lives
// in byte n/8 at position n%8. The plane count is derived from the highest
// non-zero byte, so trailing all-blocked planes are dropped.
func LoadRegion(regionX, regionY int, data []byte) (*Region, error) {
	n := len(data)
	for n > 0 && data[n-1] == 0 {
		n--
	}
	const planeBytes = PlaneBits / 8
	planes := (n + planeBytes - 1) / planeBytes

	r, err := NewRegion(regionX, regionY, planes)
	if err != nil {
		return nil, fmt.Errorf("load region: %w", err)
	}

	var buf [8]byte
	for i := range r.words {
		off := i * 8
		if off >= n {
			break
		}
		if off+8 <= n {
			r.words[i] = binary.LittleEndian.Uint64(data[off:])
			continue
		}
		buf = [8]byte{}
		copy(buf[:], data[off:n])
		r.words[i] = binary.LittleEndian.Uint64(buf[:])
	}
	return r, nil
}

// PlaneCount returns the number of planes with collision data.
func (r *Region) PlaneCount() int {
	return r.planes
}

// Get returns the flag at world tile (x, y, plane). Coordinates outside the
// region or its planes report false.
func (r *Region) Get(x, y, plane, flag int) bool {
	idx, ok := r.index(x, y, plane, flag)
	if !ok {
		return false
	}
	return r.words[idx>>6]&(1<<(idx&63)) != 0
}

// Set writes the flag at world tile (x, y, plane).
func (r *Region) Set(x, y, plane, flag int, value bool) error {
	idx, ok := r.index(x, y, plane, flag)
	if !ok {
		return fmt.Errorf("set flag [%d,%d,%d,%d]: outside region [%d..%d, %d..%d] with %d planes",
			x, y, plane, flag, r.minX, r.minX+RegionSize-1, r.minY, r.minY+RegionSize-1, r.planes)
	}
	if value {
		r.words[idx>>6] |= 1 << (idx & 63)
	} else {
		r.words[idx>>6] &^= 1 << (idx & 63)
	}
	return nil
}

// Bytes encodes the region in the format read by LoadRegion.
func (r *Region) Bytes() []byte {
	out := make([]byte, len(r.words)*8)
	for i, w := range r.words {
		binary.LittleEndian.PutUint64(out[i*8:], w)
	}
	return out
}

func (r *Region) index(x, y, plane, flag int) (int, bool) {
	if x < r.minX || x >= r.minX+RegionSize || y < r.minY || y >= r.minY+RegionSize ||
		plane < 0 || plane >= r.planes || flag < 0 || flag >= FlagCount {
		return 0, false
	}
	return (plane*RegionTiles+(y-r.minY)*RegionSize+(x-r.minX))*FlagCount + flag, true
}
