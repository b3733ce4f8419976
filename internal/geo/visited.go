package geo

// VisitedTiles marks tiles already queued during one search. It is not safe
// for concurrent use and must not outlive the search that created it.
type VisitedTiles struct {
	store   *FlagStore
	regions []*visitedRegion
}

// NewVisitedTiles returns an empty tracker sized to the store's extent.
func NewVisitedTiles(store *FlagStore) *VisitedTiles {
	return &VisitedTiles{
		store:   store,
		regions: make([]*visitedRegion, store.extent.Len()),
	}
}

// Get reports whether p has been visited. Tiles in regions outside the extent
// and planes beyond a region's data count as visited so the search never
// walks into them.
func (v *VisitedTiles) Get(p PackedPoint) bool {
	x, y, plane := p.Unpack()
	idx := v.store.extent.Index(x/RegionSize, y/RegionSize)
	if idx < 0 {
		return true
	}
	r := v.regions[idx]
	if r == nil {
		return false
	}
	return r.get(x%RegionSize, y%RegionSize, plane)
}

// Set marks p as visited, allocating its region on first use.
func (v *VisitedTiles) Set(p PackedPoint) {
	x, y, plane := p.Unpack()
	idx := v.store.extent.Index(x/RegionSize, y/RegionSize)
	if idx < 0 {
		return
	}
	r := v.regions[idx]
	if r == nil {
		r = newVisitedRegion(v.store.PlaneCount(idx))
		v.regions[idx] = r
	}
	r.set(x%RegionSize, y%RegionSize, plane)
}

// Clear drops every region allocation.
func (v *VisitedTiles) Clear() {
	clear(v.regions)
}

// visitedRegion keeps one 64-bit row mask per (plane, y).
type visitedRegion struct {
	planes int
	rows   []uint64
}

func newVisitedRegion(planes int) *visitedRegion {
	return &visitedRegion{planes: planes, rows: make([]uint64, planes*RegionSize)}
}

func (r *visitedRegion) get(x, y, plane int) bool {
	if plane >= r.planes {
		return true
	}
	return r.rows[plane*RegionSize+y]&(1<<x) != 0
}

func (r *visitedRegion) set(x, y, plane int) {
	if plane >= r.planes {
		return
	}
	r.rows[plane*RegionSize+y] |= 1 << x
}
