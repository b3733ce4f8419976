package geo

import "fmt"

// RegionKey identifies a region by its region-grid coordinates.
type RegionKey struct {
	X, Y int
}

func (k RegionKey) String() string {
	return fmt.Sprintf("%d_%d", k.X, k.Y)
}

// RegionOf returns the key of the region containing world tile (x, y).
func RegionOf(x, y int) RegionKey {
	return RegionKey{X: x / RegionSize, Y: y / RegionSize}
}

// RegionExtent is the inclusive bounding box of all loaded regions.
type RegionExtent struct {
	MinX, MinY, MaxX, MaxY int
}

// ExtentOf computes the extent covering every key.
func ExtentOf(keys []RegionKey) RegionExtent {
	if len(keys) == 0 {
		return RegionExtent{}
	}
	e := RegionExtent{MinX: keys[0].X, MinY: keys[0].Y, MaxX: keys[0].X, MaxY: keys[0].Y}
	for _, k := range keys[1:] {
		e.MinX = min(e.MinX, k.X)
		e.MinY = min(e.MinY, k.Y)
		e.MaxX = max(e.MaxX, k.X)
		e.MaxY = max(e.MaxY, k.Y)
	}
	return e
}

// Width returns the number of region columns.
func (e RegionExtent) Width() int { return e.MaxX - e.MinX + 1 }

// Height returns the number of region rows.
func (e RegionExtent) Height() int { return e.MaxY - e.MinY + 1 }

// Len returns the number of region slots covered by the extent.
func (e RegionExtent) Len() int { return e.Width() * e.Height() }

// Index returns the slot of region (regionX, regionY), or -1 when outside.
func (e RegionExtent) Index(regionX, regionY int) int {
	if regionX < e.MinX || regionX > e.MaxX || regionY < e.MinY || regionY > e.MaxY {
		return -1
	}
	return (regionX - e.MinX) + (regionY-e.MinY)*e.Width()
}

// FlagStore is the world-wide sparse grid of regions.
// Thread-safe for readers: regions are loaded once and never modified.
type FlagStore struct {
	extent      RegionExtent
	regions     []*Region
	planeCounts []uint8
	loaded      int
}

// NewFlagStore lays the given regions out on a grid sized by extent.
func NewFlagStore(extent RegionExtent, regions map[RegionKey]*Region) (*FlagStore, error) {
	s := &FlagStore{
		extent:      extent,
		regions:     make([]*Region, extent.Len()),
		planeCounts: make([]uint8, extent.Len()),
	}
	for key, r := range regions {
		idx := extent.Index(key.X, key.Y)
		if idx < 0 {
			return nil, fmt.Errorf("region %s outside extent %+v", key, extent)
		}
		if r == nil {
			continue
		}
		s.regions[idx] = r
		s.planeCounts[idx] = uint8(r.PlaneCount())
		s.loaded++
	}
	return s, nil
}

// Extent returns the region extent of the store.
func (s *FlagStore) Extent() RegionExtent {
	return s.extent
}

// Loaded returns the number of regions with data.
func (s *FlagStore) Loaded() int {
	return s.loaded
}

// PlaneCount returns the plane count of the region at slot idx.
func (s *FlagStore) PlaneCount(idx int) int {
	if idx < 0 || idx >= len(s.planeCounts) {
		return 0
	}
	return int(s.planeCounts[idx])
}

// Get returns the flag at (x, y, plane). Missing regions read as not passable.
func (s *FlagStore) Get(x, y, plane, flag int) bool {
	idx := s.extent.Index(x/RegionSize, y/RegionSize)
	if idx < 0 {
		return false
	}
	r := s.regions[idx]
	if r == nil {
		return false
	}
	return r.Get(x, y, plane, flag)
}
