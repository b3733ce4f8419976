package geo

// Region grid dimensions.
const (
	RegionSize  = 64
	RegionTiles = RegionSize * RegionSize // 4096
	MaxPlanes   = 4
)

// Flag slots stored per tile. South and west passability are read from
// the neighbouring tile's north and east slots.
const (
	FlagNorth = 0
	FlagEast  = 1
	FlagCount = 2
)

// Bits per plane inside a region bitset.
const PlaneBits = RegionTiles * FlagCount // 8192

// Packed point layout: x in bits 0-14, y in bits 15-29, plane in bits 30-31.
const (
	coordBits  = 15
	coordMask  = 1<<coordBits - 1 // 0x7FFF
	planeShift = 2 * coordBits
	planeMask  = 0x3
)

// Unreachable is the distance reported between points on different planes.
const Unreachable = int(^uint(0) >> 1)
