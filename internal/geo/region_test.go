package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRegionPlaneCount(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		last   int // index of the last non-zero byte, -1 for none
		planes int
	}{
		{"empty", 0, -1, 0},
		{"all zero", 4096, -1, 0},
		{"first byte", 1, 0, 1},
		{"end of plane 0", 1024, 1023, 1},
		{"start of plane 1", 1025, 1024, 2},
		{"trailing zeros trimmed", 4096, 1500, 2},
		{"four planes", 4096, 4095, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]byte, tt.size)
			if tt.last >= 0 {
				data[tt.last] = 0x80
			}
			r, err := LoadRegion(0, 0, data)
			require.NoError(t, err)
			assert.Equal(t, tt.planes, r.PlaneCount())
		})
	}
}

func TestLoadRegionTooManyPlanes(t *testing.T) {
	data := make([]byte, 4097)
	data[4096] = 1
	_, err := LoadRegion(0, 0, data)
	require.ErrorIs(t, err, ErrTooManyPlanes)
}

func TestLoadRegionBitOrder(t *testing.T) {
	data := make([]byte, 1024)
	// bit 0: tile (0,0) north; bit 3: tile (1,0) east; bit 129: tile (0,1) east
	data[0] = 0b0000_1001
	data[16] = 0b0000_0010

	r, err := LoadRegion(2, 3, data)
	require.NoError(t, err)

	ox, oy := 2*RegionSize, 3*RegionSize
	assert.True(t, r.Get(ox, oy, 0, FlagNorth))
	assert.False(t, r.Get(ox, oy, 0, FlagEast))
	assert.True(t, r.Get(ox+1, oy, 0, FlagEast))
	assert.False(t, r.Get(ox+1, oy, 0, FlagNorth))
	assert.True(t, r.Get(ox, oy+1, 0, FlagEast))
}

func TestRegionSetGetBytes(t *testing.T) {
	r, err := NewRegion(1, 1, 2)
	require.NoError(t, err)

	require.NoError(t, r.Set(64, 64, 0, FlagNorth, true))
	require.NoError(t, r.Set(127, 127, 1, FlagEast, true))
	assert.True(t, r.Get(64, 64, 0, FlagNorth))
	assert.True(t, r.Get(127, 127, 1, FlagEast))

	require.NoError(t, r.Set(64, 64, 0, FlagNorth, false))
	assert.False(t, r.Get(64, 64, 0, FlagNorth))

	back, err := LoadRegion(1, 1, r.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 2, back.PlaneCount())
	assert.True(t, back.Get(127, 127, 1, FlagEast))
}

func TestRegionOutOfBounds(t *testing.T) {
	r, err := NewRegion(0, 0, 1)
	require.NoError(t, err)
	for x := range RegionSize {
		for y := range RegionSize {
			require.NoError(t, r.Set(x, y, 0, FlagNorth, true))
		}
	}

	assert.False(t, r.Get(-1, 0, 0, FlagNorth))
	assert.False(t, r.Get(RegionSize, 0, 0, FlagNorth))
	assert.False(t, r.Get(0, RegionSize, 0, FlagNorth))
	assert.False(t, r.Get(0, 0, 1, FlagNorth), "plane beyond count")
	assert.False(t, r.Get(0, 0, 0, 2), "flag beyond count")
	assert.Error(t, r.Set(0, 0, 1, FlagNorth, true))
}

func TestNewRegionRejectsPlanes(t *testing.T) {
	_, err := NewRegion(0, 0, MaxPlanes+1)
	require.ErrorIs(t, err, ErrTooManyPlanes)
}
