package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radarview/overlay/pkg/core"
)

func TestCoordinateFromString(t *testing.T) {
	c, err := CoordinateFromString("52.52,13.405")
	require.NoError(t, err)
	assert.InDelta(t, 52.52, c.Lat, 1e-9)
	assert.InDelta(t, 13.405, c.Lon, 1e-9)
}

func TestCoordinateFromString_WithSpaces(t *testing.T) {
	c, err := CoordinateFromString(" 48.8566 , 2.3522 ")
	require.NoError(t, err)
	assert.InDelta(t, 48.8566, c.Lat, 1e-9)
	assert.InDelta(t, 2.3522, c.Lon, 1e-9)
}

func TestCoordinateFromString_Invalid(t *testing.T) {
	cases := []string{"", "52.52", "abc,def", "95.0,10.0", "10.0,190.0"}
	for _, in := range cases {
		_, err := CoordinateFromString(in)
		assert.ErrorIs(t, err, ErrInvalidCoordinates, "input %q", in)
	}
}

func TestMercator_Equator(t *testing.T) {
	x, y, err := Mercator(core.Coordinate{Lat: 0, Lon: 0})
	require.NoError(t, err)
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)
}

func TestMercator_RejectsInvalid(t *testing.T) {
	_, _, err := Mercator(core.Coordinate{Lat: math.NaN(), Lon: 0})
	assert.ErrorIs(t, err, ErrInvalidCoordinates)
}

func TestMercator_LonIsMonotonic(t *testing.T) {
	x1, _, err := Mercator(core.Coordinate{Lat: 10, Lon: 10})
	require.NoError(t, err)
	x2, _, err := Mercator(core.Coordinate{Lat: 10, Lon: 20})
	require.NoError(t, err)
	assert.Greater(t, x2, x1)
}

func TestFitRegion(t *testing.T) {
	coords := []core.Coordinate{
		{Lat: 10, Lon: 10},
		{Lat: 20, Lon: 30},
	}
	region, ok := FitRegion(coords, DefaultFitPadding)
	require.True(t, ok)
	assert.InDelta(t, 15, region.Center.Lat, 1e-9)
	assert.InDelta(t, 20, region.Center.Lon, 1e-9)
	// 10 degrees of latitude extent plus 10% padding per side.
	assert.InDelta(t, 12, region.Span.LatDelta, 1e-9)
	assert.InDelta(t, 24, region.Span.LonDelta, 1e-9)
}

func TestFitRegion_SkipsInvalid(t *testing.T) {
	coords := []core.Coordinate{
		{Lat: math.NaN(), Lon: 5},
		{Lat: 10, Lon: 10},
	}
	region, ok := FitRegion(coords, 0)
	require.True(t, ok)
	assert.InDelta(t, 10, region.Center.Lat, 1e-9)
}

func TestFitRegion_Empty(t *testing.T) {
	_, ok := FitRegion(nil, DefaultFitPadding)
	assert.False(t, ok)

	_, ok = FitRegion([]core.Coordinate{{Lat: math.NaN(), Lon: 0}}, DefaultFitPadding)
	assert.False(t, ok)
}

func TestFitRegion_SinglePointFloor(t *testing.T) {
	region, ok := FitRegion([]core.Coordinate{{Lat: 1, Lon: 2}}, DefaultFitPadding)
	require.True(t, ok)
	assert.Equal(t, 0.001, region.Span.LatDelta)
	assert.Equal(t, 0.001, region.Span.LonDelta)
}

func TestEncodeAndParseTrail(t *testing.T) {
	coords := []core.Coordinate{
		{Lat: 52.0, Lon: 13.0},
		{Lat: 52.1, Lon: 13.1},
		{Lat: math.NaN(), Lon: 13.2}, // dropped
	}
	encoded, err := EncodeTrail(coords)
	require.NoError(t, err)

	ls, err := ParseTrail(encoded)
	require.NoError(t, err)
	seq := ls.Coordinates()
	require.Equal(t, 2, seq.Length())
	assert.InDelta(t, 13.0, seq.GetXY(0).X, 1e-9)
	assert.InDelta(t, 52.0, seq.GetXY(0).Y, 1e-9)
}

func TestParseTrail_TooShort(t *testing.T) {
	_, err := ParseTrail("[[1,2]]")
	assert.Error(t, err)
}
