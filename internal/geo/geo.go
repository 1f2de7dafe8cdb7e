package geo

import (
	"errors"
	"strconv"
	"strings"

	"github.com/radarview/overlay/pkg/core"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"
)

// GEO POINTS
// Geographic input arrives as EPSG:4326 (WGS84 degrees). The drawing
// surface works in projected EPSG:3857 meters scaled to surface units,
// so the reference projector converts through 3857. Recorded positions
// are stored as 3857 points so SQLite, which has no spatial awareness,
// can round-trip them through the geometry Scan function.

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// CoordinateFromString parses a string in the format "lat,lon" into a
// core.Coordinate.
func CoordinateFromString(coords string) (core.Coordinate, error) {
	coordsSplit := strings.Split(coords, ",")
	if len(coordsSplit) < 2 {
		return core.Coordinate{}, ErrInvalidCoordinates
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(coordsSplit[0]), 64)
	if err != nil {
		return core.Coordinate{}, ErrInvalidCoordinates
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(coordsSplit[1]), 64)
	if err != nil {
		return core.Coordinate{}, ErrInvalidCoordinates
	}
	c := core.Coordinate{Lat: lat, Lon: lon}
	if !c.Valid() {
		return core.Coordinate{}, ErrInvalidCoordinates
	}
	return c, nil
}

// Mercator converts a WGS84 coordinate to EPSG:3857 meters.
func Mercator(c core.Coordinate) (x, y float64, err error) {
	if !c.Valid() {
		return 0, 0, ErrInvalidCoordinates
	}
	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)
	x, y, _ = f(c.Lon, c.Lat, 0)
	return x, y, nil
}

// Point3857 creates a geometry point in EPSG:3857 from a WGS84
// coordinate, for storage in recorded sessions.
func Point3857(c core.Coordinate) (geom.Point, error) {
	x, y, err := Mercator(c)
	if err != nil {
		return geom.NewEmptyPoint(geom.DimXY), err
	}
	point, err := geom.NewPoint(
		geom.Coordinates{
			XY: geom.XY{X: x, Y: y},
		},
	)
	if err != nil {
		return geom.NewEmptyPoint(geom.DimXY), err
	}
	return point, nil
}
