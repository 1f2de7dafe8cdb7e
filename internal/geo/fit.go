package geo

import (
	"github.com/radarview/overlay/pkg/core"
)

// DefaultFitPadding is the fraction of the computed span added on each
// axis when fitting a region around a set of annotations. The fit is an
// area-fit with a fixed margin, independent of any configured span.
const DefaultFitPadding = 0.1

// minFitSpanDeg keeps the fitted region from collapsing when all
// annotations share a coordinate.
const minFitSpanDeg = 0.001

// FitRegion computes the minimal bounding region covering every
// coordinate, expanded by the padding fraction per axis. The second
// return is false when no valid coordinate was provided.
func FitRegion(coords []core.Coordinate, padding float64) (core.Region, bool) {
	var (
		minLat, maxLat float64
		minLon, maxLon float64
		seen           bool
	)
	for _, c := range coords {
		if !c.Valid() {
			continue
		}
		if !seen {
			minLat, maxLat = c.Lat, c.Lat
			minLon, maxLon = c.Lon, c.Lon
			seen = true
			continue
		}
		if c.Lat < minLat {
			minLat = c.Lat
		}
		if c.Lat > maxLat {
			maxLat = c.Lat
		}
		if c.Lon < minLon {
			minLon = c.Lon
		}
		if c.Lon > maxLon {
			maxLon = c.Lon
		}
	}
	if !seen {
		return core.Region{}, false
	}

	latDelta := (maxLat - minLat) * (1 + 2*padding)
	lonDelta := (maxLon - minLon) * (1 + 2*padding)
	if latDelta < minFitSpanDeg {
		latDelta = minFitSpanDeg
	}
	if lonDelta < minFitSpanDeg {
		lonDelta = minFitSpanDeg
	}

	return core.Region{
		Center: core.Coordinate{
			Lat: (minLat + maxLat) / 2,
			Lon: (minLon + maxLon) / 2,
		},
		Span: core.Span{LatDelta: latDelta, LonDelta: lonDelta},
	}, true
}
