package geo

import (
	"encoding/json"
	"fmt"

	"github.com/radarview/overlay/pkg/core"

	geom "github.com/peterstace/simplefeatures/geom"
)

// EncodeTrail serializes a sequence of self locations as a JSON array
// of [lon,lat] pairs, the format recorded sessions store trails in.
func EncodeTrail(coords []core.Coordinate) (string, error) {
	pairs := make([][]float64, 0, len(coords))
	for _, c := range coords {
		if !c.Valid() {
			continue
		}
		pairs = append(pairs, []float64{c.Lon, c.Lat})
	}
	data, err := json.Marshal(pairs)
	if err != nil {
		return "", fmt.Errorf("failed to encode trail: %w", err)
	}
	return string(data), nil
}

// ParseTrail parses a JSON array of [lon,lat] pairs into a
// geom.LineString. Input format: "[[x1,y1],[x2,y2],...]"
func ParseTrail(input string) (geom.LineString, error) {
	var coords [][]float64
	if err := json.Unmarshal([]byte(input), &coords); err != nil {
		return geom.LineString{}, fmt.Errorf("failed to parse trail JSON: %w", err)
	}

	if len(coords) < 2 {
		return geom.LineString{}, fmt.Errorf("trail must have at least 2 points, got %d", len(coords))
	}

	flatCoords := make([]float64, 0, len(coords)*2)
	for i, coord := range coords {
		if len(coord) < 2 {
			return geom.LineString{}, fmt.Errorf("coordinate %d has insufficient values", i)
		}
		flatCoords = append(flatCoords, coord[0], coord[1])
	}

	seq := geom.NewSequence(flatCoords, geom.DimXY)
	ls, err := geom.NewLineString(seq)
	if err != nil {
		return geom.LineString{}, fmt.Errorf("failed to build trail linestring: %w", err)
	}
	return ls, nil
}
