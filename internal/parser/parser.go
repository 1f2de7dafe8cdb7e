// Package parser converts raw string arguments from the host map bridge
// into typed overlay values. Hosts deliver every argument as a string,
// so all coordinate, heading and annotation payloads pass through here
// before reaching the reload coordinator.
package parser

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/radarview/overlay/internal/geo"
	"github.com/radarview/overlay/internal/util"
	"github.com/radarview/overlay/pkg/core"
)

// Parser provides pure []string -> typed value conversion.
// It has zero external dependencies beyond a logger.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new parser with only a logger dependency
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

func cleanArgs(data []string) []string {
	out := make([]string, len(data))
	for i, v := range data {
		out[i] = util.FixEscapeQuotes(util.TrimQuotes(strings.TrimSpace(v)))
	}
	return out
}

// ParseReloadEvent maps a host event name to a reload trigger.
// Unrecognized names map to ReloadOther so hosts can extend their
// event vocabulary without breaking older overlays.
func (p *Parser) ParseReloadEvent(data []string) (core.ReloadEvent, error) {
	if len(data) == 0 {
		return core.ReloadOther, fmt.Errorf("missing event name")
	}
	name := cleanArgs(data)[0]

	switch name {
	case "annotations_changed":
		return core.ReloadAnnotationsChanged, nil
	case "self_location_changed":
		return core.ReloadSelfLocationChanged, nil
	case "heading_changed":
		return core.ReloadHeadingChanged, nil
	default:
		p.logger.Debug("Unknown reload event name", "name", name)
		return core.ReloadOther, nil
	}
}

// ParseSelfLocation parses a "lat,lon" argument into a coordinate.
// An empty or "null" argument means the host has no fix yet and yields nil.
func (p *Parser) ParseSelfLocation(data []string) (*core.Coordinate, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("missing self location")
	}
	raw := cleanArgs(data)[0]

	if raw == "" || raw == "null" {
		return nil, nil
	}

	c, err := geo.CoordinateFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("error parsing self location: %w", err)
	}
	return &c, nil
}

// ParseHeading parses a heading argument in degrees.
func (p *Parser) ParseHeading(data []string) (float64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("missing heading")
	}
	raw := cleanArgs(data)[0]

	heading, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("error parsing heading: %w", err)
	}
	return heading, nil
}

type annotationJSON struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ParseAnnotations parses a JSON array of annotations from the host.
// Input format: [{"id":"poi-1","lat":52.1,"lon":13.4}, ...]
func (p *Parser) ParseAnnotations(data []string) ([]core.Annotation, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("missing annotation payload")
	}
	raw := cleanArgs(data)[0]

	if raw == "" || raw == "[]" {
		return []core.Annotation{}, nil
	}

	var entries []annotationJSON
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("error parsing annotations: %w", err)
	}

	annotations := make([]core.Annotation, 0, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("annotation %d has empty id", i)
		}
		annotations = append(annotations, core.Annotation{
			ID:         core.AnnotationID(e.ID),
			Coordinate: core.Coordinate{Lat: e.Lat, Lon: e.Lon},
		})
	}
	return annotations, nil
}
