package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/radarview/overlay/internal/dispatcher"
	"github.com/radarview/overlay/internal/handlers"
	"github.com/radarview/overlay/internal/sim"
	"github.com/radarview/overlay/pkg/core"
)

// poi is the wire shape for scripted annotations.
type poi struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// runScenario drives a scripted patrol through the dispatcher: a slow
// run up the harbor approach with fixed points of interest, a mid-run
// annotation change, and a user pan near the end. It stops early when
// ctx is cancelled.
func runScenario(ctx context.Context, disp *dispatcher.Dispatcher, surface *sim.Surface, logger *slog.Logger) {
	pois := []poi{
		{ID: "breakwater-light", Lat: 54.36, Lon: 10.15},
		{ID: "pilot-station", Lat: 54.33, Lon: 10.16},
		{ID: "fairway-buoy", Lat: 54.50, Lon: 10.28},
		{ID: "anchorage-east", Lat: 54.38, Lon: 10.90},
	}

	self := core.Coordinate{Lat: 54.31, Lon: 10.12}
	heading := 32.0

	dispatchReload(disp, "self_location_changed", self, heading, pois, logger)

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for cycle := 1; cycle <= 60; cycle++ {
		select {
		case <-ctx.Done():
			logger.Info("scenario interrupted", "cycle", cycle)
			return
		case <-ticker.C:
		}

		event := "self_location_changed"
		switch cycle {
		case 20:
			// A new contact appears well outside the visible region.
			pois = append(pois, poi{ID: "inbound-ferry", Lat: 54.70, Lon: 10.60})
			event = "annotations_changed"
		case 35:
			// The ferry clears the fairway and is removed again.
			pois = pois[:len(pois)-1]
			event = "annotations_changed"
		case 45:
			// Operator pans the view away from the self marker.
			surface.SetRegion(core.Region{
				Center: core.Coordinate{Lat: 54.45, Lon: 10.30},
				Span:   core.Span{LatDelta: 0.1, LonDelta: 0.1},
			})
			continue
		default:
			self.Lat += 0.002
			self.Lon += 0.001
			heading += 1.5
			if heading >= 360 {
				heading -= 360
			}
		}

		dispatchReload(disp, event, self, heading, pois, logger)
	}

	// Give the host notification goroutine time to drain the final
	// viewport change before teardown.
	time.Sleep(100 * time.Millisecond)
}

func dispatchReload(disp *dispatcher.Dispatcher, event string, self core.Coordinate, heading float64, pois []poi, logger *slog.Logger) {
	args, err := reloadArgs(event, self, heading, pois)
	if err != nil {
		logger.Error("failed to encode reload args", "error", err)
		return
	}
	if _, err := disp.Dispatch(dispatcher.Event{
		Command:   handlers.CmdReload,
		Args:      args,
		Timestamp: time.Now(),
	}); err != nil {
		logger.Error("reload dispatch failed", "event", event, "error", err)
	}
}

func reloadArgs(event string, self core.Coordinate, heading float64, pois []poi) ([]string, error) {
	annotations, err := json.Marshal(pois)
	if err != nil {
		return nil, err
	}
	return []string{
		event,
		fmt.Sprintf("%f,%f", self.Lat, self.Lon),
		fmt.Sprintf("%f", heading),
		string(annotations),
	}, nil
}
