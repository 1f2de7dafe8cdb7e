// Package handlers bridges dispatcher events to the reload coordinator.
// Each handler converts raw host arguments with the parser, feeds the
// coordinator, and reports results back through the dispatcher.
package handlers

import (
	"fmt"
	"strings"

	"github.com/radarview/overlay/internal/dispatcher"
	"github.com/radarview/overlay/internal/logging"
	"github.com/radarview/overlay/internal/parser"
	"github.com/radarview/overlay/internal/reload"
	"github.com/radarview/overlay/internal/util"
	"github.com/radarview/overlay/pkg/core"
)

// Dispatcher commands understood by the overlay.
const (
	CmdReload          = ":RELOAD:"
	CmdViewportChanged = ":VIEWPORT:CHANGED:"
	CmdIndicators      = ":INDICATORS:"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Coordinator *reload.Coordinator
	Parser      *parser.Parser
	LogManager  *logging.SlogManager
	WidgetName  string
}

// Service provides handler methods for processing host events
type Service struct {
	deps         Dependencies
	writeLogFunc func(functionName, data, level string)
}

// NewService creates a new handler service
func NewService(deps Dependencies) *Service {
	s := &Service{
		deps: deps,
	}
	// Default writeLog function uses the logging manager
	s.writeLogFunc = func(functionName, data, level string) {
		if deps.LogManager != nil {
			deps.LogManager.WriteLog(functionName, data, level)
		}
	}
	return s
}

func (s *Service) writeLog(functionName, data, level string) {
	s.writeLogFunc(functionName, data, level)
}

// HandleReload processes a reload command from the host.
// Args: [eventName, selfLocation, heading, annotationsJSON]
func (s *Service) HandleReload(data []string) (reload.Output, error) {
	functionName := CmdReload

	if len(data) < 4 {
		s.writeLog(functionName, fmt.Sprintf("Expected 4 args, got %d", len(data)), "ERROR")
		return reload.Output{}, fmt.Errorf("reload expects 4 args, got %d", len(data))
	}

	event, err := s.deps.Parser.ParseReloadEvent(data[0:1])
	if err != nil {
		s.writeLog(functionName, fmt.Sprintf("Error parsing reload event: %v", err), "ERROR")
		return reload.Output{}, err
	}

	selfLocation, err := s.deps.Parser.ParseSelfLocation(data[1:2])
	if err != nil {
		s.writeLog(functionName, fmt.Sprintf("Error parsing self location: %v", err), "ERROR")
		return reload.Output{}, err
	}

	// Heading is cosmetic, a malformed value is logged and skipped
	// rather than failing the whole reload.
	var heading *float64
	rawHeading := util.FixEscapeQuotes(util.TrimQuotes(strings.TrimSpace(data[2])))
	if rawHeading != "" && rawHeading != "null" {
		h, err := s.deps.Parser.ParseHeading(data[2:3])
		if err != nil {
			s.writeLog(functionName, fmt.Sprintf("Error parsing heading: %v", err), "WARN")
		} else {
			heading = &h
		}
	}

	annotations, err := s.deps.Parser.ParseAnnotations(data[3:4])
	if err != nil {
		s.writeLog(functionName, fmt.Sprintf("Error parsing annotations: %v", err), "ERROR")
		return reload.Output{}, err
	}

	return s.deps.Coordinator.OnReload(event, selfLocation, heading, annotations), nil
}

// HandleViewportChanged recomputes indicators after a user-driven
// pan, zoom or resize reported by the host.
func (s *Service) HandleViewportChanged() map[core.AnnotationID]*core.Indicator {
	return s.deps.Coordinator.ViewportChanged()
}

// RegisterHandlers registers all overlay command handlers with the dispatcher
func (s *Service) RegisterHandlers(d *dispatcher.Dispatcher) {
	d.Register(CmdReload, func(e dispatcher.Event) (any, error) {
		return s.HandleReload(e.Args)
	}, dispatcher.Logged())

	d.Register(CmdViewportChanged, func(e dispatcher.Event) (any, error) {
		return s.HandleViewportChanged(), nil
	})

	d.Register(CmdIndicators, func(e dispatcher.Event) (any, error) {
		return s.deps.Coordinator.Indicators(), nil
	})
}
