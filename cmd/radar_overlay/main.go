// Command radar_overlay runs the overlay core against a simulated host
// surface. It drives a scripted patrol through the dispatcher the same
// way an embedding host would, records the session through the
// configured storage backend and optionally uploads the export.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/radarview/overlay/internal/api"
	"github.com/radarview/overlay/internal/config"
	"github.com/radarview/overlay/internal/dispatcher"
	"github.com/radarview/overlay/internal/handlers"
	"github.com/radarview/overlay/internal/indicator"
	"github.com/radarview/overlay/internal/influx"
	"github.com/radarview/overlay/internal/logging"
	"github.com/radarview/overlay/internal/monitor"
	"github.com/radarview/overlay/internal/otel"
	"github.com/radarview/overlay/internal/parser"
	"github.com/radarview/overlay/internal/reload"
	"github.com/radarview/overlay/internal/session"
	"github.com/radarview/overlay/internal/sim"
	"github.com/radarview/overlay/internal/storage"
	"github.com/radarview/overlay/internal/tracking"
	"github.com/radarview/overlay/internal/worker"
	"github.com/radarview/overlay/pkg/core"
)

const widgetVersion = "1.0.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "radar_overlay:", err)
		os.Exit(1)
	}
}

func run() error {
	configDir := "."
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	infraLog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	if err := config.Load(configDir); err != nil {
		// Defaults cover a full local run, a missing file is not fatal.
		infraLog.Warn().Err(err).Msg("config not loaded, using defaults")
	}

	sessionStart := time.Now()
	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create logs dir: %w", err)
	}
	logFile, err := os.OpenFile(
		logging.LogFilePath(logsDir, "radar_overlay", sessionStart),
		os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666,
	)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	otelProvider, err := otel.New(otel.Config{
		Enabled:      config.GetBool("otel.enabled"),
		ServiceName:  config.GetString("otel.serviceName"),
		BatchTimeout: time.Duration(config.GetInt("otel.batchTimeoutSeconds")) * time.Second,
		LogWriter:    logFile,
		Endpoint:     config.GetString("otel.endpoint"),
		Insecure:     config.GetBool("otel.insecure"),
	})
	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}
	defer func() { _ = otelProvider.Shutdown(context.Background()) }()

	logManager := logging.NewSlogManager()
	logManager.Setup(logFile, config.GetString("logLevel"), otelProvider.LoggerProvider())
	logger := logManager.Logger()
	logManager.WriteLog("main", fmt.Sprintf("radar_overlay version %s starting", widgetVersion), "INFO")

	// Storage backend for session recording.
	backend, err := storage.NewBackend(config.Storage(), infraLog)
	if err != nil {
		return fmt.Errorf("failed to build storage backend: %w", err)
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("failed to init storage backend: %w", err)
	}
	defer backend.Close()

	hostName, _ := os.Hostname()
	sessionCtx := session.NewContext()
	sess := sessionCtx.Begin("Harbor Patrol", hostName, "radar_overlay", config.GetString("defaultTag"))
	if err := backend.StartSession(sess); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	logManager.SetContextProvider(func() []slog.Attr {
		if s := sessionCtx.GetSession(); s != nil {
			return []slog.Attr{slog.String("sessionId", s.SessionID)}
		}
		return nil
	})

	// Background writer draining cycle records into the backend.
	writer := worker.NewManager(backend, logger)
	writer.Start()

	recorder := reload.Recorder(writer)
	influxManager := influx.NewManager(infraLog, logsDir+"/influx_backup.lp")
	if config.GetBool("influx.enabled") {
		if err := influxManager.Connect(); err != nil {
			infraLog.Warn().Err(err).Msg("influx unavailable, metrics disabled")
		} else {
			defer influxManager.Close()
			recorder = &fanoutRecorder{recorders: []reload.Recorder{
				writer,
				&influxRecorder{manager: influxManager, sessionID: sess.SessionID},
			}}
		}
	}

	// Simulated host surface framing a harbor approach.
	surface := sim.NewSurface(core.Viewport{
		Region: core.Region{
			Center: core.Coordinate{Lat: 54.32, Lon: 10.13},
			Span:   core.Span{LatDelta: 0.05, LonDelta: 0.05},
		},
		PixelRadius: 160,
	}, core.Span{LatDelta: 2, LonDelta: 2})

	coordinator := reload.New(
		surface,
		config.TrackingState(),
		indicator.NewPlacer(config.GetFloat64("overlay.ringMargin"), logger),
		tracking.NewController(
			config.GetFloat64("overlay.borderBand"),
			config.GetFloat64("overlay.minBorderRadius"),
			logger,
		),
		reload.WithRecorder(recorder),
		reload.WithLogger(logger),
	)

	disp, err := dispatcher.New(logging.NewDispatcherLogger(infraLog))
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}
	svc := handlers.NewService(handlers.Dependencies{
		Coordinator: coordinator,
		Parser:      parser.NewParser(logger),
		LogManager:  logManager,
		WidgetName:  "radar_overlay",
	})
	svc.RegisterHandlers(disp)

	// Host-driven pan/zoom and resize notifications feed the second
	// placement entry point.
	go func() {
		for range surface.Changes().Receive() {
			if _, err := disp.Dispatch(dispatcher.Event{
				Command:   handlers.CmdViewportChanged,
				Timestamp: time.Now(),
			}); err != nil {
				logger.Error("viewport dispatch failed", "error", err)
			}
		}
	}()

	mon := monitor.NewService(monitor.Dependencies{
		Coordinator:    coordinator,
		WorkerManager:  writer,
		SessionContext: sessionCtx,
		LogManager:     logManager,
	})
	mon.Start(5 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runScenario(ctx, disp, surface, logger)

	mon.Stop()
	writer.Stop()
	logManager.WriteLog("main", mon.StatusJSON(), "INFO")

	if err := backend.EndSession(); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	if err := logManager.Flush(context.Background()); err != nil {
		logger.Warn("log flush failed", "error", err)
	}

	if uploadable, ok := backend.(storage.Uploadable); ok {
		uploadExport(uploadable, sessionCtx, infraLog)
	}

	logManager.WriteLog("main", "session complete", "INFO")
	return nil
}

// uploadExport pushes the exported session file to the archive server
// when one is configured. Upload failures are logged, never fatal: the
// export stays on disk for a manual retry.
func uploadExport(uploadable storage.Uploadable, sessionCtx *session.Context, log zerolog.Logger) {
	serverURL := config.GetString("api.serverUrl")
	if serverURL == "" {
		return
	}
	path := uploadable.GetExportedFilePath()
	if path == "" {
		return
	}

	client := api.New(serverURL, config.GetString("api.apiKey"))
	if err := client.Healthcheck(); err != nil {
		log.Warn().Err(err).Msg("archive server offline, skipping upload")
		return
	}
	if err := client.Upload(path, sessionCtx.Metadata()); err != nil {
		log.Error().Err(err).Str("file", path).Msg("session upload failed")
		return
	}
	log.Info().Str("file", path).Msg("session uploaded")
}

// fanoutRecorder forwards each cycle record to every recorder.
type fanoutRecorder struct {
	recorders []reload.Recorder
}

func (f *fanoutRecorder) RecordCycle(rec core.CycleRecord) {
	for _, r := range f.recorders {
		r.RecordCycle(rec)
	}
}

// influxRecorder writes per-cycle metrics to InfluxDB.
type influxRecorder struct {
	manager   *influx.Manager
	sessionID string
}

func (r *influxRecorder) RecordCycle(rec core.CycleRecord) {
	_ = r.manager.WriteCycleMetrics(context.Background(), r.sessionID, rec)
}
