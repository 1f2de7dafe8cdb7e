package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/radarview/overlay/pkg/core"
)

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// WebsocketConfig holds streaming backend settings
type WebsocketConfig struct {
	URL    string `json:"url" mapstructure:"url"`
	Secret string `json:"secret" mapstructure:"secret"`
}

// StorageConfig selects and configures the session recording backend
type StorageConfig struct {
	Type      string
	Memory    MemoryConfig
	Websocket WebsocketConfig
}

// Storage builds the storage configuration from the loaded config.
func Storage() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		Websocket: WebsocketConfig{
			URL:    viper.GetString("websocket.url"),
			Secret: viper.GetString("websocket.secret"),
		},
	}
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./overlaylogs")
	viper.SetDefault("defaultTag", "overlay")

	viper.SetDefault("overlay.ringMargin", 1.5)
	viper.SetDefault("overlay.borderBand", 0.4)
	viper.SetDefault("overlay.minBorderRadius", 30.0)

	viper.SetDefault("start.mode", "centerOnSelf")
	viper.SetDefault("start.latDelta", 0.05)
	viper.SetDefault("start.lonDelta", 0.05)

	viper.SetDefault("tracking.mode", "nearBorder")
	viper.SetDefault("tracking.latDelta", 0.0)
	viper.SetDefault("tracking.lonDelta", 0.0)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./sessions")
	viper.SetDefault("storage.memory.compressOutput", true)

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "radarview")

	viper.SetDefault("websocket.url", "ws://localhost:5001/ws")
	viper.SetDefault("websocket.secret", "")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "overlay-metrics")
	viper.SetDefault("influx.bucket", "overlay_cycles")

	viper.SetDefault("api.serverUrl", "")
	viper.SetDefault("api.apiKey", "")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "radar_overlay")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
	viper.SetDefault("otel.batchTimeoutSeconds", 5)

	viper.SetConfigName("radar_overlay.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat64 returns a float config value.
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

// TrackingState builds the configured framing policy.
func TrackingState() core.TrackingState {
	state := core.TrackingState{}

	switch viper.GetString("start.mode") {
	case "fitAll":
		state.StartMode.Kind = core.StartFitAllAnnotations
	default:
		state.StartMode.Kind = core.StartCenterOnSelf
		state.StartMode.Span = core.Span{
			LatDelta: viper.GetFloat64("start.latDelta"),
			LonDelta: viper.GetFloat64("start.lonDelta"),
		}
	}

	switch viper.GetString("tracking.mode") {
	case "always":
		state.TrackingMode.Kind = core.TrackAlwaysCenterOnSelf
	case "nearBorder":
		state.TrackingMode.Kind = core.TrackCenterOnSelfNearBorder
	default:
		state.TrackingMode.Kind = core.TrackNone
	}
	state.TrackingMode.Span = core.Span{
		LatDelta: viper.GetFloat64("tracking.latDelta"),
		LonDelta: viper.GetFloat64("tracking.lonDelta"),
	}

	return state
}
