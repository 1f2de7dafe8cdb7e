package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radarview/overlay/pkg/core"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "radar_overlay.cfg.json"), []byte(contents), 0644))
	return dir
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"logLevel": "debug",
		"overlay": { "ringMargin": 2.0 },
		"db": { "host": "10.0.0.1", "port": "5433" }
	}`)

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, 2.0, viper.GetFloat64("overlay.ringMargin"))
	assert.Equal(t, "10.0.0.1", viper.GetString("db.host"))
	assert.Equal(t, "5433", viper.GetString("db.port"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{}`)

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./overlaylogs", viper.GetString("logsDir"))
	assert.Equal(t, 1.5, viper.GetFloat64("overlay.ringMargin"))
	assert.Equal(t, 0.4, viper.GetFloat64("overlay.borderBand"))
	assert.Equal(t, 30.0, viper.GetFloat64("overlay.minBorderRadius"))
	assert.Equal(t, "centerOnSelf", viper.GetString("start.mode"))
	assert.Equal(t, "nearBorder", viper.GetString("tracking.mode"))
	assert.Equal(t, "memory", viper.GetString("storage.type"))
	assert.Equal(t, "./sessions", viper.GetString("storage.memory.outputDir"))
	assert.Equal(t, true, viper.GetBool("storage.memory.compressOutput"))
	assert.Equal(t, "localhost", viper.GetString("db.host"))
	assert.Equal(t, false, viper.GetBool("influx.enabled"))
	assert.Equal(t, "", viper.GetString("api.serverUrl"))
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestTrackingState_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{}`)
	require.NoError(t, Load(dir))

	state := TrackingState()
	assert.Equal(t, core.StartCenterOnSelf, state.StartMode.Kind)
	assert.Equal(t, core.Span{LatDelta: 0.05, LonDelta: 0.05}, state.StartMode.Span)
	assert.Equal(t, core.TrackCenterOnSelfNearBorder, state.TrackingMode.Kind)
	assert.True(t, state.TrackingMode.Span.IsZero(), "zero span preserves the current zoom")
	assert.False(t, state.HasFramedOnce)
}

func TestTrackingState_FitAllAndAlways(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"start": { "mode": "fitAll" },
		"tracking": { "mode": "always", "latDelta": 0.2, "lonDelta": 0.3 }
	}`)
	require.NoError(t, Load(dir))

	state := TrackingState()
	assert.Equal(t, core.StartFitAllAnnotations, state.StartMode.Kind)
	assert.Equal(t, core.TrackAlwaysCenterOnSelf, state.TrackingMode.Kind)
	assert.Equal(t, core.Span{LatDelta: 0.2, LonDelta: 0.3}, state.TrackingMode.Span)
}

func TestTrackingState_UnknownModesFallBack(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"start": { "mode": "bogus" },
		"tracking": { "mode": "bogus" }
	}`)
	require.NoError(t, Load(dir))

	state := TrackingState()
	assert.Equal(t, core.StartCenterOnSelf, state.StartMode.Kind)
	assert.Equal(t, core.TrackNone, state.TrackingMode.Kind)
}
