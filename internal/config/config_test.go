package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vortex.yaml")
	body := []byte("audio_path: music/other.wav\nvortex:\n  default_text: HELLO\nmic:\n  enabled: false\n  device: 3\n")
	require.NoError(t, os.WriteFile(path, body, 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "music/other.wav", cfg.AudioPath)
	assert.Equal(t, "HELLO", cfg.Vortex.DefaultText)
	assert.False(t, cfg.Mic.Enabled)
	assert.Equal(t, 3, cfg.Mic.Device)
	assert.Equal(t, BaseRadius, cfg.Vortex.BaseRadius)
	assert.Equal(t, MicSensitivity, cfg.Mic.Sensitivity)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	v := viper.New()
	v.SetConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := Load(v)
	assert.Error(t, err)
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Default()
	cfg.Window.TPS = 0
	cfg.Playback.Smoothing = 1
	cfg.Input.SpeedMin = 5

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window.tps")
	assert.Contains(t, err.Error(), "playback.smoothing")
	assert.Contains(t, err.Error(), "speed bounds")
}

func TestDumpRoundTripsThroughYAML(t *testing.T) {
	out, err := Dump(Default())
	require.NoError(t, err)

	var back Config
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, Default(), back)
}
