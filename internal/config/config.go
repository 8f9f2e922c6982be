package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	WindowWidth  = 1280
	WindowHeight = 720
	TargetTPS    = 60

	AudioPath = "audio/track.wav"
	ExportDir = "exports"

	BandSmoothing = 0.86
	FadeStep      = 0.006

	// Vortex tuning. These are hand-tuned values, kept as configuration.
	BaseRadius      = 180.0
	RadiusVariation = 0.06
	RotationBase    = 0.00055
	RotationMusic   = 0.0085
	LineSlowFactor  = 0.22
	VortexApproach  = 0.09
	LineApproach    = 0.12
	DefaultVortex   = "SLOWHEAT"
	LineSpacing     = 44.0

	SpeedMin  = 0.1
	SpeedMax  = 3.0
	SpeedDown = 0.85
	SpeedUp   = 1.15

	DragCooldownMs = 45.0

	MicDevice      = -1
	MicSensitivity = 0.03
	MicSmoothing   = 0.8
	MicThreshold   = 0.03
	MicCooldownMs  = 400.0
	MicSampleRate  = 44100.0
)

// Config is the effective runtime configuration.
type Config struct {
	AudioPath string `mapstructure:"audio_path" yaml:"audio_path"`
	ExportDir string `mapstructure:"export_dir" yaml:"export_dir"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	Seed      uint64 `mapstructure:"seed" yaml:"seed"`
	ShowHUD   bool   `mapstructure:"hud" yaml:"hud"`
	Dialogs   bool   `mapstructure:"dialogs" yaml:"dialogs"`

	Window   WindowConfig   `mapstructure:"window" yaml:"window"`
	Playback PlaybackConfig `mapstructure:"playback" yaml:"playback"`
	Vortex   VortexConfig   `mapstructure:"vortex" yaml:"vortex"`
	Input    InputConfig    `mapstructure:"input" yaml:"input"`
	Mic      MicConfig      `mapstructure:"mic" yaml:"mic"`
}

type WindowConfig struct {
	Width  int    `mapstructure:"width" yaml:"width"`
	Height int    `mapstructure:"height" yaml:"height"`
	TPS    int    `mapstructure:"tps" yaml:"tps"`
	Title  string `mapstructure:"title" yaml:"title"`
}

type PlaybackConfig struct {
	FadeStep  float64 `mapstructure:"fade_step" yaml:"fade_step"`
	Smoothing float64 `mapstructure:"smoothing" yaml:"smoothing"`
}

type VortexConfig struct {
	BaseRadius      float64 `mapstructure:"base_radius" yaml:"base_radius"`
	RadiusVariation float64 `mapstructure:"radius_variation" yaml:"radius_variation"`
	RotationBase    float64 `mapstructure:"rotation_base" yaml:"rotation_base"`
	RotationMusic   float64 `mapstructure:"rotation_music" yaml:"rotation_music"`
	LineSlowFactor  float64 `mapstructure:"line_slow_factor" yaml:"line_slow_factor"`
	VortexApproach  float64 `mapstructure:"vortex_approach" yaml:"vortex_approach"`
	LineApproach    float64 `mapstructure:"line_approach" yaml:"line_approach"`
	LineSpacing     float64 `mapstructure:"line_spacing" yaml:"line_spacing"`
	DefaultText     string  `mapstructure:"default_text" yaml:"default_text"`
}

type InputConfig struct {
	SpeedMin       float64 `mapstructure:"speed_min" yaml:"speed_min"`
	SpeedMax       float64 `mapstructure:"speed_max" yaml:"speed_max"`
	SpeedDown      float64 `mapstructure:"speed_down" yaml:"speed_down"`
	SpeedUp        float64 `mapstructure:"speed_up" yaml:"speed_up"`
	DragCooldownMs float64 `mapstructure:"drag_cooldown_ms" yaml:"drag_cooldown_ms"`
}

type MicConfig struct {
	Enabled     bool    `mapstructure:"enabled" yaml:"enabled"`
	Device      int     `mapstructure:"device" yaml:"device"`
	Sensitivity float64 `mapstructure:"sensitivity" yaml:"sensitivity"`
	Smoothing   float64 `mapstructure:"smoothing" yaml:"smoothing"`
	Threshold   float64 `mapstructure:"threshold" yaml:"threshold"`
	CooldownMs  float64 `mapstructure:"cooldown_ms" yaml:"cooldown_ms"`
	SampleRate  float64 `mapstructure:"sample_rate" yaml:"sample_rate"`
}

// Default returns the configuration the toy ships with.
func Default() Config {
	return Config{
		AudioPath: AudioPath,
		ExportDir: ExportDir,
		LogLevel:  "info",
		Dialogs:   true,
		Window: WindowConfig{
			Width:  WindowWidth,
			Height: WindowHeight,
			TPS:    TargetTPS,
			Title:  "Ambient Vortex + Emotional Ripples + Mic Input",
		},
		Playback: PlaybackConfig{
			FadeStep:  FadeStep,
			Smoothing: BandSmoothing,
		},
		Vortex: VortexConfig{
			BaseRadius:      BaseRadius,
			RadiusVariation: RadiusVariation,
			RotationBase:    RotationBase,
			RotationMusic:   RotationMusic,
			LineSlowFactor:  LineSlowFactor,
			VortexApproach:  VortexApproach,
			LineApproach:    LineApproach,
			LineSpacing:     LineSpacing,
			DefaultText:     DefaultVortex,
		},
		Input: InputConfig{
			SpeedMin:       SpeedMin,
			SpeedMax:       SpeedMax,
			SpeedDown:      SpeedDown,
			SpeedUp:        SpeedUp,
			DragCooldownMs: DragCooldownMs,
		},
		Mic: MicConfig{
			Enabled:     true,
			Device:      MicDevice,
			Sensitivity: MicSensitivity,
			Smoothing:   MicSmoothing,
			Threshold:   MicThreshold,
			CooldownMs:  MicCooldownMs,
			SampleRate:  MicSampleRate,
		},
	}
}

// SetDefaults registers every default on v so file, env and flags can override them.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("audio_path", d.AudioPath)
	v.SetDefault("export_dir", d.ExportDir)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("hud", d.ShowHUD)
	v.SetDefault("dialogs", d.Dialogs)

	v.SetDefault("window.width", d.Window.Width)
	v.SetDefault("window.height", d.Window.Height)
	v.SetDefault("window.tps", d.Window.TPS)
	v.SetDefault("window.title", d.Window.Title)

	v.SetDefault("playback.fade_step", d.Playback.FadeStep)
	v.SetDefault("playback.smoothing", d.Playback.Smoothing)

	v.SetDefault("vortex.base_radius", d.Vortex.BaseRadius)
	v.SetDefault("vortex.radius_variation", d.Vortex.RadiusVariation)
	v.SetDefault("vortex.rotation_base", d.Vortex.RotationBase)
	v.SetDefault("vortex.rotation_music", d.Vortex.RotationMusic)
	v.SetDefault("vortex.line_slow_factor", d.Vortex.LineSlowFactor)
	v.SetDefault("vortex.vortex_approach", d.Vortex.VortexApproach)
	v.SetDefault("vortex.line_approach", d.Vortex.LineApproach)
	v.SetDefault("vortex.line_spacing", d.Vortex.LineSpacing)
	v.SetDefault("vortex.default_text", d.Vortex.DefaultText)

	v.SetDefault("input.speed_min", d.Input.SpeedMin)
	v.SetDefault("input.speed_max", d.Input.SpeedMax)
	v.SetDefault("input.speed_down", d.Input.SpeedDown)
	v.SetDefault("input.speed_up", d.Input.SpeedUp)
	v.SetDefault("input.drag_cooldown_ms", d.Input.DragCooldownMs)

	v.SetDefault("mic.enabled", d.Mic.Enabled)
	v.SetDefault("mic.device", d.Mic.Device)
	v.SetDefault("mic.sensitivity", d.Mic.Sensitivity)
	v.SetDefault("mic.smoothing", d.Mic.Smoothing)
	v.SetDefault("mic.threshold", d.Mic.Threshold)
	v.SetDefault("mic.cooldown_ms", d.Mic.CooldownMs)
	v.SetDefault("mic.sample_rate", d.Mic.SampleRate)
}

// Load reads the optional config file already set on v, applies env overrides
// and returns the validated result.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix("VORTEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the frame loop cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Window.TPS <= 0 {
		errs = append(errs, fmt.Errorf("window.tps must be positive, got %d", c.Window.TPS))
	}
	if c.Playback.Smoothing < 0 || c.Playback.Smoothing >= 1 {
		errs = append(errs, fmt.Errorf("playback.smoothing must be in [0,1), got %v", c.Playback.Smoothing))
	}
	if c.Playback.FadeStep <= 0 {
		errs = append(errs, fmt.Errorf("playback.fade_step must be positive, got %v", c.Playback.FadeStep))
	}
	if c.Input.SpeedMin <= 0 || c.Input.SpeedMin > c.Input.SpeedMax {
		errs = append(errs, fmt.Errorf("input speed bounds invalid: [%v, %v]", c.Input.SpeedMin, c.Input.SpeedMax))
	}
	if c.Mic.Smoothing < 0 || c.Mic.Smoothing >= 1 {
		errs = append(errs, fmt.Errorf("mic.smoothing must be in [0,1), got %v", c.Mic.Smoothing))
	}
	return errors.Join(errs...)
}

// Dump renders cfg as YAML.
func Dump(cfg Config) ([]byte, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return out, nil
}
