package cmd

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ncruces/zenity"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/iburimskiy/ambient-vortex/internal/analysis"
	"github.com/iburimskiy/ambient-vortex/internal/audio"
	"github.com/iburimskiy/ambient-vortex/internal/config"
	"github.com/iburimskiy/ambient-vortex/internal/game"
	"github.com/iburimskiy/ambient-vortex/internal/glyph"
	"github.com/iburimskiy/ambient-vortex/internal/logging"
	"github.com/iburimskiy/ambient-vortex/internal/mic"
)

// StartupError is a fatal failure before the first frame.
type StartupError struct {
	Stage string
	Err   error
}

func (e *StartupError) Error() string { return e.Stage + ": " + e.Err.Error() }
func (e *StartupError) Unwrap() error { return e.Err }

// flagKeys maps persistent flags to their config keys.
var flagKeys = map[string]string{
	"audio":      "audio_path",
	"export-dir": "export_dir",
	"log-level":  "log_level",
	"mic-device": "mic.device",
	"seed":       "seed",
	"hud":        "hud",
	"dialogs":    "dialogs",
}

type rootOptions struct {
	configFile string
	noMic      bool
	v          *viper.Viper
}

// NewRootCmd builds the vortex command tree with a fresh viper instance.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "vortex",
		Short: "Ambient vortex with emotional ripples and mic input",
		Long: `Plays a WAV track and draws a rotating vortex of glyphs driven by the
track's low, mid and high band energy.

Keys:
  Up / Down      fade the track out / in
  [ / ]          slow down / speed up the rotation
  any character  type into the line (spawns a ripple)
  Space          commit the line into the vortex
  Backspace      delete the last character
  Enter          save a screenshot
  Esc            quit

Clicking or dragging the mouse spawns ripples at the cursor, and so does
speaking into the microphone.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVortex(cmd, opts)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.configFile, "config", "", "config file (yaml)")
	f.String("audio", config.AudioPath, "WAV track to play, empty opens a file picker")
	f.String("export-dir", config.ExportDir, "directory for screenshots")
	f.String("log-level", "info", "log level (debug, info, warn, error)")
	f.BoolVar(&opts.noMic, "no-mic", false, "disable microphone reactivity")
	f.Int("mic-device", config.MicDevice, "input device index, -1 for the system default")
	f.Uint64("seed", 0, "random seed, 0 derives one from the clock")
	f.Bool("hud", false, "show the status overlay")
	f.Bool("dialogs", true, "use native dialogs for file picking and errors")

	cmd.AddCommand(newAnalyzeCmd(opts), newConfigCmd(opts))
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// load resolves the effective config from defaults, file, env and flags.
func (o *rootOptions) load(cmd *cobra.Command) (config.Config, error) {
	if o.configFile != "" {
		o.v.SetConfigFile(o.configFile)
	}
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		if err := o.v.BindPFlag(key, f); err != nil {
			bindErr = errors.Join(bindErr, fmt.Errorf("binding --%s: %w", f.Name, err))
		}
	})
	if bindErr != nil {
		return config.Config{}, bindErr
	}

	cfg, err := config.Load(o.v)
	if err != nil {
		return config.Config{}, &StartupError{Stage: "config", Err: err}
	}
	if o.noMic {
		cfg.Mic.Enabled = false
	}
	return cfg, nil
}

func runVortex(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := opts.load(cmd)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if err := play(cfg, log); err != nil {
		log.Errorw("startup failed", "error", err)
		if cfg.Dialogs {
			_ = zenity.Error(err.Error(), zenity.Title("Ambient Vortex"))
		}
		return err
	}
	return nil
}

func play(cfg config.Config, log *zap.SugaredLogger) error {
	path, err := resolveAudioPath(cfg)
	if err != nil {
		return err
	}
	if path == "" {
		log.Info("no track selected, exiting")
		return nil
	}

	wf, err := analysis.LoadWAV(path)
	if err != nil {
		return &StartupError{Stage: "load audio", Err: err}
	}
	series, err := analysis.Extract(wf)
	if err != nil {
		return &StartupError{Stage: "analyze audio", Err: err}
	}
	log.Infow("track analyzed",
		"path", path,
		"duration", wf.Duration(),
		"hops", series.Len(),
		"hop_ms", series.FrameDurationMs,
	)

	out, err := audio.OpenSpeaker(path)
	if err != nil {
		return &StartupError{Stage: "open speaker", Err: err}
	}
	defer func() {
		if err := out.Close(); err != nil {
			log.Warnw("closing speaker", "error", err)
		}
	}()

	var energy game.Energy
	if cfg.Mic.Enabled {
		src := mic.New(mic.Config{
			Device:      cfg.Mic.Device,
			Sensitivity: cfg.Mic.Sensitivity,
			Smoothing:   cfg.Mic.Smoothing,
			SampleRate:  cfg.Mic.SampleRate,
		}, log.Named("mic"))
		src.Start()
		// Stops before the speaker closes.
		defer src.Stop()
		energy = src
	}

	renderer, err := glyph.NewRenderer(glyph.FontSize)
	if err != nil {
		return &StartupError{Stage: "load font", Err: err}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	log.Debugw("seeding rng", "seed", seed)
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))

	engine := game.NewEngine(cfg, series, out, energy, rng, log)
	g := game.NewGame(engine, renderer, cfg, log)

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetTPS(cfg.Window.TPS)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("running game: %w", err)
	}
	log.Info("window closed")
	return nil
}

// resolveAudioPath returns the configured track or asks for one. An empty
// result with a nil error means the picker was cancelled.
func resolveAudioPath(cfg config.Config) (string, error) {
	if cfg.AudioPath != "" {
		return cfg.AudioPath, nil
	}
	if !cfg.Dialogs {
		return "", &StartupError{Stage: "select audio", Err: errors.New("no audio path given and dialogs are disabled")}
	}

	path, err := zenity.SelectFile(
		zenity.Title("Open WAV Track"),
		zenity.FileFilters{{
			Name:     "WAV audio",
			Patterns: []string{"*.wav"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", nil
		}
		return "", &StartupError{Stage: "select audio", Err: err}
	}
	return path, nil
}
