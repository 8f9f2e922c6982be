package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/iburimskiy/ambient-vortex/internal/analysis"
	"github.com/iburimskiy/ambient-vortex/internal/palette"
)

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Print the band energy summary of a track without opening a window",
		Long: `Runs the same offline band analysis the visualizer uses and prints the
hop count, hop duration and the mean and peak of each normalized band.

Examples:
  vortex analyze --audio audio/track.wav`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if cfg.AudioPath == "" {
				return &StartupError{Stage: "analyze", Err: errors.New("--audio is required")}
			}

			wf, err := analysis.LoadWAV(cfg.AudioPath)
			if err != nil {
				return &StartupError{Stage: "load audio", Err: err}
			}
			series, err := analysis.Extract(wf)
			if err != nil {
				return &StartupError{Stage: "analyze audio", Err: err}
			}
			return writeSummary(cmd.OutOrStdout(), cfg.AudioPath, wf, series)
		},
	}
}

func writeSummary(w io.Writer, path string, wf analysis.Waveform, s *analysis.BandSeries) error {
	bands := []struct {
		name   string
		values []float64
	}{
		{"low", s.Low},
		{"mid", s.Mid},
		{"high", s.High},
	}

	if _, err := fmt.Fprintf(w, "track        %s\nsample rate  %d Hz\nduration     %s\nhops         %d (%.2f ms each)\n\n",
		path, wf.SampleRate, palette.FormatDuration(wf.Duration()), s.Len(), s.FrameDurationMs); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-6s %8s %8s\n", "band", "mean", "peak"); err != nil {
		return err
	}
	for _, b := range bands {
		mean, peak := 0.0, 0.0
		if len(b.values) > 0 {
			mean = stat.Mean(b.values, nil)
			peak = floats.Max(b.values)
		}
		if _, err := fmt.Fprintf(w, "%-6s %8.3f %8.3f\n", b.name, mean, peak); err != nil {
			return err
		}
	}
	return nil
}
