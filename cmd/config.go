package cmd

import (
	"github.com/spf13/cobra"

	"github.com/iburimskiy/ambient-vortex/internal/config"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Long: `Resolves defaults, the config file, VORTEX_* environment variables and
flags, validates the result and prints it.

Examples:
  vortex config
  vortex --config vortex.yaml --hud config`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			out, err := config.Dump(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
