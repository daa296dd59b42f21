package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskbin/internal/paths"
	"github.com/mesh-intelligence/taskbin/internal/sqlite"
)

func newInitCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize taskbin storage",
		Long:  "Create the configuration and data directories, write a default config.yaml\nif none exists, then initialize the database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := paths.ResolveConfigDir(flags.configDir)
			if err != nil {
				return &systemError{fmt.Errorf("resolve config dir: %w", err)}
			}
			if err := writeConfigIfMissing(configDir, flags.dataDir); err != nil {
				return &systemError{fmt.Errorf("write config: %w", err)}
			}
			cfg, err := loadConfig(configDir, flags.dataDir)
			if err != nil {
				return &systemError{err}
			}

			backend := sqlite.NewBackend()
			if err := backend.Attach(cfg); err != nil {
				return &systemError{fmt.Errorf("initialize storage: %w", err)}
			}
			if err := backend.Detach(); err != nil {
				return &systemError{fmt.Errorf("finalize storage: %w", err)}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized taskbin\nconfig: %s\ndata:   %s\n", paths.ConfigFile(configDir), cfg.DataDir)
			return nil
		},
	}
}
