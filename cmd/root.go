package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jmir-tools/acekit/internal/config"
)

func NewRootCmd() *cobra.Command {
	cfg := config.Default()
	var configPath string
	var logLevel string

	cmd := &cobra.Command{
		Use:   "acekit",
		Short: "ACE project archive and music metadata toolkit",
		Long: `acekit packages ACE XML documents (taxonomies, feature definitions, feature
vectors and classifications) into self-describing project archives, decodes
and sniffs those documents, and reconciles near-duplicate music metadata.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load reads a .env file if present before the environment
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				loaded.LogLevel = logLevel
			}
			*cfg = *loaded
			return config.SetupLogging(cfg.LogLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	// Add subcommands
	cmd.AddCommand(newProjectCmd(cfg))
	cmd.AddCommand(newMetaCmd(cfg))

	return cmd
}
