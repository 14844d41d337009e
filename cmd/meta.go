package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jmir-tools/acekit/internal/config"
	"github.com/jmir-tools/acekit/internal/metacmd"
)

func newMetaCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Music metadata reconciliation tools",
		Long: `Tools for recordings datasets stored as JSONL or Parquet.

Reconcile near-duplicate titles, artists, composers, albums, genres and
comments, convert between formats, and export ACE classifications.`,
	}

	cmd.AddCommand(metacmd.NewReconcileCmd(cfg))
	cmd.AddCommand(metacmd.NewConvertCmd())
	cmd.AddCommand(metacmd.NewToClassificationsCmd())
	cmd.AddCommand(metacmd.NewInspectCmd())

	return cmd
}
