package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jmir-tools/acekit/internal/config"
	"github.com/jmir-tools/acekit/internal/projectcmd"
)

func newProjectCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "ACE project archive tools",
		Long: `Build, inspect and unpack ACE project archives.

An archive holds the project's XML documents, a manifest listing them by
type, and a project.sp marker naming the manifest.`,
	}

	cmd.AddCommand(projectcmd.NewSaveCmd(cfg))
	cmd.AddCommand(projectcmd.NewPackCmd(cfg))
	cmd.AddCommand(projectcmd.NewAddCmd(cfg))
	cmd.AddCommand(projectcmd.NewExtractCmd(cfg))
	cmd.AddCommand(projectcmd.NewExtractAllCmd(cfg))
	cmd.AddCommand(projectcmd.NewLoadCmd(cfg))
	cmd.AddCommand(projectcmd.NewListCmd(cfg))
	cmd.AddCommand(projectcmd.NewDetectCmd(cfg))
	cmd.AddCommand(projectcmd.NewDecodeCmd())

	return cmd
}
