package projectcmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmir-tools/acekit/internal/acexml"
	"github.com/jmir-tools/acekit/internal/acezip"
	"github.com/jmir-tools/acekit/internal/config"
)

// NewSaveCmd creates the save command for building a project archive from typed files
func NewSaveCmd(cfg *config.Config) *cobra.Command {
	var req acezip.SaveRequest

	cmd := &cobra.Command{
		Use:   "save ARCHIVE",
		Short: "Package typed ACE files into a project archive",
		Long: `Package a taxonomy, feature definitions, feature vectors and classifications
into a single zip archive together with a generated project manifest.

When only --other files are given, a plain archive without a manifest is written.`,
		Example: `  # Package a complete project
  acekit project save --taxonomy tax.xml --features fk.xml --vectors fv.xml \
    --classifications cls.xml project.zip

  # Name the manifest explicitly
  acekit project save --taxonomy tax.xml --project-file genres.xml project.zip`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Archive = args[0]
			return acezip.New(cfg.PackagerOptions()).Save(cmd.Context(), req)
		},
	}

	cmd.Flags().StringVar(&req.Taxonomy, "taxonomy", "", "Taxonomy file")
	cmd.Flags().StringSliceVar(&req.FeatureDefinitions, "features", nil, "Feature definition files")
	cmd.Flags().StringSliceVar(&req.FeatureVectors, "vectors", nil, "Feature vector files")
	cmd.Flags().StringSliceVar(&req.Classifications, "classifications", nil, "Classification files")
	cmd.Flags().StringSliceVar(&req.Other, "other", nil, "Additional files to store unchanged")
	cmd.Flags().StringVar(&req.ProjectFile, "project-file", "", "Manifest name inside the archive (defaults to the archive name)")

	return cmd
}

// NewPackCmd creates the pack command for archiving files of undeclared type
func NewPackCmd(cfg *config.Config) *cobra.Command {
	var archive string

	cmd := &cobra.Command{
		Use:   "pack FILE_OR_DIR...",
		Short: "Sniff files and directories and package them into a project archive",
		Long: `Package files whose types are detected from their XML root elements.
Directories are walked recursively, skipping hidden files.

A single project manifest re-packages the files it lists.`,
		Example: `  # Package everything under a directory
  acekit project pack ./project --archive project.zip

  # Re-package an existing manifest
  acekit project pack ./project/genres.xml --archive genres.zip`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return acezip.New(cfg.PackagerOptions()).SaveFiles(cmd.Context(), args, archive)
		},
	}

	cmd.Flags().StringVar(&archive, "archive", "", "Archive to write (required)")
	_ = cmd.MarkFlagRequired("archive")

	return cmd
}

// NewAddCmd creates the add command
func NewAddCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "add ARCHIVE FILE...",
		Short: "Add files to an existing project archive",
		Long: `Add files to an existing archive. The archive is unpacked, the new files are
sniffed alongside the old ones and the project is packaged again under the
same manifest name.`,
		Example: `  acekit project add project.zip more_vectors.xml`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return acezip.New(cfg.PackagerOptions()).Add(cmd.Context(), args[0], args[1:])
		},
	}
}

// NewExtractCmd creates the extract command
func NewExtractCmd(cfg *config.Config) *cobra.Command {
	var dest string
	var selector string

	cmd := &cobra.Command{
		Use:   "extract ARCHIVE",
		Short: "Extract one file or one category of files from a project archive",
		Long: fmt.Sprintf(`Extract part of a project archive without overwriting existing files.

--select is either a file name inside the archive or one of:
  %s

Extracting a typed category also writes the manifest, rewritten to point at
the extracted files.`, strings.Join(selectors(), "\n  ")),
		Example: `  # Extract the classifications and the manifest
  acekit project extract project.zip --dest out --select classifications_file

  # Extract a single file
  acekit project extract project.zip --dest out --select tax.xml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := executeExtract(cmd.Context(), acezip.New(cfg.PackagerOptions()), args[0], dest, selector)
			if err != nil {
				return err
			}
			return printPaths(cmd.OutOrStdout(), paths)
		},
	}

	cmd.Flags().StringVar(&dest, "dest", ".", "Destination directory")
	cmd.Flags().StringVar(&selector, "select", "", "File type or file name to extract (required)")
	_ = cmd.MarkFlagRequired("select")

	return cmd
}

// NewExtractAllCmd creates the extract-all command
func NewExtractAllCmd(cfg *config.Config) *cobra.Command {
	var dest string

	cmd := &cobra.Command{
		Use:   "extract-all ARCHIVE",
		Short: "Extract every file of an archive, overwriting existing files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := acezip.New(cfg.PackagerOptions()).ExtractAll(cmd.Context(), args[0], dest)
			if err != nil {
				return err
			}
			return printPaths(cmd.OutOrStdout(), paths)
		},
	}

	cmd.Flags().StringVar(&dest, "dest", ".", "Destination directory (created if missing)")

	return cmd
}

// NewLoadCmd creates the load command
func NewLoadCmd(cfg *config.Config) *cobra.Command {
	var dest string
	var format string

	cmd := &cobra.Command{
		Use:   "load ARCHIVE",
		Short: "Unpack a project archive and print its relocated manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := acezip.New(cfg.PackagerOptions()).Load(cmd.Context(), args[0], dest)
			if err != nil {
				return err
			}
			return printDocument(cmd.OutOrStdout(), format, project)
		},
	}

	cmd.Flags().StringVar(&dest, "dest", ".", "Destination directory (created if missing)")
	cmd.Flags().StringVar(&format, "format", "yaml", "Output format (yaml or json)")

	return cmd
}

// NewListCmd creates the list command
func NewListCmd(cfg *config.Config) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list ARCHIVE",
		Short: "List the entries of an archive and their roles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := acezip.New(cfg.PackagerOptions()).List(args[0])
			if err != nil {
				return err
			}
			return printEntries(cmd.OutOrStdout(), format, infos)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format (text, json or yaml)")

	return cmd
}

// NewDetectCmd creates the detect command
func NewDetectCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "detect FILE...",
		Short: "Report the ACE file type of each file",
		Example: `  acekit project detect *.xml project.sp`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := acexml.DetectAll(cmd.Context(), args, cfg.Parallelism)
			if err != nil {
				return err
			}
			return printTypes(cmd.OutOrStdout(), args, types)
		},
	}
}

// NewDecodeCmd creates the decode command
func NewDecodeCmd() *cobra.Command {
	var docType string
	var format string

	cmd := &cobra.Command{
		Use:   "decode FILE",
		Short: "Decode an ACE XML document and print it as YAML or JSON",
		Long: fmt.Sprintf(`Decode an ACE XML document into its model.

--type is "auto" (detect from the root element) or one of:
  %s`, strings.Join(acexml.DocumentTypes(), "\n  ")),
		Example: `  acekit project decode tax.xml
  acekit project decode cls.xml --type classifications_file --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := executeDecode(args[0], docType)
			if err != nil {
				return err
			}
			return printDocument(cmd.OutOrStdout(), format, doc)
		},
	}

	cmd.Flags().StringVar(&docType, "type", "auto", "Document type")
	cmd.Flags().StringVar(&format, "format", "yaml", "Output format (yaml or json)")

	return cmd
}
