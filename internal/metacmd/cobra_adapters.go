package metacmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmir-tools/acekit/internal/config"
	"github.com/jmir-tools/acekit/internal/recordings"
	"github.com/jmir-tools/acekit/internal/results"
)

// NewReconcileCmd creates the reconcile command
func NewReconcileCmd(cfg *config.Config) *cobra.Command {
	var fields []string
	var format string
	var output string
	var sample int
	var replacements []string
	var editDistance bool
	var opts ReconcileOptions

	cmd := &cobra.Command{
		Use:   "reconcile DATASET",
		Short: "Find metadata values that refer to the same thing",
		Long: `Reconcile the metadata of a recordings dataset (.jsonl or .parquet).

For every field, values are optionally normalized, then merged when they are
identical, when they hold the same words in a different order, and when one
holds most of the words of the other. Edit-distance merging is optional.

The report lists every group of records whose values were merged and why.
YAML reports are written under the reports directory unless --output is set.`,
		Example: `  # Reconcile artists and albums, lower-casing first
  acekit meta reconcile tracks.jsonl --fields artist,album --lower

  # Include edit-distance matches and print CSV
  acekit meta reconcile tracks.parquet --edit-distance --format csv --output -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range fields {
				field, err := recordings.ParseField(f)
				if err != nil {
					return err
				}
				opts.Fields = append(opts.Fields, field)
			}
			for _, r := range replacements {
				rep, err := ParseReplacement(r)
				if err != nil {
					return err
				}
				opts.Replacements = append(opts.Replacements, rep)
			}
			if !cmd.Flags().Changed("word-ordering-fraction") {
				opts.WordOrderingFraction = cfg.WordOrderingFraction
			}
			if !cmd.Flags().Changed("word-subset-fraction") {
				opts.WordSubsetFraction = cfg.WordSubsetFraction
			}
			if editDistance {
				ed := cfg.EditDistance
				opts.EditDistance = &ed
			}
			opts.Parallelism = cfg.Parallelism

			records, err := recordings.NewLoader(args[0]).LoadSample(sample)
			if err != nil {
				return fmt.Errorf("failed to load dataset: %w", err)
			}
			report, err := Reconcile(cmd.Context(), args[0], records, opts)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), cfg.ReportsDir, format, output, report)
		},
	}

	cmd.Flags().StringSliceVar(&fields, "fields", nil, "Fields to reconcile (default all)")
	cmd.Flags().StringVar(&format, "format", "yaml", fmt.Sprintf("Report format (%s)", strings.Join(results.Formats, ", ")))
	cmd.Flags().StringVar(&output, "output", "", `Report file ("-" for stdout)`)
	cmd.Flags().IntVar(&sample, "sample", -1, "Number of records to read (-1 for all)")
	cmd.Flags().BoolVar(&opts.LowerCase, "lower", false, "Lower-case values first")
	cmd.Flags().BoolVar(&opts.StripDiacritics, "strip-diacritics", false, "Remove accents first")
	cmd.Flags().BoolVar(&opts.StripLeadingNumbers, "strip-leading-numbers", false, "Remove leading track numbers and spaces first")
	cmd.Flags().StringArrayVar(&replacements, "replace", nil, `Regular expression rewrite "pattern=replacement" (repeatable)`)
	cmd.Flags().Float64Var(&opts.WordOrderingFraction, "word-ordering-fraction", 0, "Shared word fraction for reordered values (default from config)")
	cmd.Flags().Float64Var(&opts.WordSubsetFraction, "word-subset-fraction", 0, "Shared word fraction for subset values (default from config)")
	cmd.Flags().BoolVar(&editDistance, "edit-distance", false, "Also merge values within the configured edit distances")

	return cmd
}

// writeReport sends the report to output, or to a timestamped file in
// reportsDir for YAML without an explicit output.
func writeReport(stdout io.Writer, reportsDir, format, output string, report *results.Report) error {
	switch {
	case output == "-" || (output == "" && format != "yaml"):
		return results.Write(stdout, format, report)
	case output == "":
		path, err := results.SaveToYAML(reportsDir, report)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Report saved to: %s\n", path)
		return nil
	}

	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()
	if err := results.Write(file, format, report); err != nil {
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	fmt.Fprintf(stdout, "Report saved to: %s\n", output)
	return nil
}

// NewConvertCmd creates the convert command
func NewConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "convert IN OUT",
		Short:   "Convert a recordings dataset between JSONL and Parquet",
		Example: `  acekit meta convert tracks.jsonl tracks.parquet`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := recordings.NewLoader(args[0]).Load()
			if err != nil {
				return fmt.Errorf("failed to load dataset: %w", err)
			}
			if err := recordings.Write(args[1], records); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d records to %s\n", len(records), args[1])
			return nil
		},
	}
}

// NewToClassificationsCmd creates the to-classifications command
func NewToClassificationsCmd() *cobra.Command {
	var field string
	var comments string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "to-classifications DATASET OUT",
		Short: "Export recordings as an ACE classifications file",
		Long: `Export a recordings dataset as an ACE classifications file. Each recording
becomes one instance identified by its file path, with its metadata stored as
misc info and the values of --field as its class labels.`,
		Example: `  acekit meta to-classifications tracks.jsonl genres.xml --field genres`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var labels recordings.Field
			if field != "" {
				f, err := recordings.ParseField(field)
				if err != nil {
					return err
				}
				labels = f
			}

			records, err := recordings.NewLoader(args[0]).Load()
			if err != nil {
				return fmt.Errorf("failed to load dataset: %w", err)
			}
			cs, err := recordings.ToClassifications(records, labels)
			if err != nil {
				return err
			}
			if err := cs.Save(args[1], comments, overwrite); err != nil {
				return fmt.Errorf("failed to save classifications: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d instances to %s\n", len(cs), args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&field, "field", string(recordings.FieldGenres), `Field used as class labels ("" for none)`)
	cmd.Flags().StringVar(&comments, "comments", "", "Comments stored in the file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing output file")

	return cmd
}

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "inspect DATASET",
		Short: "Print recordings from a dataset",
		Example: `  # Inspect the first 5 records
  acekit meta inspect tracks.parquet --limit 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := recordings.NewLoader(args[0]).LoadSample(limit)
			if err != nil {
				return fmt.Errorf("failed to load dataset: %w", err)
			}
			printRecords(cmd.OutOrStdout(), records)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of records to print (-1 for all)")

	return cmd
}

func printRecords(w io.Writer, records []recordings.Recording) {
	for i, r := range records {
		fmt.Fprintf(w, "[%d] %s\n", i, r.FilePath)
		for _, f := range recordings.Fields() {
			if values := r.Values(f); len(values) > 0 {
				fmt.Fprintf(w, "  %-9s %s\n", f+":", strings.Join(values, " + "))
			}
		}
		if r.TrackNumber > 0 {
			fmt.Fprintf(w, "  %-9s %d\n", "track:", r.TrackNumber)
		}
		if r.Year > 0 {
			fmt.Fprintf(w, "  %-9s %d\n", "year:", r.Year)
		}
	}
}
