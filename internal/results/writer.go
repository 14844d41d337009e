package results

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// TimestampFormat names report files and stamps ReportConfig.
const TimestampFormat = "2006-01-02_15-04-05"

// Formats lists the supported output formats.
var Formats = []string{"yaml", "json", "csv", "text"}

// Write renders report to w in the named format.
func Write(w io.Writer, format string, report *Report) error {
	switch format {
	case "yaml", "yml":
		return WriteYAML(w, report)
	case "json":
		return WriteJSON(w, report)
	case "csv":
		return WriteCSV(w, report)
	case "text":
		return WriteText(w, report)
	default:
		return fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(Formats, ", "))
	}
}

func WriteYAML(w io.Writer, report *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return enc.Close()
}

func WriteJSON(w io.Writer, report *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// WriteCSV writes one row per group and one row per field for unknown values.
func WriteCSV(w io.Writer, report *Report) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"field", "value", "count", "indexes", "reasons"}); err != nil {
		return err
	}
	for _, f := range report.Fields {
		for _, g := range f.Groups {
			row := []string{f.Field, g.Value, strconv.Itoa(len(g.Indexes)), joinInts(g.Indexes), strings.Join(g.Reasons, " | ")}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
		if len(f.Unknown) > 0 {
			row := []string{f.Field, "", strconv.Itoa(len(f.Unknown)), joinInts(f.Unknown), ""}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteText writes a human readable summary.
func WriteText(w io.Writer, report *Report) error {
	var b strings.Builder
	b.WriteString("========================================\n")
	b.WriteString("Metadata Reconciliation Report\n")
	b.WriteString("========================================\n")
	fmt.Fprintf(&b, "Dataset: %s\n", report.Config.Dataset)
	fmt.Fprintf(&b, "Records: %d\n", report.Config.Records)
	if s := report.Summary; s != nil {
		fmt.Fprintf(&b, "Merged groups:      %d (%d records)\n", s.MergedGroups, s.MergedRecords)
		fmt.Fprintf(&b, "Average group size: %.2f\n", s.AverageGroupSize)
		fmt.Fprintf(&b, "Median group size:  %.1f\n", s.MedianGroupSize)
		fmt.Fprintf(&b, "Largest group:      %d\n", s.LargestGroup)
		fmt.Fprintf(&b, "Unknown values:     %d\n", s.UnknownValues)
	}

	for _, f := range report.Fields {
		fmt.Fprintf(&b, "\n[%s] %d distinct values, %d merged groups, %d unknown\n",
			f.Field, f.Distinct, len(f.Groups), len(f.Unknown))
		for _, c := range f.Changes {
			if c.To == "" {
				fmt.Fprintf(&b, "  %s: %s\n", c.Step, c.From)
			} else {
				fmt.Fprintf(&b, "  %s: %s -> %s\n", c.Step, c.From, c.To)
			}
		}
		for _, g := range f.Groups {
			fmt.Fprintf(&b, "  %q x%d (records %s)\n", g.Value, len(g.Indexes), joinInts(g.Indexes))
			for _, r := range g.Reasons {
				fmt.Fprintf(&b, "      %s\n", r)
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// SaveToYAML writes report into dir as <dataset>-<timestamp>.yaml and
// returns the file's path.
func SaveToYAML(dir string, report *Report) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	timestamp := report.Config.Timestamp
	if timestamp == "" {
		timestamp = time.Now().Format(TimestampFormat)
	}
	name := strings.TrimSuffix(filepath.Base(report.Config.Dataset), filepath.Ext(report.Config.Dataset))
	if name == "" || name == "." {
		name = "report"
	}
	filename := filepath.Join(dir, fmt.Sprintf("%s-%s.yaml", name, timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	if err := WriteYAML(file, report); err != nil {
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}
	return filename, nil
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ";")
}
