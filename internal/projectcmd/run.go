package projectcmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/jmir-tools/acekit/internal/acexml"
	"github.com/jmir-tools/acekit/internal/acezip"
	"github.com/jmir-tools/acekit/internal/models"
)

// selectors lists the file types extract accepts in place of a file name.
func selectors() []string {
	return []string{
		string(acexml.FileProject),
		string(acexml.FileTaxonomy),
		string(acexml.FileFeatureKey),
		string(acexml.FileFeatureVector),
		string(acexml.FileClassifications),
	}
}

// executeExtract treats selector as a file type when it names one and as an
// entry name otherwise.
func executeExtract(ctx context.Context, p *acezip.Packager, archive, dest, selector string) ([]string, error) {
	if ft, ok := acexml.ParseFileType(selector); ok {
		return p.Extract(ctx, archive, dest, ft)
	}
	path, err := p.ExtractFile(ctx, archive, dest, selector)
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}

func executeDecode(path, docType string) (models.Document, error) {
	if docType == "" || docType == "auto" {
		return acexml.ParseAuto(path)
	}
	return acexml.Parse(path, docType)
}

func printPaths(w io.Writer, paths []string) error {
	for _, p := range paths {
		if _, err := fmt.Fprintln(w, p); err != nil {
			return err
		}
	}
	return nil
}

func printTypes(w io.Writer, paths []string, types []acexml.FileType) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, p := range paths {
		fmt.Fprintf(tw, "%s\t%s\n", p, types[i])
	}
	return tw.Flush()
}

func printEntries(w io.Writer, format string, infos []acezip.EntryInfo) error {
	if format != "text" {
		return printDocument(w, format, infos)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tROLE\tSIZE\tCOMPRESSED\tMODIFIED")
	for _, e := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", e.Name, e.Role, e.Size, e.CompressedSize, e.Modified.Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}

func printDocument(w io.Writer, format string, v any) error {
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
