package acexml

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmir-tools/acekit/internal/models"
	"golang.org/x/sync/errgroup"
)

// FileType is the classification Detect assigns to a file.
type FileType string

const (
	FileTaxonomy        FileType = "taxonomy_file"
	FileFeatureKey      FileType = "feature_key_file"
	FileFeatureVector   FileType = "feature_vector_file"
	FileClassifications FileType = "classifications_file"
	FileProject         FileType = "project_file"
	FileSpecial         FileType = "special_file"
	FileUnknown         FileType = "unknown"
)

const (
	// MarkerExt is the extension of the file naming an archive's manifest.
	MarkerExt = ".sp"
	// XMLExt is the only extension Detect will open.
	XMLExt = ".xml"
)

var rootTypes = map[string]FileType{
	models.RootTaxonomy:        FileTaxonomy,
	models.RootFeatureKey:      FileFeatureKey,
	models.RootFeatureVector:   FileFeatureVector,
	models.RootClassifications: FileClassifications,
	models.RootProject:         FileProject,
}

// RootElement returns the document type to decode a file of this type with,
// or "" when the type has no decoder.
func (t FileType) RootElement() string {
	for root, ft := range rootTypes {
		if ft == t {
			return root
		}
	}
	return ""
}

// ParseFileType maps a selector string onto a FileType.
func ParseFileType(s string) (FileType, bool) {
	switch ft := FileType(s); ft {
	case FileTaxonomy, FileFeatureKey, FileFeatureVector, FileClassifications,
		FileProject, FileSpecial, FileUnknown:
		return ft, true
	}
	return "", false
}

// Detect classifies path by extension and, for XML files, by root element.
// Files without the XML extension are never opened.
func Detect(path string) (FileType, error) {
	ext := filepath.Ext(path)
	if strings.EqualFold(ext, MarkerExt) {
		return FileSpecial, nil
	}
	if !strings.EqualFold(ext, XMLExt) {
		return FileUnknown, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	root, err := rootElement(NewReader(bufio.NewReader(file), path))
	if err != nil {
		return "", err
	}
	if ft, ok := rootTypes[root.Name]; ok {
		return ft, nil
	}
	return FileUnknown, nil
}

// DetectAll runs Detect over paths concurrently. Results are in input order.
// limit bounds the number of files open at once; values below 1 mean no bound.
func DetectAll(ctx context.Context, paths []string, limit int) ([]FileType, error) {
	types := make([]FileType, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ft, err := Detect(path)
			if err != nil {
				return err
			}
			types[i] = ft
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return types, nil
}
