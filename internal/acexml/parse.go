package acexml

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jmir-tools/acekit/internal/models"
)

type decoderFunc func(r *Reader) (models.Document, error)

var decoders = map[string]decoderFunc{
	models.RootTaxonomy:        decodeTaxonomy,
	models.RootFeatureKey:      decodeFeatureDefinitions,
	models.RootFeatureVector:   decodeFeatureVectors,
	models.RootClassifications: decodeClassifications,
	models.RootProject:         decodeProject,
}

// DocumentTypes lists the root element names Parse accepts.
func DocumentTypes() []string {
	return []string{
		models.RootTaxonomy,
		models.RootFeatureKey,
		models.RootFeatureVector,
		models.RootClassifications,
		models.RootProject,
	}
}

// Parse decodes the file at path as docType, which must be one of DocumentTypes.
func Parse(path, docType string) (models.Document, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	if _, ok := decoders[docType]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocumentType, docType)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	doc, err := Decode(bufio.NewReader(file), path, docType)
	if err != nil {
		return nil, err
	}

	slog.Debug("Decoded XML document", "path", path, "type", docType, "size_bytes", info.Size())
	return doc, nil
}

// Decode decodes an in-memory document. name is only used in error messages.
func Decode(r io.Reader, name, docType string) (models.Document, error) {
	decode, ok := decoders[docType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocumentType, docType)
	}
	return decode(NewReader(r, name))
}

// ParseAuto sniffs the file type and decodes it accordingly.
func ParseAuto(path string) (models.Document, error) {
	ft, err := Detect(path)
	if err != nil {
		return nil, err
	}
	root := ft.RootElement()
	if root == "" {
		return nil, fmt.Errorf("%w: %s is %s", ErrUnknownDocumentType, path, ft)
	}
	return Parse(path, root)
}

// ParseProject decodes a manifest and records its location in ProjectFile.
func ParseProject(path string) (*models.Project, error) {
	doc, err := Parse(path, models.RootProject)
	if err != nil {
		return nil, err
	}
	p := doc.(*models.Project)
	p.ProjectFile = path
	return p, nil
}

// ParseTaxonomy decodes a taxonomy_file.
func ParseTaxonomy(path string) (*models.Taxonomy, error) {
	doc, err := Parse(path, models.RootTaxonomy)
	if err != nil {
		return nil, err
	}
	return doc.(*models.Taxonomy), nil
}

// ParseFeatureDefinitions decodes a feature_key_file.
func ParseFeatureDefinitions(path string) (models.FeatureDefinitions, error) {
	doc, err := Parse(path, models.RootFeatureKey)
	if err != nil {
		return nil, err
	}
	return doc.(models.FeatureDefinitions), nil
}

// ParseClassifications decodes a classifications_file.
func ParseClassifications(path string) (models.SegmentedClassifications, error) {
	doc, err := Parse(path, models.RootClassifications)
	if err != nil {
		return nil, err
	}
	return doc.(models.SegmentedClassifications), nil
}

// ParseFeatureVectors decodes a feature_vector_file.
func ParseFeatureVectors(path string) (models.DataSets, error) {
	doc, err := Parse(path, models.RootFeatureVector)
	if err != nil {
		return nil, err
	}
	return doc.(models.DataSets), nil
}
