package models

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Root element names of the ACE XML document types.
const (
	RootTaxonomy        = "taxonomy_file"
	RootFeatureKey      = "feature_key_file"
	RootFeatureVector   = "feature_vector_file"
	RootClassifications = "classifications_file"
	RootProject         = "ace_project_file"
)

// ErrFileExists is returned when a writer would replace a file it was told to keep.
var ErrFileExists = errors.New("file already exists")

// Document is a decoded ACE XML document.
type Document interface {
	// DocumentType returns the root element name the document is stored under.
	DocumentType() string
}

func (*Project) DocumentType() string                 { return RootProject }
func (*Taxonomy) DocumentType() string                { return RootTaxonomy }
func (FeatureDefinitions) DocumentType() string       { return RootFeatureKey }
func (SegmentedClassifications) DocumentType() string { return RootClassifications }
func (DataSets) DocumentType() string                 { return RootFeatureVector }

// writeXMLFile creates path and hands a buffered writer to fn.
// When overwrite is false an existing file is left alone and ErrFileExists returned.
func writeXMLFile(path string, overwrite bool, fn func(w *bufio.Writer) error) error {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !overwrite {
		flags = os.O_CREATE | os.O_WRONLY | os.O_EXCL
	}

	file, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrFileExists, path)
		}
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := bufio.NewWriter(file)
	if err := fn(w); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

// escape returns s with XML special characters replaced.
func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
