package models

import (
	"bufio"
	"fmt"
)

// FeatureDefinition describes one feature in a feature_key_file.
type FeatureDefinition struct {
	Name         string `json:"name" yaml:"name"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	IsSequential bool   `json:"is_sequential" yaml:"issequential"`
	Dimensions   int    `json:"dimensions" yaml:"dimensions"`
}

// NewFeatureDefinition returns a definition with the format defaults applied.
func NewFeatureDefinition() FeatureDefinition {
	return FeatureDefinition{IsSequential: true}
}

// FeatureDefinitions is an ordered feature key.
type FeatureDefinitions []FeatureDefinition

// DuplicateNames returns names used by more than one definition, in first-seen order.
func (defs FeatureDefinitions) DuplicateNames() []string {
	seen := make(map[string]int, len(defs))
	var dups []string
	for _, d := range defs {
		seen[d.Name]++
		if seen[d.Name] == 2 {
			dups = append(dups, d.Name)
		}
	}
	return dups
}

const featureKeyDoctype = `<?xml version="1.0"?>
<!DOCTYPE feature_key_file [
   <!ELEMENT feature_key_file (comments, feature+)>
   <!ELEMENT comments (#PCDATA)>
   <!ELEMENT feature (name, description?, is_sequential, parallel_dimensions)>
   <!ELEMENT name (#PCDATA)>
   <!ELEMENT description (#PCDATA)>
   <!ELEMENT is_sequential (#PCDATA)>
   <!ELEMENT parallel_dimensions (#PCDATA)>
]>

`

// Save writes the definitions as a feature_key_file. Duplicate names are refused.
func (defs FeatureDefinitions) Save(path, comments string, overwrite bool) error {
	if dups := defs.DuplicateNames(); len(dups) > 0 {
		return fmt.Errorf("failed to save feature definitions: duplicate names %q", dups)
	}

	return writeXMLFile(path, overwrite, func(w *bufio.Writer) error {
		w.WriteString(featureKeyDoctype)
		w.WriteString("<" + RootFeatureKey + ">\n\n")
		fmt.Fprintf(w, "   <comments>%s</comments>\n\n", escape(comments))
		for _, d := range defs {
			w.WriteString("   <feature>\n")
			fmt.Fprintf(w, "      <name>%s</name>\n", escape(d.Name))
			if d.Description != "" {
				fmt.Fprintf(w, "      <description>%s</description>\n", escape(d.Description))
			}
			fmt.Fprintf(w, "      <is_sequential>%t</is_sequential>\n", d.IsSequential)
			fmt.Fprintf(w, "      <parallel_dimensions>%d</parallel_dimensions>\n", d.Dimensions)
			w.WriteString("   </feature>\n\n")
		}
		_, err := w.WriteString("</" + RootFeatureKey + ">\n")
		return err
	})
}
