package models

import (
	"bufio"
	"fmt"
)

// DataSet holds the feature values extracted from one instance.
// FeatureNames and FeatureValues are co-indexed. Sections carry windowed values
// with Start and Stop set.
type DataSet struct {
	Identifier    string      `json:"identifier" yaml:"identifier"`
	Start         float64     `json:"start,omitempty" yaml:"start,omitempty"`
	Stop          float64     `json:"stop,omitempty" yaml:"stop,omitempty"`
	FeatureNames  []string    `json:"feature_names,omitempty" yaml:"featurenames,omitempty"`
	FeatureValues [][]float64 `json:"feature_values,omitempty" yaml:"featurevalues,omitempty"`
	Sections      []DataSet   `json:"sections,omitempty" yaml:"sections,omitempty"`
}

// Feature returns the values stored for name.
func (d *DataSet) Feature(name string) ([]float64, bool) {
	for i, n := range d.FeatureNames {
		if n == name && i < len(d.FeatureValues) {
			return d.FeatureValues[i], true
		}
	}
	return nil, false
}

// DataSets is the content of a feature_vector_file.
type DataSets []DataSet

const featureVectorDoctype = `<?xml version="1.0"?>
<!DOCTYPE feature_vector_file [
   <!ELEMENT feature_vector_file (comments, data_set+)>
   <!ELEMENT comments (#PCDATA)>
   <!ELEMENT data_set (data_set_id, section*, feature*)>
   <!ELEMENT data_set_id (#PCDATA)>
   <!ELEMENT section (feature+)>
   <!ATTLIST section start CDATA ""
                     stop CDATA "">
   <!ELEMENT feature (name, v+)>
   <!ELEMENT name (#PCDATA)>
   <!ELEMENT v (#PCDATA)>
]>

`

// Save writes the data sets as a feature_vector_file.
func (ds DataSets) Save(path, comments string, overwrite bool) error {
	for _, d := range ds {
		if len(d.FeatureNames) != len(d.FeatureValues) {
			return fmt.Errorf("failed to save data set %s: %d names for %d features",
				d.Identifier, len(d.FeatureNames), len(d.FeatureValues))
		}
	}

	return writeXMLFile(path, overwrite, func(w *bufio.Writer) error {
		w.WriteString(featureVectorDoctype)
		w.WriteString("<" + RootFeatureVector + ">\n\n")
		fmt.Fprintf(w, "   <comments>%s</comments>\n\n", escape(comments))
		for _, d := range ds {
			w.WriteString("   <data_set>\n")
			fmt.Fprintf(w, "      <data_set_id>%s</data_set_id>\n", escape(d.Identifier))
			for _, s := range d.Sections {
				fmt.Fprintf(w, "      <section start=\"%s\" stop=\"%s\">\n", formatFloat(s.Start), formatFloat(s.Stop))
				writeFeatures(w, &s, "         ")
				w.WriteString("      </section>\n")
			}
			writeFeatures(w, &d, "      ")
			w.WriteString("   </data_set>\n\n")
		}
		_, err := w.WriteString("</" + RootFeatureVector + ">\n")
		return err
	})
}

func writeFeatures(w *bufio.Writer, d *DataSet, indent string) {
	for i, values := range d.FeatureValues {
		if values == nil {
			continue
		}
		fmt.Fprintf(w, "%s<feature>\n", indent)
		fmt.Fprintf(w, "%s   <name>%s</name>\n", indent, escape(d.FeatureNames[i]))
		for _, v := range values {
			fmt.Fprintf(w, "%s   <v>%s</v>\n", indent, formatFloat(v))
		}
		fmt.Fprintf(w, "%s</feature>\n", indent)
	}
}
