package models

import (
	"bufio"
	"fmt"
	"strconv"
)

// SegmentedClassification is the class labelling of one instance, optionally split
// into time sections. MiscInfoKeys and MiscInfoValues are co-indexed.
type SegmentedClassification struct {
	Identifier      string                    `json:"identifier" yaml:"identifier"`
	Role            string                    `json:"role,omitempty" yaml:"role,omitempty"`
	Classifications []string                  `json:"classifications" yaml:"classifications"`
	MiscInfoKeys    []string                  `json:"misc_info_keys,omitempty" yaml:"miscinfokeys,omitempty"`
	MiscInfoValues  []string                  `json:"misc_info_values,omitempty" yaml:"miscinfovalues,omitempty"`
	Start           float64                   `json:"start,omitempty" yaml:"start,omitempty"`
	Stop            float64                   `json:"stop,omitempty" yaml:"stop,omitempty"`
	Sections        []SegmentedClassification `json:"sections,omitempty" yaml:"sections,omitempty"`
}

// MiscInfo returns the value stored under key and whether it was present.
func (c *SegmentedClassification) MiscInfo(key string) (string, bool) {
	for i, k := range c.MiscInfoKeys {
		if k == key && i < len(c.MiscInfoValues) {
			return c.MiscInfoValues[i], true
		}
	}
	return "", false
}

// SegmentedClassifications is the content of a classifications_file.
type SegmentedClassifications []SegmentedClassification

// Labels returns the distinct labels used anywhere in the list, in first-seen order.
func (cs SegmentedClassifications) Labels() []string {
	seen := make(map[string]bool)
	var labels []string
	add := func(ls []string) {
		for _, l := range ls {
			if !seen[l] {
				seen[l] = true
				labels = append(labels, l)
			}
		}
	}
	for _, c := range cs {
		for _, s := range c.Sections {
			add(s.Classifications)
		}
		add(c.Classifications)
	}
	return labels
}

const classificationsDoctype = `<?xml version="1.0"?>
<!DOCTYPE classifications_file [
   <!ELEMENT classifications_file (comments, data_set+)>
   <!ELEMENT comments (#PCDATA)>
   <!ELEMENT data_set (data_set_id, misc_info*, role?, classification)>
   <!ELEMENT data_set_id (#PCDATA)>
   <!ELEMENT misc_info (#PCDATA)>
   <!ATTLIST misc_info info_type CDATA "">
   <!ELEMENT role (#PCDATA)>
   <!ELEMENT classification (section*, class*)>
   <!ELEMENT section (start, stop, class+)>
   <!ELEMENT class (#PCDATA)>
   <!ELEMENT start (#PCDATA)>
   <!ELEMENT stop (#PCDATA)>
]>

`

// Save writes the list as a classifications_file.
func (cs SegmentedClassifications) Save(path, comments string, overwrite bool) error {
	return writeXMLFile(path, overwrite, func(w *bufio.Writer) error {
		w.WriteString(classificationsDoctype)
		w.WriteString("<" + RootClassifications + ">\n\n")
		fmt.Fprintf(w, "   <comments>%s</comments>\n\n", escape(comments))
		for _, c := range cs {
			w.WriteString("   <data_set>\n")
			fmt.Fprintf(w, "      <data_set_id>%s</data_set_id>\n", escape(c.Identifier))
			for i, key := range c.MiscInfoKeys {
				value := ""
				if i < len(c.MiscInfoValues) {
					value = c.MiscInfoValues[i]
				}
				fmt.Fprintf(w, "      <misc_info info_type=\"%s\">%s</misc_info>\n", escape(key), escape(value))
			}
			if c.Role != "" {
				fmt.Fprintf(w, "      <role>%s</role>\n", escape(c.Role))
			}
			w.WriteString("      <classification>\n")
			for _, s := range c.Sections {
				w.WriteString("         <section>\n")
				fmt.Fprintf(w, "            <start>%s</start>\n", formatFloat(s.Start))
				fmt.Fprintf(w, "            <stop>%s</stop>\n", formatFloat(s.Stop))
				for _, label := range s.Classifications {
					fmt.Fprintf(w, "            <class>%s</class>\n", escape(label))
				}
				w.WriteString("         </section>\n")
			}
			for _, label := range c.Classifications {
				fmt.Fprintf(w, "         <class>%s</class>\n", escape(label))
			}
			w.WriteString("      </classification>\n")
			w.WriteString("   </data_set>\n\n")
		}
		_, err := w.WriteString("</" + RootClassifications + ">\n")
		return err
	})
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
