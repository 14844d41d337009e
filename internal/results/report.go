package results

import (
	"slices"

	"github.com/jmir-tools/acekit/internal/entries"
)

// ReportConfig records the settings a reconciliation ran with.
type ReportConfig struct {
	Dataset              string                       `yaml:"dataset" json:"dataset"`
	Records              int                          `yaml:"records" json:"records"`
	Fields               []string                     `yaml:"fields" json:"fields"`
	Transforms           []string                     `yaml:"transforms,omitempty" json:"transforms,omitempty"`
	WordOrderingFraction float64                      `yaml:"wordorderingfraction" json:"word_ordering_fraction"`
	WordSubsetFraction   float64                      `yaml:"wordsubsetfraction" json:"word_subset_fraction"`
	EditDistance         *entries.EditDistanceOptions `yaml:"editdistance,omitempty" json:"edit_distance,omitempty"`
	Timestamp            string                       `yaml:"timestamp" json:"timestamp"`
}

// Change is one value rewritten by a pipeline step. Merge steps leave To
// empty and list the surviving value in From.
type Change struct {
	Step string `yaml:"step" json:"step"`
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to,omitempty" json:"to,omitempty"`
}

// Group is a reconciled value shared by more than one record.
type Group struct {
	Value   string   `yaml:"value" json:"value"`
	Indexes []int    `yaml:"indexes" json:"indexes"`
	Reasons []string `yaml:"reasons,omitempty" json:"reasons,omitempty"`
}

// FieldResult is the outcome of reconciling one metadata field.
type FieldResult struct {
	Field    string   `yaml:"field" json:"field"`
	Distinct int      `yaml:"distinct" json:"distinct"`
	Changes  []Change `yaml:"changes,omitempty" json:"changes,omitempty"`
	Groups   []Group  `yaml:"groups,omitempty" json:"groups,omitempty"`
	Unknown  []int    `yaml:"unknown,omitempty" json:"unknown,omitempty"`
}

// Report is the complete reconciliation output.
type Report struct {
	Config  ReportConfig  `yaml:"config" json:"config"`
	Summary *Summary      `yaml:"summary,omitempty" json:"summary,omitempty"`
	Fields  []FieldResult `yaml:"fields" json:"fields"`
}

// NewFieldResult summarizes a reconciled collection. Every entry holding
// more than one record becomes a Group, annotated with the reasons of each
// report whose records it contains.
func NewFieldResult(field string, es *entries.Entries, reports []*entries.MergeReport, changes []Change) FieldResult {
	res := FieldResult{
		Field:   field,
		Changes: changes,
		Unknown: es.NullIndexes(),
	}

	for _, e := range es.All() {
		if e.Value != nil {
			res.Distinct++
		}
		if e.Value == nil || len(e.Indexes) < 2 {
			continue
		}
		g := Group{Value: *e.Value, Indexes: slices.Sorted(slices.Values(e.Indexes))}
		for _, r := range reports {
			if !containsAll(g.Indexes, r.Indexes) {
				continue
			}
			for _, reason := range r.Reasons() {
				if !slices.Contains(g.Reasons, reason) {
					g.Reasons = append(g.Reasons, reason)
				}
			}
		}
		res.Groups = append(res.Groups, g)
	}
	return res
}

func containsAll(sorted, indexes []int) bool {
	if len(indexes) == 0 {
		return false
	}
	for _, i := range indexes {
		if _, ok := slices.BinarySearch(sorted, i); !ok {
			return false
		}
	}
	return true
}
