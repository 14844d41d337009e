package entries

import (
	"unicode/utf8"

	"github.com/agext/levenshtein"
)

// Reasons attached to edit-distance merges.
const (
	ReasonAbsoluteDistance     = "Absolute edit distance"
	ReasonProportionalDistance = "Proportional edit distance"
	ReasonSubsetDistance       = "Subset edit distance"
)

// EditDistanceOptions selects which edit-distance criteria mark two values as
// close, and their thresholds. A pair is close under a criterion when its
// score is at or below the threshold.
type EditDistanceOptions struct {
	// Absolute is the maximum Levenshtein distance.
	Absolute int `yaml:"absolute" json:"absolute"`
	// Proportional is the maximum distance as a percentage of the longer value.
	Proportional int `yaml:"proportional" json:"proportional"`
	// Subset is the maximum distance, less the length difference, as a
	// percentage of the shorter value.
	Subset int `yaml:"subset" json:"subset"`

	EnableAbsolute     bool `yaml:"enable_absolute" json:"enable_absolute"`
	EnableProportional bool `yaml:"enable_proportional" json:"enable_proportional"`
	EnableSubset       bool `yaml:"enable_subset" json:"enable_subset"`
}

// DefaultEditDistanceOptions enables every criterion with thresholds 1, 20% and 20%.
func DefaultEditDistanceOptions() EditDistanceOptions {
	return EditDistanceOptions{
		Absolute:           1,
		Proportional:       20,
		Subset:             20,
		EnableAbsolute:     true,
		EnableProportional: true,
		EnableSubset:       true,
	}
}

// Distances returns the symmetric Levenshtein distance matrix of values.
// Cells involving a nil value are -1.
func Distances(values []*string) [][]int {
	n := len(values)
	d := make([][]int, n)
	for i := range d {
		d[i] = make([]int, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			dist := -1
			if values[i] != nil && values[j] != nil {
				dist = levenshtein.Distance(*values[i], *values[j], nil)
			}
			d[i][j], d[j][i] = dist, dist
		}
	}
	return d
}

// EditDistanceMatrices builds one closeness matrix per enabled criterion,
// with the matching reasons, ready for MergeSpecified. Unknown values are
// never close to anything.
func EditDistanceMatrices(values []*string, opts EditDistanceOptions) ([][][]bool, []string) {
	n := len(values)
	dist := Distances(values)

	type criterion struct {
		reason string
		near   func(d, shorter, longer int) bool
	}
	var criteria []criterion
	if opts.EnableAbsolute {
		criteria = append(criteria, criterion{ReasonAbsoluteDistance, func(d, _, _ int) bool {
			return d <= opts.Absolute
		}})
	}
	if opts.EnableProportional {
		criteria = append(criteria, criterion{ReasonProportionalDistance, func(d, _, longer int) bool {
			if longer == 0 {
				return true
			}
			return 100*d/longer <= opts.Proportional
		}})
	}
	if opts.EnableSubset {
		criteria = append(criteria, criterion{ReasonSubsetDistance, func(d, shorter, longer int) bool {
			if shorter == 0 {
				return false
			}
			return 100*(d-(longer-shorter))/shorter <= opts.Subset
		}})
	}

	matrices := make([][][]bool, len(criteria))
	reasons := make([]string, len(criteria))
	for s, c := range criteria {
		reasons[s] = c.reason
		m := make([][]bool, n)
		for i := range m {
			m[i] = make([]bool, n)
		}
		for i := 0; i < n; i++ {
			for j := 0; j <= i; j++ {
				if dist[i][j] < 0 {
					continue
				}
				li, lj := utf8.RuneCountInString(*values[i]), utf8.RuneCountInString(*values[j])
				near := c.near(dist[i][j], min(li, lj), max(li, lj))
				m[i][j], m[j][i] = near, near
			}
		}
		matrices[s] = m
	}
	return matrices, reasons
}

// MergeByEditDistance merges entries that are close under any enabled
// criterion. It does nothing when no criterion is enabled or the collection
// is empty.
func (es *Entries) MergeByEditDistance(opts EditDistanceOptions, report bool) error {
	if len(es.entries) == 0 {
		return nil
	}
	matrices, reasons := EditDistanceMatrices(es.Values(), opts)
	if len(matrices) == 0 {
		return nil
	}
	return es.MergeSpecified(matrices, reasons, report)
}
