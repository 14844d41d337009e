package results

import "sort"

// Summary aggregates merge statistics over every field of a report.
type Summary struct {
	Fields           int     `yaml:"fields" json:"fields"`
	MergedGroups     int     `yaml:"mergedgroups" json:"merged_groups"`
	MergedRecords    int     `yaml:"mergedrecords" json:"merged_records"`
	UnknownValues    int     `yaml:"unknownvalues" json:"unknown_values"`
	AverageGroupSize float64 `yaml:"averagegroupsize" json:"average_group_size"`
	MedianGroupSize  float64 `yaml:"mediangroupsize" json:"median_group_size"`
	LargestGroup     int     `yaml:"largestgroup" json:"largest_group"`
}

// Summarize computes the summary of the report's field results.
func Summarize(fields []FieldResult) *Summary {
	summary := &Summary{Fields: len(fields)}

	var sizes []int
	for _, f := range fields {
		summary.UnknownValues += len(f.Unknown)
		for _, g := range f.Groups {
			sizes = append(sizes, len(g.Indexes))
			summary.MergedRecords += len(g.Indexes)
		}
	}
	summary.MergedGroups = len(sizes)
	if len(sizes) == 0 {
		return summary
	}

	summary.AverageGroupSize = float64(summary.MergedRecords) / float64(len(sizes))

	sort.Ints(sizes)
	mid := len(sizes) / 2
	if len(sizes)%2 == 0 {
		summary.MedianGroupSize = float64(sizes[mid-1]+sizes[mid]) / 2
	} else {
		summary.MedianGroupSize = float64(sizes[mid])
	}
	summary.LargestGroup = sizes[len(sizes)-1]

	return summary
}
