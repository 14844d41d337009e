package entries

// MergeReport records why a set of record positions was merged into one
// value. Keys[0] is the original reason; later keys are added when reports
// are folded together. A nil key means no reason was given.
type MergeReport struct {
	Keys    []*string
	Indexes []int
}

// NewMergeReport creates a report with one reason. An empty reason is stored as nil.
func NewMergeReport(reason string, indexes []int) *MergeReport {
	var key *string
	if reason != "" {
		key = strPtr(reason)
	}
	return &MergeReport{
		Keys:    []*string{key},
		Indexes: append([]int(nil), indexes...),
	}
}

// Reasons returns the non-nil keys as strings.
func (r *MergeReport) Reasons() []string {
	var out []string
	for _, k := range r.Keys {
		if k != nil {
			out = append(out, *k)
		}
	}
	return out
}

func (r *MergeReport) clone() *MergeReport {
	c := &MergeReport{Indexes: append([]int(nil), r.Indexes...)}
	for _, k := range r.Keys {
		if k == nil {
			c.Keys = append(c.Keys, nil)
			continue
		}
		c.Keys = append(c.Keys, strPtr(*k))
	}
	return c
}

// subsetOf reports whether every index of r appears in other.
func (r *MergeReport) subsetOf(other *MergeReport) bool {
	set := make(map[int]struct{}, len(other.Indexes))
	for _, i := range other.Indexes {
		set[i] = struct{}{}
	}
	for _, i := range r.Indexes {
		if _, ok := set[i]; !ok {
			return false
		}
	}
	return true
}

// MergeSubsetsIntoSupersets folds every report whose indexes are contained in
// another report's into that report, appending its keys, until no report is
// contained in another. With equal index counts the earlier report is folded
// into the later one. The input reports are not modified.
func MergeSubsetsIntoSupersets(reports []*MergeReport) ([]*MergeReport, error) {
	if len(reports) == 0 {
		return nil, ErrEmptyInput
	}

	work := make([]*MergeReport, len(reports))
	for i, r := range reports {
		work[i] = r.clone()
	}

	for changed := true; changed; {
		changed = false
		for i := range work {
			for j := range work {
				if i == j || work[i] == nil || work[j] == nil {
					continue
				}
				bigger, smaller := j, i
				if len(work[i].Indexes) > len(work[j].Indexes) {
					bigger, smaller = i, j
				}
				if !work[smaller].subsetOf(work[bigger]) {
					continue
				}
				work[bigger].Keys = append(work[bigger].Keys, work[smaller].Keys...)
				work[smaller] = nil
				changed = true
			}
		}
	}

	var out []*MergeReport
	for _, r := range work {
		if r != nil {
			out = append(out, r)
		}
	}
	return out, nil
}

// RemoveDuplicateMergeKeys drops repeated keys within each report, keeping
// the first occurrence.
func RemoveDuplicateMergeKeys(reports []*MergeReport) {
	for _, r := range reports {
		kept := r.Keys[:0]
		for _, k := range r.Keys {
			dup := false
			for _, seen := range kept {
				if sameKey(seen, k) {
					dup = true
					break
				}
			}
			if !dup {
				kept = append(kept, k)
			}
		}
		r.Keys = kept
	}
}

func sameKey(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
