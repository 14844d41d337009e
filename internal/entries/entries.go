package entries

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// ErrEmptyInput is returned when a merge is attempted on an empty collection.
var ErrEmptyInput = errors.New("no entries to compare")

// Reasons attached to word-order merges.
const (
	ReasonWordSubset   = "Word subset, neglecting order"
	ReasonWordOrdering = "Word ordering, possible subset"
)

// Entries is an ordered collection of Entry values plus the merge reports
// produced while reconciling them. It is not safe for concurrent use.
type Entries struct {
	entries []*Entry
	sorted  bool
	reports []*MergeReport
}

// New returns an empty collection.
func New() *Entries {
	return &Entries{}
}

// FromValues creates one Entry per value, indexed by position.
func FromValues(values []*string) *Entries {
	es := New()
	for i, v := range values {
		es.AddEntry(v, i)
	}
	return es
}

// FromStrings creates one Entry per string, indexed by position.
func FromStrings(values []string) *Entries {
	es := New()
	for i, v := range values {
		es.AddEntry(strPtr(v), i)
	}
	return es
}

// AddEntry appends a new Entry for value at record position index.
func (es *Entries) AddEntry(value *string, index int) {
	var v *string
	if value != nil {
		v = strPtr(*value)
	}
	es.entries = append(es.entries, &Entry{Value: v, Indexes: []int{index}})
	es.sorted = false
}

// Len returns the number of entries.
func (es *Entries) Len() int { return len(es.entries) }

// All returns copies of the entries in their current order.
func (es *Entries) All() []Entry {
	out := make([]Entry, len(es.entries))
	for i, e := range es.entries {
		out[i] = *e.clone()
	}
	return out
}

// Values returns each entry's value.
func (es *Entries) Values() []*string {
	out := make([]*string, len(es.entries))
	for i, e := range es.entries {
		out[i] = e.clone().Value
	}
	return out
}

// Indexes returns each entry's record positions.
func (es *Entries) Indexes() [][]int {
	out := make([][]int, len(es.entries))
	for i, e := range es.entries {
		out[i] = append([]int(nil), e.Indexes...)
	}
	return out
}

// NullIndexes returns the positions of all records whose value is unknown,
// or nil if there are none.
func (es *Entries) NullIndexes() []int {
	var out []int
	for _, e := range es.entries {
		if e.Value == nil {
			out = append(out, e.Indexes...)
		}
	}
	return out
}

// Multiple returns a new collection holding copies of the entries that map
// to more than one record. The merge reports are not carried over.
func (es *Entries) Multiple() *Entries {
	out := &Entries{sorted: es.sorted}
	for _, e := range es.entries {
		if len(e.Indexes) > 1 {
			out.entries = append(out.entries, e.clone())
		}
	}
	return out
}

// Reports returns the merge reports accumulated so far.
func (es *Entries) Reports() []*MergeReport {
	return slices.Clone(es.reports)
}

// Sorted reports whether the entries are known to be in value order.
func (es *Entries) Sorted() bool { return es.sorted }

// Sort orders entries by value, byte-wise and case-sensitive, with unknown
// values last. The sort is stable.
func (es *Entries) Sort() {
	if es.sorted {
		return
	}
	slices.SortStableFunc(es.entries, func(a, b *Entry) int {
		return compareValues(a.Value, b.Value)
	})
	es.sorted = true
}

// MergeIdentical sorts the collection and merges entries with equal values,
// including unknown ones. It returns each merged value once, in sorted order,
// with Unknown standing for nil, or nil when nothing merged. With report set,
// one MergeReport per merged non-nil value is recorded under reason.
func (es *Entries) MergeIdentical(report bool, reason string) ([]string, error) {
	if len(es.entries) == 0 {
		return nil, ErrEmptyInput
	}
	es.Sort()

	var changes []string
	var open *MergeReport
	var openValue string

	for cur := 0; cur < len(es.entries)-1; {
		this, next := es.entries[cur], es.entries[cur+1]
		if !this.identical(next) {
			cur++
			continue
		}
		this.absorb(next)

		label := next.Label()
		if len(changes) == 0 || changes[len(changes)-1] != label {
			changes = append(changes, label)
		}

		if report && next.Value != nil {
			switch {
			case open == nil:
				open, openValue = NewMergeReport(reason, this.Indexes), *next.Value
			case openValue == *next.Value:
				open.Indexes = append(open.Indexes, next.Indexes...)
			default:
				es.reports = append(es.reports, open)
				open, openValue = NewMergeReport(reason, this.Indexes), *next.Value
			}
		}

		es.entries = slices.Delete(es.entries, cur+1, cur+2)
	}
	if open != nil {
		es.reports = append(es.reports, open)
	}

	if len(changes) > 0 {
		slog.Debug("Merged identical entries", "values", len(changes), "remaining", len(es.entries))
	}
	return changes, nil
}

// tokenize splits on spaces, dropping empty tokens.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ' ' })
}

// ShouldMergeIgnoringWordOrder reports whether a and b share at least
// fraction of their space-separated words, in any order. The denominator is
// the smaller word count in subset mode and the larger otherwise. Outside
// subset mode, pairs whose word counts differ by more than fraction are
// rejected up front. With ignoreIdentical, values with the same words in the
// same order never match. Unknown or empty values never match.
func ShouldMergeIgnoringWordOrder(a, b *string, fraction float64, ignoreIdentical, subset bool) bool {
	if a == nil || b == nil {
		return false
	}
	ta, tb := tokenize(*a), tokenize(*b)
	if len(ta) == 0 || len(tb) == 0 {
		return false
	}

	if !subset {
		ratio := float64(len(ta)) / float64(len(tb))
		inverse := float64(len(tb)) / float64(len(ta))
		if ratio < fraction || inverse < fraction {
			return false
		}
	}

	if ignoreIdentical && slices.Equal(ta, tb) {
		return false
	}

	remaining := slices.Clone(tb)
	matching := 0
	for _, tok := range ta {
		if i := slices.Index(remaining, tok); i >= 0 {
			matching++
			remaining[i] = ""
		}
	}

	denom := max(len(ta), len(tb))
	if subset {
		denom = min(len(ta), len(tb))
	}
	return float64(matching)/float64(denom) >= fraction
}

// MergeIgnoringWordOrder merges every group of entries connected by
// ShouldMergeIgnoringWordOrder. Matches are transitive: if A matches B and B
// matches C, all three merge. Each group takes its longest value and the
// position of its first member; the collection becomes unsorted. It returns
// the value of each group formed, or nil when nothing merged.
func (es *Entries) MergeIgnoringWordOrder(fraction float64, ignoreIdentical, subset, report bool) ([]string, error) {
	if len(es.entries) == 0 {
		return nil, ErrEmptyInput
	}
	if fraction < 0 || fraction > 1 {
		return nil, fmt.Errorf("fraction %v is outside [0, 1]", fraction)
	}

	n := len(es.entries)
	uf := newUnionFind(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if ShouldMergeIgnoringWordOrder(es.entries[i].Value, es.entries[j].Value, fraction, ignoreIdentical, subset) {
				uf.union(i, j)
			}
		}
	}

	reason := ReasonWordOrdering
	if subset {
		reason = ReasonWordSubset
	}
	return es.mergeGroups(uf.groups(), func([]int) string { return reason }, report), nil
}

// MergeSpecified merges entries marked by any of the matrices. matrices[s][i][j]
// set means entries i and j should merge for reasons[s]; either of [i][j] and
// [j][i] suffices. Merges are transitive. A group's report reason joins the
// reasons of every matrix that linked any of its members with " + ".
func (es *Entries) MergeSpecified(matrices [][][]bool, reasons []string, report bool) error {
	n := len(es.entries)
	if n == 0 || len(matrices) == 0 {
		return ErrEmptyInput
	}
	if len(matrices) != len(reasons) {
		return fmt.Errorf("got %d matrices but %d reasons", len(matrices), len(reasons))
	}
	for s, m := range matrices {
		if len(m) != n {
			return fmt.Errorf("matrix %d has %d rows, want %d", s, len(m), n)
		}
		for i, row := range m {
			if len(row) != n {
				return fmt.Errorf("matrix %d row %d has %d columns, want %d", s, i, len(row), n)
			}
		}
	}

	uf := newUnionFind(n)
	linked := make([][]bool, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for s, m := range matrices {
				if !m[i][j] && !m[j][i] {
					continue
				}
				uf.union(i, j)
				if linked[i] == nil {
					linked[i] = make([]bool, len(matrices))
				}
				linked[i][s] = true
			}
		}
	}

	reasonFor := func(members []int) string {
		var parts []string
		for s := range matrices {
			for _, m := range members {
				if linked[m] != nil && linked[m][s] {
					parts = append(parts, reasons[s])
					break
				}
			}
		}
		return strings.Join(parts, " + ")
	}
	es.mergeGroups(uf.groups(), reasonFor, report)
	return nil
}

// mergeGroups folds each group into its first member, which takes the
// group's longest value, then deletes the other members.
func (es *Entries) mergeGroups(groups [][]int, reasonFor func(members []int) string, report bool) []string {
	if len(groups) == 0 {
		return nil
	}

	var changes []string
	subsumed := make([]bool, len(es.entries))
	for _, g := range groups {
		values := make([]*string, len(g))
		for k, m := range g {
			values[k] = es.entries[m].Value
		}
		canonical := longest(values)

		recipient := es.entries[g[0]]
		for _, m := range g[1:] {
			recipient.absorb(es.entries[m])
			subsumed[m] = true
		}
		recipient.Value = canonical
		changes = append(changes, recipient.Label())

		if report {
			es.reports = append(es.reports, NewMergeReport(reasonFor(g), recipient.Indexes))
		}
	}

	kept := es.entries[:0]
	for i, e := range es.entries {
		if !subsumed[i] {
			kept = append(kept, e)
		}
	}
	clear(es.entries[len(kept):])
	es.entries = kept
	es.sorted = false

	slog.Debug("Merged entry groups", "groups", len(groups), "remaining", len(es.entries))
	return changes
}
