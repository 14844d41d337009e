// Package entries reconciles near-duplicate metadata values. An Entries
// collection maps each distinct value to the record positions holding it and
// merges values that are identical, share enough words, or satisfy
// caller-supplied criteria, keeping a MergeReport trail of every merge.
package entries

import "unicode/utf8"

// Unknown labels a nil value in change lists and reports.
const Unknown = "UNKNOWN"

// Entry is one value and the record positions that currently map to it.
// A nil Value means the value is unknown.
type Entry struct {
	Value   *string
	Indexes []int
}

// Label returns the value, or Unknown when it is nil.
func (e *Entry) Label() string {
	if e.Value == nil {
		return Unknown
	}
	return *e.Value
}

func (e *Entry) absorb(other *Entry) {
	e.Indexes = append(e.Indexes, other.Indexes...)
}

func (e *Entry) identical(other *Entry) bool {
	if e.Value == nil || other.Value == nil {
		return e.Value == nil && other.Value == nil
	}
	return *e.Value == *other.Value
}

func (e *Entry) clone() *Entry {
	c := &Entry{Indexes: append([]int(nil), e.Indexes...)}
	if e.Value != nil {
		v := *e.Value
		c.Value = &v
	}
	return c
}

// compareValues orders values byte-wise with nil last.
func compareValues(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	}
	return 0
}

// longest returns the first longest non-nil value, measured in characters.
func longest(values []*string) *string {
	var best *string
	bestLen := -1
	for _, v := range values {
		if v == nil {
			continue
		}
		if n := utf8.RuneCountInString(*v); n > bestLen {
			best, bestLen = v, n
		}
	}
	return best
}

func strPtr(s string) *string { return &s }
