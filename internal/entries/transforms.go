package entries

import (
	"fmt"
	"regexp"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// rewrite applies fn to every known value and returns an [original, new]
// pair for each value that changed. fn returns false to leave a value alone.
func (es *Entries) rewrite(fn func(string) (string, bool)) [][2]string {
	var changes [][2]string
	for _, e := range es.entries {
		if e.Value == nil {
			continue
		}
		orig := *e.Value
		updated, ok := fn(orig)
		if !ok || updated == orig {
			continue
		}
		e.Value = strPtr(updated)
		changes = append(changes, [2]string{orig, updated})
	}
	if len(changes) > 0 {
		es.sorted = false
	}
	return changes
}

// ToLower lower-cases every value.
func (es *Entries) ToLower() [][2]string {
	lower := cases.Lower(language.Und)
	return es.rewrite(func(s string) (string, bool) {
		return lower.String(s), true
	})
}

// StripDiacritics removes combining marks, so "Dvořák" becomes "Dvorak".
func (es *Entries) StripDiacritics() [][2]string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	return es.rewrite(func(s string) (string, bool) {
		out, _, err := transform.String(t, s)
		if err != nil {
			return s, false
		}
		return out, true
	})
}

// StripLeadingNumbersAndSpaces removes leading ASCII digits and spaces, as in
// "01 Intro". A value made only of digits and spaces is left unchanged
// rather than cut down to its last character.
func (es *Entries) StripLeadingNumbersAndSpaces() [][2]string {
	return es.rewrite(func(s string) (string, bool) {
		i := 0
		for i < len(s) && (s[i] == ' ' || (s[i] >= '0' && s[i] <= '9')) {
			if i == len(s)-1 {
				return s, false
			}
			i++
		}
		return s[i:], true
	})
}

// FindAndReplace replaces every match of pattern with replacement, which may
// refer to submatches as in regexp.Regexp.ReplaceAllString. A pattern of "."
// alone matches a literal period. Replacements that would leave a value
// empty are skipped.
func (es *Entries) FindAndReplace(pattern, replacement string) ([][2]string, error) {
	if pattern == "." {
		pattern = `\.`
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to compile pattern %q: %w", pattern, err)
	}
	return es.rewrite(func(s string) (string, bool) {
		out := re.ReplaceAllString(s, replacement)
		return out, out != ""
	}), nil
}
