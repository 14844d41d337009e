package recordings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jmir-tools/acekit/internal/entries"
	"github.com/jmir-tools/acekit/internal/models"
)

// BuildEntries creates one Entry per record for field, indexed by record
// position. Unknown values become nil entries. For genres there is one Entry
// per genre, and a nil Entry for a record without genres.
func BuildEntries(records []Recording, field Field) (*entries.Entries, error) {
	if _, err := ParseField(string(field)); err != nil {
		return nil, err
	}

	es := entries.New()
	for i := range records {
		values := records[i].Values(field)
		if len(values) == 0 {
			es.AddEntry(nil, i)
			continue
		}
		for _, v := range values {
			es.AddEntry(&v, i)
		}
	}
	return es, nil
}

// ToClassifications exports records as classification records keyed by file
// path, with every known field stored as misc info. When labels is set, that
// field's values become the record's class labels.
func ToClassifications(records []Recording, labels Field) (models.SegmentedClassifications, error) {
	if labels != "" {
		if _, err := ParseField(string(labels)); err != nil {
			return nil, err
		}
	}

	out := make(models.SegmentedClassifications, 0, len(records))
	for i := range records {
		r := &records[i]
		if r.FilePath == "" {
			return nil, fmt.Errorf("record %d has no file path", i)
		}

		c := models.SegmentedClassification{Identifier: r.FilePath, Classifications: []string{}}
		add := func(key, value string) {
			if value == "" {
				return
			}
			c.MiscInfoKeys = append(c.MiscInfoKeys, key)
			c.MiscInfoValues = append(c.MiscInfoValues, value)
		}
		add("title", r.Title)
		add("artist", r.Artist)
		add("composer", r.Composer)
		add("album", r.Album)
		if r.TrackNumber > 0 {
			add("track_number", strconv.Itoa(r.TrackNumber))
		}
		if r.Year > 0 {
			add("year", strconv.Itoa(r.Year))
		}
		add("genres", strings.Join(r.Values(FieldGenres), " + "))
		if r.Duration > 0 {
			add("duration", strconv.FormatFloat(r.Duration, 'g', -1, 64))
		}
		add("comments", r.Comments)

		if labels != "" {
			c.Classifications = append(c.Classifications, r.Values(labels)...)
		}
		out = append(out, c)
	}
	return out, nil
}
