package recordings

import (
	"fmt"
	"strings"
)

// Recording is the metadata of one audio file. Empty strings and zero
// numbers mean the value is unknown.
type Recording struct {
	FilePath    string   `json:"file_path" parquet:"file_path"`
	Title       string   `json:"title,omitempty" parquet:"title"`
	Artist      string   `json:"artist,omitempty" parquet:"artist"`
	Composer    string   `json:"composer,omitempty" parquet:"composer"`
	Album       string   `json:"album,omitempty" parquet:"album"`
	Genres      []string `json:"genres,omitempty" parquet:"genres,list"`
	Comments    string   `json:"comments,omitempty" parquet:"comments"`
	TrackNumber int      `json:"track_number,omitempty" parquet:"track_number"`
	Year        int      `json:"year,omitempty" parquet:"year"`
	Duration    float64  `json:"duration,omitempty" parquet:"duration"` // seconds
}

// Field names a reconcilable metadata field.
type Field string

const (
	FieldTitle    Field = "title"
	FieldArtist   Field = "artist"
	FieldComposer Field = "composer"
	FieldAlbum    Field = "album"
	FieldGenres   Field = "genres"
	FieldComments Field = "comments"
)

// Fields lists every reconcilable field in report order.
func Fields() []Field {
	return []Field{FieldTitle, FieldArtist, FieldComposer, FieldAlbum, FieldGenres, FieldComments}
}

// ParseField maps a name such as "artist" onto a Field. Case is ignored.
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Fields() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q", s)
}

// Values returns the recording's values for field. Single-valued fields
// yield one value; genres yield one per genre. Unknown values are omitted.
func (r *Recording) Values(field Field) []string {
	var v string
	switch field {
	case FieldTitle:
		v = r.Title
	case FieldArtist:
		v = r.Artist
	case FieldComposer:
		v = r.Composer
	case FieldAlbum:
		v = r.Album
	case FieldComments:
		v = r.Comments
	case FieldGenres:
		var out []string
		for _, g := range r.Genres {
			if g != "" {
				out = append(out, g)
			}
		}
		return out
	}
	if v == "" {
		return nil
	}
	return []string{v}
}
