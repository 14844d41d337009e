package recordings

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseField(t *testing.T) {
	tests := []struct {
		in      string
		want    Field
		wantErr bool
	}{
		{in: "artist", want: FieldArtist},
		{in: " Genres ", want: FieldGenres},
		{in: "TITLE", want: FieldTitle},
		{in: "year", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseField(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestBuildEntries(t *testing.T) {
	recs := sampleRecordings()

	tests := []struct {
		name    string
		field   Field
		labels  []string
		indexes [][]int
	}{
		{
			name:    "single valued",
			field:   FieldArtist,
			labels:  []string{"Miles Davis", "Davis Miles", "UNKNOWN"},
			indexes: [][]int{{0}, {1}, {2}},
		},
		{
			name:    "one entry per genre",
			field:   FieldGenres,
			labels:  []string{"Jazz", "Modal", "UNKNOWN", "Baroque"},
			indexes: [][]int{{0}, {0}, {1}, {2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			es, err := BuildEntries(recs, tt.field)
			if err != nil {
				t.Fatalf("BuildEntries failed: %v", err)
			}
			var labels []string
			for _, e := range es.All() {
				labels = append(labels, e.Label())
			}
			if diff := cmp.Diff(tt.labels, labels); diff != "" {
				t.Errorf("Labels mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.indexes, es.Indexes()); diff != "" {
				t.Errorf("Indexes mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := BuildEntries(recs, Field("year")); err == nil {
		t.Error("Expected error for unknown field")
	}
}

func TestToClassifications(t *testing.T) {
	cs, err := ToClassifications(sampleRecordings(), FieldGenres)
	if err != nil {
		t.Fatalf("ToClassifications failed: %v", err)
	}
	if len(cs) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(cs))
	}

	first := cs[0]
	if first.Identifier != "a.mp3" {
		t.Errorf("Expected identifier a.mp3, got %s", first.Identifier)
	}
	if diff := cmp.Diff([]string{"Jazz", "Modal"}, first.Classifications); diff != "" {
		t.Errorf("Labels mismatch (-want +got):\n%s", diff)
	}
	wantKeys := []string{"title", "artist", "album", "track_number", "year", "genres", "duration"}
	if diff := cmp.Diff(wantKeys, first.MiscInfoKeys); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}
	if v, _ := first.MiscInfo("genres"); v != "Jazz + Modal" {
		t.Errorf("Expected joined genres, got %q", v)
	}
	if v, _ := first.MiscInfo("duration"); v != "562.5" {
		t.Errorf("Expected duration 562.5, got %q", v)
	}

	if len(cs[1].Classifications) != 0 || cs[1].Classifications == nil {
		t.Errorf("Expected empty non-nil labels, got %#v", cs[1].Classifications)
	}

	unlabelled, err := ToClassifications(sampleRecordings(), "")
	if err != nil {
		t.Fatalf("ToClassifications failed: %v", err)
	}
	if len(unlabelled[0].Classifications) != 0 {
		t.Errorf("Expected no labels, got %v", unlabelled[0].Classifications)
	}

	if _, err := ToClassifications([]Recording{{Title: "x"}}, ""); err == nil {
		t.Error("Expected error for missing file path")
	}
}
