package results

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/jmir-tools/acekit/internal/entries"
)

func sampleReport(t *testing.T) *Report {
	t.Helper()

	es := entries.FromValues([]*string{strPtr("Queen"), strPtr("Abba"), nil, strPtr("Queen"), strPtr("Yes")})
	if _, err := es.MergeIdentical(true, "Identical artists"); err != nil {
		t.Fatalf("MergeIdentical failed: %v", err)
	}
	field := NewFieldResult("artist", es, es.Reports(), []Change{{Step: "lower-case", From: "QUEEN", To: "Queen"}})

	return &Report{
		Config: ReportConfig{
			Dataset:              "/data/tracks.jsonl",
			Records:              5,
			Fields:               []string{"artist"},
			WordOrderingFraction: 0.7,
			WordSubsetFraction:   0.8,
			Timestamp:            "2024-01-02_03-04-05",
		},
		Summary: Summarize([]FieldResult{field}),
		Fields:  []FieldResult{field},
	}
}

func strPtr(s string) *string { return &s }

func TestNewFieldResult(t *testing.T) {
	report := sampleReport(t)
	got := report.Fields[0]

	want := FieldResult{
		Field:    "artist",
		Distinct: 3,
		Changes:  []Change{{Step: "lower-case", From: "QUEEN", To: "Queen"}},
		Groups:   []Group{{Value: "Queen", Indexes: []int{0, 3}, Reasons: []string{"Identical artists"}}},
		Unknown:  []int{2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FieldResult mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupsCollectFoldedReasons(t *testing.T) {
	es := entries.FromStrings([]string{"Duke Ellington", "Ellington Duke", "Duke Ellington Orchestra"})
	if _, err := es.MergeIgnoringWordOrder(0.7, true, false, true); err != nil {
		t.Fatal(err)
	}
	if _, err := es.MergeIgnoringWordOrder(0.6, true, true, true); err != nil {
		t.Fatal(err)
	}
	folded, err := entries.MergeSubsetsIntoSupersets(es.Reports())
	if err != nil {
		t.Fatal(err)
	}

	res := NewFieldResult("artist", es, folded, nil)
	if len(res.Groups) != 1 {
		t.Fatalf("Expected 1 group, got %d", len(res.Groups))
	}
	want := []string{entries.ReasonWordSubset, entries.ReasonWordOrdering}
	if diff := cmp.Diff(want, res.Groups[0].Reasons); diff != "" {
		t.Errorf("Reasons mismatch (-want +got):\n%s", diff)
	}
}

func TestYAMLParsesBack(t *testing.T) {
	report := sampleReport(t)

	var buf bytes.Buffer
	if err := WriteYAML(&buf, report); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	var got Report
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Failed to parse YAML: %v", err)
	}
	if diff := cmp.Diff(*report, got); diff != "" {
		t.Errorf("YAML round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteFormats(t *testing.T) {
	report := sampleReport(t)

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Write(&buf, "json", report); err != nil {
			t.Fatal(err)
		}
		var got Report
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("Invalid JSON: %v", err)
		}
		if got.Fields[0].Groups[0].Value != "Queen" {
			t.Errorf("Unexpected group: %+v", got.Fields[0].Groups[0])
		}
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Write(&buf, "csv", report); err != nil {
			t.Fatal(err)
		}
		rows, err := csv.NewReader(&buf).ReadAll()
		if err != nil {
			t.Fatalf("Invalid CSV: %v", err)
		}
		want := [][]string{
			{"field", "value", "count", "indexes", "reasons"},
			{"artist", "Queen", "2", "0;3", "Identical artists"},
			{"artist", "", "1", "2", ""},
		}
		if diff := cmp.Diff(want, rows); diff != "" {
			t.Errorf("CSV mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Write(&buf, "text", report); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		for _, s := range []string{"Dataset: /data/tracks.jsonl", "Merged groups:      1 (2 records)", "[artist] 3 distinct values, 1 merged groups, 1 unknown", "lower-case: QUEEN -> Queen", `"Queen" x2`} {
			if !strings.Contains(out, s) {
				t.Errorf("Text report missing %q:\n%s", s, out)
			}
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		if err := Write(&bytes.Buffer{}, "xml", report); err == nil {
			t.Error("Expected error for unsupported format")
		}
	})
}

func TestSaveToYAML(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")

	path, err := SaveToYAML(dir, sampleReport(t))
	if err != nil {
		t.Fatalf("SaveToYAML failed: %v", err)
	}
	if want := filepath.Join(dir, "tracks-2024-01-02_03-04-05.yaml"); path != want {
		t.Errorf("Expected %s, got %s", want, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Report not written: %v", err)
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		fields []FieldResult
		want   Summary
	}{
		{
			name:   "no groups",
			fields: []FieldResult{{Field: "title", Unknown: []int{4}}},
			want:   Summary{Fields: 1, UnknownValues: 1},
		},
		{
			name: "odd number of groups",
			fields: []FieldResult{
				{Field: "artist", Groups: []Group{{Indexes: []int{0, 1}}, {Indexes: []int{2, 3, 4, 5}}}},
				{Field: "album", Groups: []Group{{Indexes: []int{0, 1, 2}}}, Unknown: []int{3, 4}},
			},
			want: Summary{Fields: 2, MergedGroups: 3, MergedRecords: 9, UnknownValues: 2, AverageGroupSize: 3, MedianGroupSize: 3, LargestGroup: 4},
		},
		{
			name: "even number of groups",
			fields: []FieldResult{
				{Field: "artist", Groups: []Group{{Indexes: []int{0, 1}}, {Indexes: []int{2, 3, 4}}}},
			},
			want: Summary{Fields: 1, MergedGroups: 2, MergedRecords: 5, AverageGroupSize: 2.5, MedianGroupSize: 2.5, LargestGroup: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.fields)
			if diff := cmp.Diff(tt.want, *got); diff != "" {
				t.Errorf("Summary mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
