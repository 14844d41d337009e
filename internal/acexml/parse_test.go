package acexml

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jmir-tools/acekit/internal/models"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

const taxonomyDoc = `<?xml version="1.0"?>
<taxonomy_file>
   <comments>Genres</comments>
   <parent_class>
      <class_name>Jazz</class_name>
      <sub_class>
         <class_name>Bebop</class_name>
      </sub_class>
      <sub_class>
         <class_name>Swing</class_name>
         <sub_class>
            <class_name>Big Band</class_name>
         </sub_class>
      </sub_class>
   </parent_class>
   <parent_class>
      <class_name>Rock</class_name>
   </parent_class>
</taxonomy_file>`

func TestParseTaxonomy(t *testing.T) {
	path := writeFile(t, t.TempDir(), "tax.xml", taxonomyDoc)

	tax, err := ParseTaxonomy(path)
	if err != nil {
		t.Fatalf("ParseTaxonomy failed: %v", err)
	}
	if tax.Comments != "Genres" {
		t.Errorf("Expected comments Genres, got %q", tax.Comments)
	}
	want := []string{"Jazz/Bebop", "Jazz/Swing/Big Band", "Rock"}
	if diff := cmp.Diff(want, tax.Paths()); diff != "" {
		t.Errorf("Paths mismatch (-want +got):\n%s", diff)
	}
	if len(tax.Children(tax.Root())) != 2 {
		t.Errorf("Expected 2 top-level classes, got %d", len(tax.Children(tax.Root())))
	}
}

func TestParseFeatureDefinitions(t *testing.T) {
	doc := `<feature_key_file>
   <comments></comments>
   <feature>
      <name>MFCC</name>
      <description>Cepstral coefficients</description>
      <is_sequential>false</is_sequential>
      <parallel_dimensions>13</parallel_dimensions>
   </feature>
   <feature>
      <name>Centroid</name>
      <is_sequential>yes</is_sequential>
      <parallel_dimensions>1</parallel_dimensions>
   </feature>
</feature_key_file>`
	path := writeFile(t, t.TempDir(), "feat.xml", doc)

	defs, err := ParseFeatureDefinitions(path)
	if err != nil {
		t.Fatalf("ParseFeatureDefinitions failed: %v", err)
	}
	want := models.FeatureDefinitions{
		{Name: "MFCC", Description: "Cepstral coefficients", IsSequential: false, Dimensions: 13},
		{Name: "Centroid", IsSequential: true, Dimensions: 1},
	}
	if diff := cmp.Diff(want, defs); diff != "" {
		t.Errorf("Definitions mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFeatureDefinitionsBadDimensions(t *testing.T) {
	doc := "<feature_key_file>\n<feature>\n<name>x</name>\n<parallel_dimensions>many</parallel_dimensions>\n</feature>\n</feature_key_file>"
	path := writeFile(t, t.TempDir(), "feat.xml", doc)

	_, err := ParseFeatureDefinitions(path)
	var malformed *MalformedXMLError
	if !errors.As(err, &malformed) {
		t.Fatalf("Expected MalformedXMLError, got %v", err)
	}
	if malformed.Line == 0 {
		t.Errorf("Expected line number on content error")
	}
}

func TestParseClassifications(t *testing.T) {
	doc := `<classifications_file>
   <comments/>
   <data_set>
      <data_set_id>song1.mp3</data_set_id>
      <misc_info info_type="artist">Miles Davis</misc_info>
      <misc_info info_type="year">1959</misc_info>
      <role>training</role>
      <classification>
         <section>
            <start>0</start>
            <stop>12.5</stop>
            <class>Intro</class>
         </section>
         <class>Jazz</class>
         <class>Modal</class>
      </classification>
   </data_set>
   <data_set>
      <data_set_id>song2.mp3</data_set_id>
      <classification>
         <class>Rock</class>
      </classification>
   </data_set>
</classifications_file>`
	path := writeFile(t, t.TempDir(), "class.xml", doc)

	got, err := ParseClassifications(path)
	if err != nil {
		t.Fatalf("ParseClassifications failed: %v", err)
	}
	want := models.SegmentedClassifications{
		{
			Identifier:      "song1.mp3",
			Role:            "training",
			Classifications: []string{"Jazz", "Modal"},
			MiscInfoKeys:    []string{"artist", "year"},
			MiscInfoValues:  []string{"Miles Davis", "1959"},
			Sections: []models.SegmentedClassification{
				{Start: 0, Stop: 12.5, Classifications: []string{"Intro"}},
			},
		},
		{
			Identifier:      "song2.mp3",
			Classifications: []string{"Rock"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Classifications mismatch (-want +got):\n%s", diff)
	}
}

func TestParseClassificationsEmptyLabelsNotNil(t *testing.T) {
	doc := `<classifications_file><data_set><data_set_id>a</data_set_id><classification/></data_set></classifications_file>`
	path := writeFile(t, t.TempDir(), "class.xml", doc)

	got, err := ParseClassifications(path)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Classifications == nil {
		t.Errorf("Expected empty, non-nil labels")
	}
}

func TestParseFeatureVectors(t *testing.T) {
	doc := `<feature_vector_file>
   <comments></comments>
   <data_set>
      <data_set_id>song1.wav</data_set_id>
      <section start="0" stop="1.5">
         <feature>
            <name>RMS</name>
            <v>0.25</v>
         </feature>
      </section>
      <feature>
         <name>Tempo</name>
         <v>120</v>
         <v>2</v>
      </feature>
   </data_set>
</feature_vector_file>`
	path := writeFile(t, t.TempDir(), "vec.xml", doc)

	got, err := ParseFeatureVectors(path)
	if err != nil {
		t.Fatalf("ParseFeatureVectors failed: %v", err)
	}
	want := models.DataSets{{
		Identifier:    "song1.wav",
		FeatureNames:  []string{"Tempo"},
		FeatureValues: [][]float64{{120, 2}},
		Sections: []models.DataSet{{
			Start: 0, Stop: 1.5,
			FeatureNames:  []string{"RMS"},
			FeatureValues: [][]float64{{0.25}},
		}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Data sets mismatch (-want +got):\n%s", diff)
	}
}

func TestParseProjectBothTaxonomyForms(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "direct text",
			doc:  `<ace_project_file><comments>c</comments><taxonomy_path>tax.xml</taxonomy_path><feature_definitions_path><path>f1.xml</path><path>f2.xml</path></feature_definitions_path><feature_vectors_path/><model_classifications_path><path>c.xml</path></model_classifications_path><gui_preferences_path>gui.cfg</gui_preferences_path><classifier_settings_path/><trained_classifiers_path/><weka_arff_path>out.arff</weka_arff_path></ace_project_file>`,
		},
		{
			name: "path child",
			doc:  `<ace_project_file><comments>c</comments><taxonomy_path><path>tax.xml</path></taxonomy_path><feature_definitions_path><path>f1.xml</path><path>f2.xml</path></feature_definitions_path><model_classifications_path><path>c.xml</path></model_classifications_path><gui_preferences_path>gui.cfg</gui_preferences_path><weka_arff_path>out.arff</weka_arff_path></ace_project_file>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "proj.xml", tt.doc)
			p, err := ParseProject(path)
			if err != nil {
				t.Fatalf("ParseProject failed: %v", err)
			}
			want := &models.Project{
				ProjectFile:            path,
				Comments:               []string{"c"},
				TaxonomyPath:           "tax.xml",
				FeatureDefinitionPaths: []string{"f1.xml", "f2.xml"},
				ClassificationPaths:    []string{"c.xml"},
				GUIPreferencesPath:     "gui.cfg",
				WekaARFFPath:           "out.arff",
			}
			if diff := cmp.Diff(want, p); diff != "" {
				t.Errorf("Project mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseWrongDocumentType(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "class.xml", `<classifications_file><data_set><data_set_id>a</data_set_id></data_set></classifications_file>`)

	doc, err := Parse(path, models.RootTaxonomy)
	if doc != nil {
		t.Errorf("Expected no document on mismatch, got %#v", doc)
	}
	var wrong *WrongDocumentTypeError
	if !errors.As(err, &wrong) {
		t.Fatalf("Expected WrongDocumentTypeError, got %v", err)
	}
	if wrong.Expected != models.RootTaxonomy || wrong.Actual != models.RootClassifications {
		t.Errorf("Unexpected error fields: %+v", wrong)
	}
}

func TestParsePathErrors(t *testing.T) {
	dir := t.TempDir()
	valid := writeFile(t, dir, "tax.xml", taxonomyDoc)

	tests := []struct {
		name    string
		path    string
		docType string
		want    error
	}{
		{"missing file", filepath.Join(dir, "nope.xml"), models.RootTaxonomy, ErrNotFound},
		{"directory", dir, models.RootTaxonomy, ErrIsDirectory},
		{"unknown type", valid, "playlist_file", ErrUnknownDocumentType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.path, tt.docType)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseAuto(t *testing.T) {
	path := writeFile(t, t.TempDir(), "tax.xml", taxonomyDoc)
	doc, err := ParseAuto(path)
	if err != nil {
		t.Fatalf("ParseAuto failed: %v", err)
	}
	if doc.DocumentType() != models.RootTaxonomy {
		t.Errorf("Expected taxonomy, got %s", doc.DocumentType())
	}

	other := writeFile(t, t.TempDir(), "notes.txt", "hello")
	if _, err := ParseAuto(other); !errors.Is(err, ErrUnknownDocumentType) {
		t.Errorf("Expected ErrUnknownDocumentType, got %v", err)
	}
}

func TestWriterRoundTrip(t *testing.T) {
	dir := t.TempDir()

	t.Run("taxonomy", func(t *testing.T) {
		tax := models.NewTaxonomy()
		tax.Comments = "Classical & Jazz"
		jazz := tax.AddChild(tax.Root(), "Jazz")
		tax.AddChild(jazz, "Cool <West Coast>")
		tax.AddChild(tax.Root(), "Classical")

		path := filepath.Join(dir, "tax.xml")
		if err := tax.Save(path, true); err != nil {
			t.Fatal(err)
		}
		got, err := ParseTaxonomy(path)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(tax, got); diff != "" {
			t.Errorf("Taxonomy mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("feature definitions", func(t *testing.T) {
		defs := models.FeatureDefinitions{
			{Name: "MFCC", Description: "coefficients", IsSequential: true, Dimensions: 13},
			{Name: "Tempo", IsSequential: false, Dimensions: 1},
		}
		path := filepath.Join(dir, "feat.xml")
		if err := defs.Save(path, "", true); err != nil {
			t.Fatal(err)
		}
		got, err := ParseFeatureDefinitions(path)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(defs, got); diff != "" {
			t.Errorf("Definitions mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("classifications", func(t *testing.T) {
		cs := models.SegmentedClassifications{{
			Identifier:      "a.mp3",
			Role:            "test",
			Classifications: []string{"Jazz"},
			MiscInfoKeys:    []string{"artist"},
			MiscInfoValues:  []string{"Coltrane"},
			Sections: []models.SegmentedClassification{
				{Start: 1.25, Stop: 3, Classifications: []string{"Solo"}},
			},
		}}
		path := filepath.Join(dir, "class.xml")
		if err := cs.Save(path, "", true); err != nil {
			t.Fatal(err)
		}
		got, err := ParseClassifications(path)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(cs, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("Classifications mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("feature vectors", func(t *testing.T) {
		ds := models.DataSets{{
			Identifier:    "a.wav",
			FeatureNames:  []string{"RMS"},
			FeatureValues: [][]float64{{0.5, 0.125}},
			Sections: []models.DataSet{{
				Start: 0, Stop: 2,
				FeatureNames:  []string{"RMS"},
				FeatureValues: [][]float64{{0.75}},
			}},
		}}
		path := filepath.Join(dir, "vec.xml")
		if err := ds.Save(path, "", true); err != nil {
			t.Fatal(err)
		}
		got, err := ParseFeatureVectors(path)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(ds, got); diff != "" {
			t.Errorf("Data sets mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("project", func(t *testing.T) {
		p := &models.Project{
			Comments:               []string{"demo"},
			TaxonomyPath:           "tax.xml",
			FeatureDefinitionPaths: []string{"feat.xml"},
			FeatureVectorPaths:     []string{"v1.xml", "v2.xml"},
			ClassifierSettingsPath: "settings.cfg",
		}
		path := filepath.Join(dir, "proj.xml")
		if err := p.Save(path, true); err != nil {
			t.Fatal(err)
		}
		got, err := ParseProject(path)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(p, got); diff != "" {
			t.Errorf("Project mismatch (-want +got):\n%s", diff)
		}
	})
}
