package acexml

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDetect(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		file     string
		content  string
		expected FileType
	}{
		{"taxonomy", "a.xml", "<taxonomy_file><comments/></taxonomy_file>", FileTaxonomy},
		{"feature key", "b.xml", "<?xml version=\"1.0\"?>\n<feature_key_file/>", FileFeatureKey},
		{"feature vectors", "c.xml", "<feature_vector_file></feature_vector_file>", FileFeatureVector},
		{"classifications", "d.xml", "<!-- hi -->\n<classifications_file/>", FileClassifications},
		{"project manifest", "e.xml", "<ace_project_file/>", FileProject},
		{"unknown root", "f.xml", "<playlist/>", FileUnknown},
		{"upper case extension", "g.XML", "<taxonomy_file/>", FileTaxonomy},
		{"marker", "project.sp", "proj.xml", FileSpecial},
		{"other extension", "notes.txt", "<taxonomy_file/>", FileUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			got, err := Detect(path)
			if err != nil {
				t.Fatalf("Detect failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestDetectNeverOpensNonXML(t *testing.T) {
	dir := t.TempDir()

	// None of these exist, so any attempt to open them would fail.
	for _, name := range []string{"missing.txt", "missing", "missing.xml.bak", "project.sp"} {
		got, err := Detect(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("%s: expected no error, got %v", name, err)
		}
		if got != FileUnknown && got != FileSpecial {
			t.Errorf("%s: unexpected type %s", name, got)
		}
	}

	// An unreadable file with a non-XML extension is still classified.
	locked := writeFile(t, dir, "locked.dat", "<taxonomy_file/>")
	if err := os.Chmod(locked, 0); err != nil {
		t.Fatal(err)
	}
	if got, err := Detect(locked); err != nil || got != FileUnknown {
		t.Errorf("Expected unknown without error, got %s %v", got, err)
	}
}

func TestDetectIgnoresSizeAndDepth(t *testing.T) {
	var b strings.Builder
	b.WriteString("<taxonomy_file><comments>x</comments>")
	for i := 0; i < 2000; i++ {
		b.WriteString("<parent_class><class_name>c</class_name>")
	}
	for i := 0; i < 2000; i++ {
		b.WriteString("</parent_class>")
	}
	b.WriteString("</taxonomy_file>")

	dir := t.TempDir()
	small := writeFile(t, dir, "small.xml", "<taxonomy_file/>")
	large := writeFile(t, dir, "large.xml", b.String())

	for _, path := range []string{small, large} {
		got, err := Detect(path)
		if err != nil {
			t.Fatalf("Detect failed: %v", err)
		}
		if got != FileTaxonomy {
			t.Errorf("%s: expected taxonomy_file, got %s", filepath.Base(path), got)
		}
	}
}

func TestDetectStopsAtRoot(t *testing.T) {
	// The body is broken but the root element is readable.
	path := writeFile(t, t.TempDir(), "broken.xml", "<feature_key_file><feature></oops>")
	got, err := Detect(path)
	if err != nil {
		t.Fatalf("Expected detection from root only, got %v", err)
	}
	if got != FileFeatureKey {
		t.Errorf("Expected feature_key_file, got %s", got)
	}
}

func TestDetectMalformed(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"empty.xml":   "",
		"garbage.xml": "<<<>>>",
	} {
		path := writeFile(t, dir, name, content)
		_, err := Detect(path)
		var malformed *MalformedXMLError
		if !errors.As(err, &malformed) {
			t.Errorf("%s: expected MalformedXMLError, got %v", name, err)
		}
	}
}

func TestDetectAllPreservesOrder(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "1.xml", "<classifications_file/>"),
		writeFile(t, dir, "2.txt", "x"),
		writeFile(t, dir, "3.xml", "<taxonomy_file/>"),
		writeFile(t, dir, "project.sp", "p.xml"),
		writeFile(t, dir, "5.xml", "<ace_project_file/>"),
	}

	got, err := DetectAll(context.Background(), paths, 2)
	if err != nil {
		t.Fatalf("DetectAll failed: %v", err)
	}
	want := []FileType{FileClassifications, FileUnknown, FileTaxonomy, FileSpecial, FileProject}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Index %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestFileTypeRootElement(t *testing.T) {
	if FileProject.RootElement() != "ace_project_file" {
		t.Errorf("Expected project files to decode as ace_project_file")
	}
	if FileSpecial.RootElement() != "" || FileUnknown.RootElement() != "" {
		t.Errorf("Expected no decoder for marker or unknown files")
	}
	if _, ok := ParseFileType("feature_key_file"); !ok {
		t.Errorf("Expected feature_key_file to parse")
	}
	if _, ok := ParseFileType("bogus"); ok {
		t.Errorf("Expected bogus to be rejected")
	}
}
