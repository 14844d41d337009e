package models

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// Project is the manifest listing which files, of which types, make up one ACE project.
// An empty string means the path is absent.
type Project struct {
	// ProjectFile is where the manifest itself lives. It is not serialized.
	ProjectFile string `json:"project_file,omitempty" yaml:"projectfile,omitempty"`

	Comments               []string `json:"comments,omitempty" yaml:"comments,omitempty"`
	TaxonomyPath           string   `json:"taxonomy_path,omitempty" yaml:"taxonomypath,omitempty"`
	FeatureDefinitionPaths []string `json:"feature_definitions_paths,omitempty" yaml:"featuredefinitionpaths,omitempty"`
	FeatureVectorPaths     []string `json:"feature_vectors_paths,omitempty" yaml:"featurevectorpaths,omitempty"`
	ClassificationPaths    []string `json:"classification_paths,omitempty" yaml:"classificationpaths,omitempty"`
	GUIPreferencesPath     string   `json:"gui_preferences_path,omitempty" yaml:"guipreferencespath,omitempty"`
	ClassifierSettingsPath string   `json:"classifier_settings_path,omitempty" yaml:"classifiersettingspath,omitempty"`
	TrainedClassifiersPath string   `json:"trained_classifiers_path,omitempty" yaml:"trainedclassifierspath,omitempty"`
	WekaARFFPath           string   `json:"weka_arff_path,omitempty" yaml:"wekaarffpath,omitempty"`
}

// NewProject builds a manifest from typed path lists. Empty list members are dropped.
func NewProject(projectFile, taxonomy string, featureDefs, featureVectors, classifications []string) *Project {
	return &Project{
		ProjectFile:            projectFile,
		TaxonomyPath:           taxonomy,
		FeatureDefinitionPaths: compact(featureDefs),
		FeatureVectorPaths:     compact(featureVectors),
		ClassificationPaths:    compact(classifications),
	}
}

func compact(paths []string) []string {
	var out []string
	for _, p := range paths {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// HasTypedFiles reports whether any typed document is referenced.
func (p *Project) HasTypedFiles() bool {
	return p.TaxonomyPath != "" || len(p.FeatureDefinitionPaths) > 0 ||
		len(p.FeatureVectorPaths) > 0 || len(p.ClassificationPaths) > 0
}

// Validate checks that no list member is empty.
func (p *Project) Validate() error {
	lists := map[string][]string{
		"feature_definitions_path":   p.FeatureDefinitionPaths,
		"feature_vectors_path":       p.FeatureVectorPaths,
		"model_classifications_path": p.ClassificationPaths,
	}
	for name, paths := range lists {
		for i, path := range paths {
			if path == "" {
				return fmt.Errorf("%s entry %d is empty", name, i)
			}
		}
	}
	return nil
}

// AddTaxonomy sets the taxonomy path. A project holds at most one taxonomy.
func (p *Project) AddTaxonomy(path string) { p.TaxonomyPath = path }

// AddFeatureDefinition appends a feature key file.
func (p *Project) AddFeatureDefinition(path string) {
	p.FeatureDefinitionPaths = append(p.FeatureDefinitionPaths, path)
}

// AddFeatureVector appends a feature vector file.
func (p *Project) AddFeatureVector(path string) {
	p.FeatureVectorPaths = append(p.FeatureVectorPaths, path)
}

// AddClassification appends a classifications file.
func (p *Project) AddClassification(path string) {
	p.ClassificationPaths = append(p.ClassificationPaths, path)
}

// Relocate points every path at dir, keeping each file name.
func (p *Project) Relocate(dir string) {
	move := func(path string) string {
		if path == "" {
			return ""
		}
		return filepath.Join(dir, filepath.Base(path))
	}
	moveAll := func(paths []string) {
		for i := range paths {
			paths[i] = move(paths[i])
		}
	}

	p.ProjectFile = move(p.ProjectFile)
	p.TaxonomyPath = move(p.TaxonomyPath)
	moveAll(p.FeatureDefinitionPaths)
	moveAll(p.FeatureVectorPaths)
	moveAll(p.ClassificationPaths)
	p.GUIPreferencesPath = move(p.GUIPreferencesPath)
	p.ClassifierSettingsPath = move(p.ClassifierSettingsPath)
	p.TrainedClassifiersPath = move(p.TrainedClassifiersPath)
	p.WekaARFFPath = move(p.WekaARFFPath)
}

// Delete removes the manifest file at ProjectFile.
func (p *Project) Delete() error {
	if p.ProjectFile == "" {
		return nil
	}
	if err := os.Remove(p.ProjectFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete project file: %w", err)
	}
	return nil
}

const projectDoctype = `<?xml version="1.0"?>
<!DOCTYPE ace_project_file [
   <!ELEMENT ace_project_file (comments*, taxonomy_path, feature_definitions_path, feature_vectors_path, model_classifications_path, gui_preferences_path, classifier_settings_path, trained_classifiers_path, weka_arff_path)>
   <!ELEMENT comments (#PCDATA)>
   <!ELEMENT taxonomy_path (path?)>
   <!ELEMENT feature_definitions_path (path*)>
   <!ELEMENT feature_vectors_path (path*)>
   <!ELEMENT model_classifications_path (path*)>
   <!ELEMENT gui_preferences_path (#PCDATA)>
   <!ELEMENT classifier_settings_path (#PCDATA)>
   <!ELEMENT trained_classifiers_path (#PCDATA)>
   <!ELEMENT weka_arff_path (#PCDATA)>
   <!ELEMENT path (#PCDATA)>
]>

`

// Save writes the manifest to path and records it as ProjectFile.
func (p *Project) Save(path string, overwrite bool) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}

	err := writeXMLFile(path, overwrite, func(w *bufio.Writer) error {
		w.WriteString(projectDoctype)
		w.WriteString("<" + RootProject + ">\n")
		if len(p.Comments) == 0 {
			w.WriteString("   <comments></comments>\n")
		}
		for _, c := range p.Comments {
			fmt.Fprintf(w, "   <comments>%s</comments>\n", escape(c))
		}

		var taxonomy []string
		if p.TaxonomyPath != "" {
			taxonomy = []string{p.TaxonomyPath}
		}
		writePathList(w, "taxonomy_path", taxonomy)
		writePathList(w, "feature_definitions_path", p.FeatureDefinitionPaths)
		writePathList(w, "feature_vectors_path", p.FeatureVectorPaths)
		writePathList(w, "model_classifications_path", p.ClassificationPaths)

		fmt.Fprintf(w, "   <gui_preferences_path>%s</gui_preferences_path>\n", escape(p.GUIPreferencesPath))
		fmt.Fprintf(w, "   <classifier_settings_path>%s</classifier_settings_path>\n", escape(p.ClassifierSettingsPath))
		fmt.Fprintf(w, "   <trained_classifiers_path>%s</trained_classifiers_path>\n", escape(p.TrainedClassifiersPath))
		fmt.Fprintf(w, "   <weka_arff_path>%s</weka_arff_path>\n", escape(p.WekaARFFPath))
		_, err := w.WriteString("</" + RootProject + ">\n")
		return err
	})
	if err != nil {
		return err
	}

	p.ProjectFile = path
	return nil
}

func writePathList(w *bufio.Writer, element string, paths []string) {
	w.WriteString("   <" + element + ">\n")
	for _, path := range paths {
		fmt.Fprintf(w, "      <path>%s</path>\n", escape(path))
	}
	w.WriteString("   </" + element + ">\n")
}
