package acexml

import (
	"github.com/jmir-tools/acekit/internal/models"
)

func decodeProject(r *Reader) (models.Document, error) {
	p := &models.Project{}
	var group string

	err := decodeBody(r, models.RootProject, func(ev Event, text string) error {
		if ev.Kind == Enter {
			switch ev.Name {
			case "taxonomy_path", "feature_definitions_path", "feature_vectors_path", "model_classifications_path":
				group = ev.Name
			}
			return nil
		}

		switch ev.Name {
		case "comments":
			if text != "" {
				p.Comments = append(p.Comments, text)
			}
		case "path":
			if text == "" {
				return nil
			}
			switch group {
			case "taxonomy_path":
				p.TaxonomyPath = text
			case "feature_definitions_path":
				p.FeatureDefinitionPaths = append(p.FeatureDefinitionPaths, text)
			case "feature_vectors_path":
				p.FeatureVectorPaths = append(p.FeatureVectorPaths, text)
			case "model_classifications_path":
				p.ClassificationPaths = append(p.ClassificationPaths, text)
			}
		case "taxonomy_path":
			// older manifests store the taxonomy as direct text
			if text != "" {
				p.TaxonomyPath = text
			}
			group = ""
		case "feature_definitions_path", "feature_vectors_path", "model_classifications_path":
			group = ""
		case "gui_preferences_path":
			p.GUIPreferencesPath = text
		case "classifier_settings_path":
			p.ClassifierSettingsPath = text
		case "trained_classifiers_path":
			p.TrainedClassifiersPath = text
		case "weka_arff_path":
			p.WekaARFFPath = text
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
