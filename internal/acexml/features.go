package acexml

import (
	"strconv"

	"github.com/jmir-tools/acekit/internal/models"
)

func decodeFeatureDefinitions(r *Reader) (models.Document, error) {
	defs := models.FeatureDefinitions{}
	var current *models.FeatureDefinition

	err := decodeBody(r, models.RootFeatureKey, func(ev Event, text string) error {
		if ev.Kind == Enter {
			if ev.Name == "feature" {
				def := models.NewFeatureDefinition()
				current = &def
			}
			return nil
		}
		if current == nil {
			return nil
		}

		switch ev.Name {
		case "name":
			current.Name = text
		case "description":
			current.Description = text
		case "is_sequential":
			current.IsSequential = text != "false"
		case "parallel_dimensions":
			n, err := strconv.Atoi(text)
			if err != nil {
				return r.Errorf("invalid parallel_dimensions "+strconv.Quote(text), err)
			}
			current.Dimensions = n
		case "feature":
			defs = append(defs, *current)
			current = nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return defs, nil
}
