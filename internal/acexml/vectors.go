package acexml

import (
	"github.com/jmir-tools/acekit/internal/models"
)

func decodeFeatureVectors(r *Reader) (models.Document, error) {
	out := models.DataSets{}
	var (
		set     *models.DataSet
		section *models.DataSet
		name    string
		values  []float64
		inFeat  bool
	)

	err := decodeBody(r, models.RootFeatureVector, func(ev Event, text string) error {
		if ev.Kind == Enter {
			switch ev.Name {
			case "data_set":
				set = &models.DataSet{}
			case "section":
				if set == nil {
					return nil
				}
				start, err := parseFloat(r, "section start", ev.Attrs["start"])
				if err != nil {
					return err
				}
				stop, err := parseFloat(r, "section stop", ev.Attrs["stop"])
				if err != nil {
					return err
				}
				section = &models.DataSet{Start: start, Stop: stop}
			case "feature":
				inFeat = true
				name = ""
				values = []float64{}
			}
			return nil
		}
		if set == nil {
			return nil
		}

		switch ev.Name {
		case "data_set_id":
			set.Identifier = text
		case "name":
			if inFeat {
				name = text
			}
		case "v":
			f, err := parseFloat(r, "v", text)
			if err != nil {
				return err
			}
			values = append(values, f)
		case "feature":
			target := set
			if section != nil {
				target = section
			}
			target.FeatureNames = append(target.FeatureNames, name)
			target.FeatureValues = append(target.FeatureValues, values)
			inFeat = false
		case "section":
			if section != nil {
				set.Sections = append(set.Sections, *section)
				section = nil
			}
		case "data_set":
			out = append(out, *set)
			set = nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
