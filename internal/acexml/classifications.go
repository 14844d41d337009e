package acexml

import (
	"github.com/jmir-tools/acekit/internal/models"
)

// classificationRecord accumulates one data_set until it closes.
type classificationRecord struct {
	identifier string
	role       string
	labels     []string
	keys       []string
	values     []string
	sections   []models.SegmentedClassification
	section    *models.SegmentedClassification
	infoKey    string
}

func (rec *classificationRecord) finish() models.SegmentedClassification {
	c := models.SegmentedClassification{
		Identifier:      rec.identifier,
		Role:            rec.role,
		Classifications: rec.labels,
		MiscInfoKeys:    rec.keys,
		MiscInfoValues:  rec.values,
		Sections:        rec.sections,
	}
	if c.Classifications == nil {
		c.Classifications = []string{}
	}
	return c
}

func decodeClassifications(r *Reader) (models.Document, error) {
	out := models.SegmentedClassifications{}
	var rec *classificationRecord

	err := decodeBody(r, models.RootClassifications, func(ev Event, text string) error {
		if ev.Kind == Enter {
			switch ev.Name {
			case "data_set":
				rec = &classificationRecord{}
			case "section":
				if rec != nil {
					rec.section = &models.SegmentedClassification{Classifications: []string{}}
				}
			case "misc_info":
				if rec != nil {
					rec.infoKey = ev.Attrs["info_type"]
				}
			}
			return nil
		}
		if rec == nil {
			return nil
		}

		switch ev.Name {
		case "data_set_id":
			rec.identifier = text
		case "role":
			rec.role = text
		case "misc_info":
			rec.keys = append(rec.keys, rec.infoKey)
			rec.values = append(rec.values, text)
			rec.infoKey = ""
		case "class":
			if rec.section != nil {
				rec.section.Classifications = append(rec.section.Classifications, text)
			} else {
				rec.labels = append(rec.labels, text)
			}
		case "start", "stop":
			if rec.section == nil {
				return nil
			}
			f, err := parseFloat(r, ev.Name, text)
			if err != nil {
				return err
			}
			if ev.Name == "start" {
				rec.section.Start = f
			} else {
				rec.section.Stop = f
			}
		case "section":
			if rec.section != nil {
				rec.sections = append(rec.sections, *rec.section)
				rec.section = nil
			}
		case "data_set":
			out = append(out, rec.finish())
			rec = nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
