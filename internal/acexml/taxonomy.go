package acexml

import (
	"github.com/jmir-tools/acekit/internal/models"
)

// decodeTaxonomy builds the class tree with an explicit parent stack. Each
// grouping element remembers the stack height it was opened at and restores it
// on close.
func decodeTaxonomy(r *Reader) (models.Document, error) {
	tax := models.NewTaxonomy()
	stack := []int{tax.Root()}
	var groups []int

	err := decodeBody(r, models.RootTaxonomy, func(ev Event, text string) error {
		if ev.Kind == Enter {
			if ev.Name == "parent_class" || ev.Name == "sub_class" {
				groups = append(groups, len(stack))
			}
			return nil
		}

		switch ev.Name {
		case "comments":
			if ev.Depth == 2 {
				tax.Comments = text
			}
		case "class_name":
			child := tax.AddChild(stack[len(stack)-1], text)
			stack = append(stack, child)
		case "parent_class", "sub_class":
			if n := len(groups); n > 0 {
				stack = stack[:groups[n-1]]
				groups = groups[:n-1]
			}
		case models.RootTaxonomy:
			stack = stack[:1]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tax, nil
}
