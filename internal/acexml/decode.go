package acexml

import (
	"errors"
	"io"
	"strconv"
)

// decodeBody checks the root element against root and then calls fn for every
// Enter and Exit event below it. For Exit events text holds the character data
// that ran directly before the closing tag.
func decodeBody(r *Reader, root string, fn func(ev Event, text string) error) error {
	first, err := rootElement(r)
	if err != nil {
		return err
	}
	if first.Name != root {
		return &WrongDocumentTypeError{Path: r.path, Expected: root, Actual: first.Name}
	}

	var text string
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if ev.Kind == Text {
			text = ev.Data
			continue
		}
		if err := fn(ev, text); err != nil {
			return err
		}
		text = ""
	}
}

func parseFloat(r *Reader, element, text string) (float64, error) {
	if text == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, r.Errorf("invalid number in "+element+": "+strconv.Quote(text), err)
	}
	return f, nil
}
