package acexml

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// EventKind distinguishes the three event types produced by a Reader.
type EventKind int

const (
	Enter EventKind = iota
	Text
	Exit
)

func (k EventKind) String() string {
	switch k {
	case Enter:
		return "enter"
	case Text:
		return "text"
	case Exit:
		return "exit"
	}
	return "invalid"
}

// Event is one step of a document walk. Name is set for Enter and Exit, Data for Text.
// Depth is 1 for the root element; a Text event carries the depth of its enclosing element.
type Event struct {
	Kind  EventKind
	Name  string
	Attrs map[string]string
	Data  string
	Depth int
	Line  int
}

// Reader is a pull iterator over the element structure of one XML document.
// Character data is delivered once per run between tags, trimmed, and
// whitespace-only runs are dropped. A Reader cannot be restarted.
type Reader struct {
	dec     *xml.Decoder
	path    string
	depth   int
	text    strings.Builder
	pending *Event
}

// NewReader returns a Reader over r. path is only used in error messages.
func NewReader(r io.Reader, path string) *Reader {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	return &Reader{dec: dec, path: path}
}

// Next returns the next event, or io.EOF once the document is exhausted.
func (r *Reader) Next() (Event, error) {
	if r.pending != nil {
		ev := *r.pending
		r.pending = nil
		return ev, nil
	}

	for {
		tok, err := r.dec.Token()
		if errors.Is(err, io.EOF) {
			return Event{}, io.EOF
		}
		if err != nil {
			return Event{}, r.malformed(err)
		}

		var ev Event
		switch t := tok.(type) {
		case xml.CharData:
			r.text.Write(t)
			continue
		case xml.StartElement:
			r.depth++
			ev = Event{Kind: Enter, Name: t.Name.Local, Attrs: attrMap(t.Attr), Depth: r.depth, Line: r.Line()}
			if text, ok := r.flushText(r.depth - 1); ok {
				r.pending = &ev
				return text, nil
			}
		case xml.EndElement:
			ev = Event{Kind: Exit, Name: t.Name.Local, Depth: r.depth, Line: r.Line()}
			text, ok := r.flushText(r.depth)
			r.depth--
			if ok {
				r.pending = &ev
				return text, nil
			}
		default:
			// comments, processing instructions and the DOCTYPE carry no content
			continue
		}
		return ev, nil
	}
}

// Line returns the current line of the underlying decoder.
func (r *Reader) Line() int {
	line, _ := r.dec.InputPos()
	return line
}

// Errorf builds a MalformedXMLError at the current position.
func (r *Reader) Errorf(detail string, err error) error {
	return &MalformedXMLError{Path: r.path, Line: r.Line(), Detail: detail, Err: err}
}

func (r *Reader) flushText(depth int) (Event, bool) {
	data := strings.TrimSpace(r.text.String())
	r.text.Reset()
	if data == "" {
		return Event{}, false
	}
	return Event{Kind: Text, Data: data, Depth: depth, Line: r.Line()}, true
}

func (r *Reader) malformed(err error) error {
	var syntax *xml.SyntaxError
	if errors.As(err, &syntax) {
		return &MalformedXMLError{Path: r.path, Line: syntax.Line, Detail: syntax.Msg, Err: err}
	}
	return &MalformedXMLError{Path: r.path, Line: r.Line(), Detail: err.Error(), Err: err}
}

func attrMap(attrs []xml.Attr) map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Name.Local] = a.Value
	}
	return m
}

// rootElement reads up to the first start element and returns its name.
func rootElement(r *Reader) (Event, error) {
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return Event{}, r.Errorf("document has no root element", err)
		}
		if err != nil {
			return Event{}, err
		}
		if ev.Kind == Enter {
			return ev, nil
		}
	}
}
