package acexml

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the path to decode does not exist.
	ErrNotFound = errors.New("file does not exist")
	// ErrIsDirectory is returned when the path to decode is a directory.
	ErrIsDirectory = errors.New("path is a directory, not a file")
	// ErrUnknownDocumentType is returned when no decoder exists for the requested type.
	ErrUnknownDocumentType = errors.New("unknown document type")
)

// WrongDocumentTypeError reports a root element that does not match the requested type.
type WrongDocumentTypeError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *WrongDocumentTypeError) Error() string {
	return fmt.Sprintf("%s must be of type %s, found root element %s", e.Path, e.Expected, e.Actual)
}

// MalformedXMLError reports a syntax or content error inside a document.
// Line is 0 when the position is unknown.
type MalformedXMLError struct {
	Path   string
	Line   int
	Detail string
	Err    error
}

func (e *MalformedXMLError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s is not a valid XML file: %s (near line %d)", e.Path, e.Detail, e.Line)
	}
	return fmt.Sprintf("%s is not a valid XML file: %s", e.Path, e.Detail)
}

func (e *MalformedXMLError) Unwrap() error { return e.Err }
