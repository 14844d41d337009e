package acezip

import (
	"errors"
	"fmt"
)

var (
	ErrNothingToZip       = errors.New("no files were specified to be zipped")
	ErrMultipleTaxonomies = errors.New("only one taxonomy file may be included in an archive")
	ErrInsufficientInputs = errors.New("specify more than one file or a project file to include in the archive")
	ErrDuplicateName      = errors.New("two inputs share the same file name")
	ErrAlreadyExists      = errors.New("a file with that name already exists")
	ErrEntryNotFound      = errors.New("entry not found in archive")
	ErrInvalidFileType    = errors.New("not a valid file type")
	ErrMissingMarker      = errors.New("archive has no project marker")
	ErrUnsafeEntry        = errors.New("archive entry name is not a plain file name")
	ErrLocked             = errors.New("archive is locked by another operation")
)

// IOError wraps a file-system or compression failure.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func ioErr(op, path string, err error) error {
	return &IOError{Op: op, Path: path, Err: err}
}
