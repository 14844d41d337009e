package acezip

import (
	"errors"
	"time"
)

// Entry roles reported by List.
const (
	RoleMarker   = "marker"
	RoleManifest = "manifest"
	RolePayload  = "payload"
)

// EntryInfo describes one archive entry.
type EntryInfo struct {
	Name           string    `json:"name" yaml:"name"`
	Size           int64     `json:"size" yaml:"size"`
	CompressedSize int64     `json:"compressed_size" yaml:"compressed_size"`
	Modified       time.Time `json:"modified" yaml:"modified"`
	Role           string    `json:"role" yaml:"role"`
}

// List returns the archive's entries in stored order. Archives without a
// marker report every entry as payload.
func (p *Packager) List(archive string) ([]EntryInfo, error) {
	zr, err := openArchive(archive)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	manifest, err := readMarker(&zr.Reader)
	if err != nil && !errors.Is(err, ErrMissingMarker) {
		return nil, err
	}

	entries := make([]EntryInfo, 0, len(zr.File))
	for _, f := range zr.File {
		role := RolePayload
		switch {
		case isMarker(f.Name):
			role = RoleMarker
		case manifest != "" && f.Name == manifest:
			role = RoleManifest
		}
		entries = append(entries, EntryInfo{
			Name:           f.Name,
			Size:           int64(f.UncompressedSize64),
			CompressedSize: int64(f.CompressedSize64),
			Modified:       f.Modified,
			Role:           role,
		})
	}
	return entries, nil
}
