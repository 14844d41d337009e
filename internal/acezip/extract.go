package acezip

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmir-tools/acekit/internal/acexml"
	"github.com/jmir-tools/acekit/internal/models"
	"github.com/klauspost/compress/zip"
)

func openArchive(archive string) (*zip.ReadCloser, error) {
	info, err := os.Stat(archive)
	if err != nil {
		return nil, ioErr("open archive", archive, err)
	}
	if info.IsDir() {
		return nil, ioErr("open archive", archive, errors.New("is a directory"))
	}
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return nil, ioErr("read archive", archive, err)
	}
	return zr, nil
}

// safeName validates an entry name for extraction into a flat directory.
func safeName(name string) (string, error) {
	clean := strings.TrimLeft(name, "/")
	if clean == "" || clean == "." || clean == ".." ||
		strings.ContainsAny(clean, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrUnsafeEntry, name)
	}
	return clean, nil
}

// extractEntry writes f to dest under its entry name. Without overwrite an
// existing file is ErrAlreadyExists.
func extractEntry(f *zip.File, dest string, overwrite bool) (string, error) {
	name, err := safeName(f.Name)
	if err != nil {
		return "", err
	}
	target := filepath.Join(dest, name)

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !overwrite {
		flags = os.O_CREATE | os.O_WRONLY | os.O_EXCL
	}
	out, err := os.OpenFile(target, flags, 0644)
	if err != nil {
		if os.IsExist(err) {
			return "", fmt.Errorf("%w: %s", ErrAlreadyExists, target)
		}
		return "", ioErr("create", target, err)
	}

	rc, err := f.Open()
	if err != nil {
		out.Close()
		os.Remove(target)
		return "", ioErr("open entry", f.Name, err)
	}
	defer rc.Close()

	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		os.Remove(target)
		return "", ioErr("extract", f.Name, err)
	}
	if err := out.Close(); err != nil {
		return "", ioErr("close", target, err)
	}
	if !f.Modified.IsZero() {
		_ = os.Chtimes(target, f.Modified, f.Modified)
	}
	return target, nil
}

// findEntry returns the entry called name, falling back to the first entry
// whose name ends with it.
func findEntry(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, name) {
			return f
		}
	}
	return nil
}

// ExtractFile extracts the single entry called name into dest.
func (p *Packager) ExtractFile(ctx context.Context, archive, dest, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	zr, err := openArchive(archive)
	if err != nil {
		return "", err
	}
	defer zr.Close()

	f := findEntry(&zr.Reader, name)
	if f == nil {
		return "", fmt.Errorf("%w: %s in %s", ErrEntryNotFound, name, archive)
	}
	path, err := extractEntry(f, dest, false)
	if err != nil {
		return "", err
	}
	slog.Debug("Extracted entry", "archive", archive, "entry", f.Name, "path", path)
	return path, nil
}

// Extract extracts the files of one category into dest. Selector is
// acexml.FileProject for the manifest alone, or one of the four typed
// document categories. For a typed category the manifest is relocated to
// dest and saved there alongside the extracted files.
func (p *Packager) Extract(ctx context.Context, archive, dest string, selector acexml.FileType) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch selector {
	case acexml.FileProject, acexml.FileTaxonomy, acexml.FileFeatureKey,
		acexml.FileFeatureVector, acexml.FileClassifications:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFileType, selector)
	}

	zr, err := openArchive(archive)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	manifestName, err := readMarker(&zr.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to locate manifest in %s: %w", archive, err)
	}
	manifestEntry := findEntry(&zr.Reader, manifestName)
	if manifestEntry == nil {
		return nil, fmt.Errorf("%w: %s in %s", ErrEntryNotFound, manifestName, archive)
	}

	if selector == acexml.FileProject {
		path, err := extractEntry(manifestEntry, dest, false)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	project, err := readManifest(manifestEntry)
	if err != nil {
		return nil, err
	}

	var names []string
	switch selector {
	case acexml.FileTaxonomy:
		if project.TaxonomyPath != "" {
			names = []string{project.TaxonomyPath}
		}
	case acexml.FileFeatureKey:
		names = project.FeatureDefinitionPaths
	case acexml.FileFeatureVector:
		names = project.FeatureVectorPaths
	case acexml.FileClassifications:
		names = project.ClassificationPaths
	}

	extracted := []string{}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return extracted, err
		}
		f := findEntry(&zr.Reader, filepath.Base(name))
		if f == nil {
			return extracted, fmt.Errorf("%w: %s in %s", ErrEntryNotFound, name, archive)
		}
		path, err := extractEntry(f, dest, false)
		if err != nil {
			return extracted, err
		}
		extracted = append(extracted, path)
	}

	project.Relocate(dest)
	if err := project.Save(filepath.Join(dest, manifestName), true); err != nil {
		return extracted, ioErr("save manifest", filepath.Join(dest, manifestName), err)
	}

	slog.Debug("Extracted category", "archive", archive, "type", selector, "files", len(extracted))
	return extracted, nil
}

// readManifest decodes a manifest entry through a private temp directory.
func readManifest(f *zip.File) (*models.Project, error) {
	tmp, err := os.MkdirTemp("", "acekit-manifest-*")
	if err != nil {
		return nil, ioErr("create temp directory", os.TempDir(), err)
	}
	defer os.RemoveAll(tmp)

	path, err := extractEntry(f, tmp, true)
	if err != nil {
		return nil, err
	}
	project, err := acexml.ParseProject(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", f.Name, err)
	}
	return project, nil
}

// ExtractAll extracts every entry into dest, creating it if needed and
// overwriting existing files.
func (p *Packager) ExtractAll(ctx context.Context, archive, dest string) ([]string, error) {
	return p.extractAll(ctx, archive, dest)
}

func (p *Packager) extractAll(ctx context.Context, archive, dest string) ([]string, error) {
	zr, err := openArchive(archive)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	if err := os.MkdirAll(dest, 0755); err != nil {
		return nil, ioErr("create directory", dest, err)
	}

	var paths []string
	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		if f.FileInfo().IsDir() {
			continue
		}
		path, err := extractEntry(f, dest, true)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	slog.Debug("Extracted archive", "archive", archive, "dest", dest, "entries", len(paths))
	return paths, nil
}

// Load extracts the whole archive into dest and returns its manifest with
// every path pointing into dest. The relocated manifest is saved in dest.
func (p *Packager) Load(ctx context.Context, archive, dest string) (*models.Project, error) {
	if _, err := p.extractAll(ctx, archive, dest); err != nil {
		return nil, err
	}

	markerPath := filepath.Join(dest, MarkerName)
	manifestName, err := markerFromFile(markerPath)
	if err != nil {
		return nil, err
	}
	manifestPath := filepath.Join(dest, manifestName)
	project, err := acexml.ParseProject(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	project.Relocate(dest)
	if err := project.Save(manifestPath, true); err != nil {
		return nil, ioErr("save manifest", manifestPath, err)
	}
	slog.Info("Loaded project", "archive", archive, "manifest", manifestPath)
	return project, nil
}

func markerFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrMissingMarker, path)
		}
		return "", ioErr("read marker", path, err)
	}
	line, _, _ := strings.Cut(string(data), "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrMissingMarker, path)
	}
	return filepath.Base(line), nil
}
