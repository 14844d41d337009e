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

// SaveRequest lists the files to pack, by category.
type SaveRequest struct {
	Taxonomy           string
	FeatureDefinitions []string
	FeatureVectors     []string
	Classifications    []string
	Other              []string

	// Archive is the zip file to create. An existing file is replaced.
	Archive string
	// ProjectFile names the generated manifest. It defaults to the archive
	// name with an .xml extension; any directory part is dropped.
	ProjectFile string
}

func (r *SaveRequest) typed() bool {
	return r.Taxonomy != "" || len(r.FeatureDefinitions) > 0 ||
		len(r.FeatureVectors) > 0 || len(r.Classifications) > 0
}

func (r *SaveRequest) projectFileName() string {
	if r.ProjectFile != "" {
		return filepath.Base(r.ProjectFile)
	}
	base := filepath.Base(r.Archive)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".xml"
}

// inputs returns every input path in archive order.
func (r *SaveRequest) inputs() []string {
	var all []string
	if r.Taxonomy != "" {
		all = append(all, r.Taxonomy)
	}
	all = append(all, r.Classifications...)
	all = append(all, r.FeatureDefinitions...)
	all = append(all, r.FeatureVectors...)
	all = append(all, r.Other...)
	return all
}

// zipItem is one archive entry and the file its bytes come from.
type zipItem struct {
	name   string
	source string
}

// Save packs the request's files into req.Archive. When any typed category is
// present a manifest and marker are generated and included; an Other-only
// request produces a plain archive. Transient files are removed on every
// exit path.
func (p *Packager) Save(ctx context.Context, req SaveRequest) error {
	unlock, err := p.acquireLock(ctx, req.Archive)
	if err != nil {
		return err
	}
	defer unlock()

	return p.save(ctx, req)
}

func (p *Packager) save(ctx context.Context, req SaveRequest) (err error) {
	if len(req.inputs()) == 0 {
		return ErrNothingToZip
	}
	typed := req.typed()
	projectFile := req.projectFileName()

	var transient []string
	defer func() {
		for _, path := range transient {
			if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
				slog.Warn("Failed to remove transient file", "path", path, "error", rmErr)
			}
		}
	}()

	stageDir := p.opts.WorkDir
	if stageDir == "" {
		tmp, err := os.MkdirTemp("", "acekit-save-*")
		if err != nil {
			return ioErr("create staging directory", os.TempDir(), err)
		}
		defer os.RemoveAll(tmp)
		stageDir = tmp
	}

	reserved := map[string]string{}
	if typed {
		reserved[MarkerName] = "the project marker"
		reserved[projectFile] = "the project manifest"
	}

	var items []zipItem
	for _, in := range req.inputs() {
		if err := ctx.Err(); err != nil {
			return err
		}
		base := filepath.Base(in)
		if prev, ok := reserved[base]; ok {
			return fmt.Errorf("%w: %s and %s", ErrDuplicateName, in, prev)
		}
		reserved[base] = in

		source, copied, err := p.stage(in, stageDir)
		if copied {
			transient = append(transient, source)
		}
		if err != nil {
			return err
		}
		items = append(items, zipItem{name: base, source: source})
	}

	if typed {
		project := models.NewProject(projectFile, baseName(req.Taxonomy),
			baseNames(req.FeatureDefinitions), baseNames(req.FeatureVectors), baseNames(req.Classifications))

		manifestPath := filepath.Join(stageDir, projectFile)
		if err := project.Save(manifestPath, false); err != nil {
			if errors.Is(err, models.ErrFileExists) {
				return fmt.Errorf("%w: %s", ErrAlreadyExists, manifestPath)
			}
			return ioErr("write manifest", manifestPath, err)
		}
		transient = append(transient, manifestPath)

		markerPath, err := writeMarker(stageDir, projectFile)
		if err != nil {
			return err
		}
		transient = append(transient, markerPath)

		items = append(items,
			zipItem{name: projectFile, source: manifestPath},
			zipItem{name: MarkerName, source: markerPath})
	}

	if err := compress(ctx, items, req.Archive); err != nil {
		return err
	}

	slog.Info("Created archive", "archive", req.Archive, "entries", len(items), "manifest", typed)
	return nil
}

// stage makes in available inside dir. Files already in dir are used in place;
// others are copied when an explicit work directory is configured and read in
// place otherwise. copied reports whether a transient file was created.
func (p *Packager) stage(in, dir string) (string, bool, error) {
	info, err := os.Stat(in)
	if err != nil {
		return "", false, ioErr("stat", in, err)
	}
	if info.IsDir() {
		return "", false, ioErr("archive", in, errors.New("is a directory"))
	}
	if p.opts.WorkDir == "" {
		return in, false, nil
	}

	absIn, err := filepath.Abs(in)
	if err != nil {
		return "", false, ioErr("resolve", in, err)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", false, ioErr("resolve", dir, err)
	}
	if filepath.Dir(absIn) == absDir {
		return in, false, nil
	}

	target := filepath.Join(dir, filepath.Base(in))
	if err := copyFile(in, target); err != nil {
		if os.IsExist(err) {
			return "", false, fmt.Errorf("%w: %s", ErrAlreadyExists, target)
		}
		return target, true, ioErr("copy", in, err)
	}
	return target, true, nil
}

// copyFile copies src to a new file dst. An existing dst is an error.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// compress deflates items into archive through a temp file renamed into place.
func compress(ctx context.Context, items []zipItem, archive string) (err error) {
	dir := filepath.Dir(archive)
	tmp, err := os.CreateTemp(dir, ".acekit-*.zip")
	if err != nil {
		return ioErr("create archive", archive, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	zw := zip.NewWriter(tmp)
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := addEntry(zw, item); err != nil {
			return err
		}
		slog.Debug("Added archive entry", "archive", archive, "entry", item.name)
	}
	if err := zw.Close(); err != nil {
		return ioErr("finish archive", archive, err)
	}
	if err := tmp.Close(); err != nil {
		return ioErr("close archive", archive, err)
	}
	if err := os.Rename(tmp.Name(), archive); err != nil {
		return ioErr("replace archive", archive, err)
	}
	return nil
}

func addEntry(zw *zip.Writer, item zipItem) error {
	src, err := os.Open(item.source)
	if err != nil {
		return ioErr("open", item.source, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return ioErr("stat", item.source, err)
	}
	header := &zip.FileHeader{
		Name:     item.name,
		Method:   zip.Deflate,
		Modified: info.ModTime(),
	}
	header.SetMode(info.Mode())

	w, err := zw.CreateHeader(header)
	if err != nil {
		return ioErr("add entry", item.name, err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return ioErr("compress", item.source, err)
	}
	return nil
}

func baseName(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}

func baseNames(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, path := range paths {
		out = append(out, baseName(path))
	}
	return out
}

// SaveProject packs the files a manifest lists. Relative manifest paths are
// resolved against the manifest's directory. The manifest's own file name is
// kept for the regenerated manifest.
func (p *Packager) SaveProject(ctx context.Context, manifestPath, archive string) error {
	unlock, err := p.acquireLock(ctx, archive)
	if err != nil {
		return err
	}
	defer unlock()

	return p.saveProject(ctx, manifestPath, archive)
}

func (p *Packager) saveProject(ctx context.Context, manifestPath, archive string) error {
	project, err := acexml.ParseProject(manifestPath)
	if err != nil {
		return fmt.Errorf("failed to read project file: %w", err)
	}

	dir := filepath.Dir(manifestPath)
	resolve := func(path string) string {
		if path == "" || filepath.IsAbs(path) {
			return path
		}
		return filepath.Join(dir, path)
	}
	resolveAll := func(paths []string) []string {
		out := make([]string, 0, len(paths))
		for _, path := range paths {
			out = append(out, resolve(path))
		}
		return out
	}

	return p.save(ctx, SaveRequest{
		Taxonomy:           resolve(project.TaxonomyPath),
		FeatureDefinitions: resolveAll(project.FeatureDefinitionPaths),
		FeatureVectors:     resolveAll(project.FeatureVectorPaths),
		Classifications:    resolveAll(project.ClassificationPaths),
		Archive:            archive,
		ProjectFile:        manifestPath,
	})
}

// SaveFiles packs an untyped list of files and directories. Each file is
// sniffed and filed under its category. A lone project manifest re-packs the
// project it describes.
func (p *Packager) SaveFiles(ctx context.Context, paths []string, archive string) error {
	unlock, err := p.acquireLock(ctx, archive)
	if err != nil {
		return err
	}
	defer unlock()

	return p.saveFiles(ctx, paths, archive)
}

func (p *Packager) saveFiles(ctx context.Context, paths []string, archive string) error {
	files, err := expandPaths(paths)
	if err != nil {
		return err
	}
	types, err := acexml.DetectAll(ctx, files, p.opts.Parallelism)
	if err != nil {
		return fmt.Errorf("failed to detect file types: %w", err)
	}

	var req SaveRequest
	var project string
	kept := 0
	for i, file := range files {
		switch types[i] {
		case acexml.FileTaxonomy:
			if req.Taxonomy != "" {
				return fmt.Errorf("%w: %s and %s", ErrMultipleTaxonomies, req.Taxonomy, file)
			}
			req.Taxonomy = file
		case acexml.FileFeatureKey:
			req.FeatureDefinitions = append(req.FeatureDefinitions, file)
		case acexml.FileFeatureVector:
			req.FeatureVectors = append(req.FeatureVectors, file)
		case acexml.FileClassifications:
			req.Classifications = append(req.Classifications, file)
		case acexml.FileProject:
			if project != "" {
				slog.Warn("Ignoring extra project file", "path", project)
			}
			project = file
		case acexml.FileSpecial:
			slog.Debug("Dropping project marker, it is regenerated", "path", file)
			continue
		default:
			req.Other = append(req.Other, file)
		}
		kept++
	}

	if project != "" && kept == 1 {
		return p.saveProject(ctx, project, archive)
	}
	if kept == 0 || (project != "" && len(req.inputs()) == 0) {
		return ErrInsufficientInputs
	}

	req.Archive = archive
	req.ProjectFile = project
	return p.save(ctx, req)
}

// Add merges paths into an existing archive. The archive is unpacked to a
// temp directory and repacked together with paths, regenerating the manifest.
func (p *Packager) Add(ctx context.Context, archive string, paths []string) error {
	unlock, err := p.acquireLock(ctx, archive)
	if err != nil {
		return err
	}
	defer unlock()

	tmp, err := os.MkdirTemp("", "acekit-add-*")
	if err != nil {
		return ioErr("create temp directory", os.TempDir(), err)
	}
	defer os.RemoveAll(tmp)

	if _, err := p.extractAll(ctx, archive, tmp); err != nil {
		return err
	}

	all := append(append([]string{}, paths...), tmp)
	if err := p.saveFiles(ctx, all, archive); err != nil {
		return err
	}
	slog.Info("Added files to archive", "archive", archive, "added", len(paths))
	return nil
}
