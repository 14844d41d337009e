package acezip

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmir-tools/acekit/internal/acexml"
	"github.com/klauspost/compress/zip"
)

// MarkerName is the archive entry naming the manifest.
const MarkerName = "project.sp"

// writeMarker creates the marker in dir holding manifestName on its one line.
// An existing file is never replaced.
func writeMarker(dir, manifestName string) (string, error) {
	path := filepath.Join(dir, MarkerName)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return "", fmt.Errorf("%w: %s", ErrAlreadyExists, path)
		}
		return "", ioErr("create marker", path, err)
	}
	if _, err := file.WriteString(manifestName + "\n"); err != nil {
		file.Close()
		os.Remove(path)
		return "", ioErr("write marker", path, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", ioErr("close marker", path, err)
	}
	return path, nil
}

func isMarker(name string) bool {
	return strings.EqualFold(filepath.Ext(name), acexml.MarkerExt)
}

// readMarker finds the marker entry and returns the manifest name it records.
func readMarker(zr *zip.Reader) (string, error) {
	for _, f := range zr.File {
		if !isMarker(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", ioErr("open marker", f.Name, err)
		}
		defer rc.Close()

		scanner := bufio.NewScanner(rc)
		var line string
		if scanner.Scan() {
			line = strings.TrimSpace(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return "", ioErr("read marker", f.Name, err)
		}
		if line == "" {
			return "", fmt.Errorf("%w: %s is empty", ErrMissingMarker, f.Name)
		}
		return filepath.Base(line), nil
	}
	return "", ErrMissingMarker
}
