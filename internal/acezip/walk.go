package acezip

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// expandPaths replaces every directory in paths with the files below it.
// Hidden files and directories are skipped.
func expandPaths(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, ioErr("stat", path, err)
		}
		if !info.IsDir() {
			if !hidden(path) {
				files = append(files, path)
			}
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if p == path {
				return nil
			}
			if hidden(p) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, ioErr("walk", path, err)
		}
	}
	return files, nil
}

func hidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
