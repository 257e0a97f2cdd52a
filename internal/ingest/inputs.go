package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Dnyaneshwarigund12/Invoice-extraction/constants"
)

// Source selects how the batch input list is built.
type Source struct {
	Dir   string   // input directory
	Files []string // explicit names or paths; empty means defaults
	Scan  bool     // list every pdf under Dir instead
}

// Inputs returns the document paths to process, in processing order.
// Explicit names without a directory part are resolved inside Dir, so the
// default list and bare names behave alike. Missing files are kept; the
// processor reports them.
func Inputs(src Source) ([]string, error) {
	if src.Scan {
		return ScanDirectory(src.Dir)
	}
	names := src.Files
	if len(names) == 0 {
		names = constants.DefaultInvoiceFiles
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		if filepath.IsAbs(n) || strings.ContainsRune(n, filepath.Separator) || strings.ContainsRune(n, '/') {
			out = append(out, filepath.Clean(n))
			continue
		}
		out = append(out, filepath.Join(src.Dir, n))
	}
	return out, nil
}

// ScanDirectory walks root and returns every allowed document, skipping hidden
// files and directories, sorted by path.
func ScanDirectory(root string) ([]string, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("input dir is required")
	}
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}
