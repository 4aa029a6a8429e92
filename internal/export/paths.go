package export

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"bbcharts/internal/chart"
)

// DefaultPath returns <outRoot>/<slug>/<slug>-<date>.json, with "/" in the
// slug replaced by "-".
func DefaultPath(outRoot, slug, date string) string {
	safe := chart.SafeSlug(slug)
	return filepath.Join(outRoot, safe, safe+"-"+date+".json")
}

// NextFreePath returns path when nothing exists there, otherwise the first of
// path-1, path-2, ... (suffix before the extension) that does not exist.
func NextFreePath(path string) (string, error) {
	free, err := notExists(path)
	if err != nil || free {
		return path, err
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s-%d%s", base, n, ext)
		free, err := notExists(candidate)
		if err != nil {
			return "", err
		}
		if free {
			return candidate, nil
		}
	}
}

func notExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, fs.ErrNotExist):
		return true, nil
	default:
		return false, err
	}
}
