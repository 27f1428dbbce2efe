package cli

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
)

// discoverFeatureFiles expands each path (file or directory) into the
// .feature files it names. Results are sorted for deterministic run order.
func discoverFeatureFiles(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, errors.Wrapf(err, "path-not-found: %s", p)
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(path) == ".feature" {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "read-failed: %s", p)
		}
	}
	sort.Strings(out)
	return out, nil
}
