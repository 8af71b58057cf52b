package files

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// 🎯 ResolveTargets expands target patterns into a sorted list of files.
// Relative patterns are resolved against base. Patterns without glob
// metacharacters are returned as-is even if the file is missing, so the read
// reports it; a glob that matches no file is an error.
func ResolveTargets(base string, patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string

	add := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}

	for _, pattern := range patterns {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(base, pattern)
		}

		if !hasMeta(pattern) {
			add(pattern)
			continue
		}

		if !doublestar.ValidatePathPattern(pattern) {
			return nil, errors.Errorf("invalid target pattern %q", pattern)
		}

		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, errors.Errorf("expanding target pattern %q: %w", pattern, err)
		}

		files := 0
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			add(match)
			files++
		}
		if files == 0 {
			return nil, errors.Errorf("%w: pattern %q matched no files", ErrSourceNotFound, pattern)
		}
	}

	sort.Strings(out)
	return out, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
