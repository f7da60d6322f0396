package loader

import (
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Discover returns the files under root matching any include pattern and no
// exclude pattern, sorted. Patterns are slash-separated and relative to root.
func Discover(root string, includes, excludes []string) ([]string, error) {
	if len(includes) == 0 {
		return []string{}, nil
	}

	found := make(map[string]bool)
	for _, pattern := range includes {
		if err := validatePattern(pattern); err != nil {
			return nil, err
		}

		matches, err := doublestar.FilepathGlob(filepath.Join(root, pattern), doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			found[match] = true
		}
	}

	files := make([]string, 0, len(found))
	for file := range found {
		if excluded(root, file, excludes) {
			continue
		}
		files = append(files, file)
	}
	sort.Strings(files)

	return files, nil
}

// validatePattern rejects absolute patterns and parent references
func validatePattern(pattern string) error {
	clean := filepath.Clean(pattern)
	if filepath.IsAbs(clean) {
		return fmt.Errorf("absolute pattern not allowed: %s", pattern)
	}
	if slices.Contains(strings.Split(filepath.ToSlash(clean), "/"), "..") {
		return fmt.Errorf("parent directory reference not allowed: %s", pattern)
	}
	return nil
}

func excluded(root, file string, patterns []string) bool {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(file)
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	return false
}
