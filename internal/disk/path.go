package disk

import (
	"fmt"
	"strings"
)

// NormalizePath canonicalizes a slash-delimited remote path: empty
// components and leading/trailing slashes are dropped. It fails if
// nothing remains.
func NormalizePath(path string) (string, error) {
	segments := SplitPath(path)
	if len(segments) == 0 {
		return "", fmt.Errorf("empty remote path: %q", path)
	}
	return strings.Join(segments, "/"), nil
}

// SplitPath splits a remote path into its non-empty components.
func SplitPath(path string) []string {
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// PathPrefixes returns the cumulative prefixes of a normalized remote
// path, ordered root to leaf: "a/b/c" -> ["a", "a/b", "a/b/c"].
func PathPrefixes(path string) []string {
	segments := SplitPath(path)
	prefixes := make([]string, len(segments))
	for i := range segments {
		prefixes[i] = strings.Join(segments[:i+1], "/")
	}
	return prefixes
}

// JoinPath joins remote path components with slashes, skipping empty
// ones.
func JoinPath(parts ...string) string {
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		for _, s := range SplitPath(p) {
			segments = append(segments, s)
		}
	}
	return strings.Join(segments, "/")
}
