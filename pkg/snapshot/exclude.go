package snapshot

import (
	"path/filepath"
	"strings"
)

// shouldExclude checks if a path should be excluded based on the given patterns
// Patterns support:
//   - Simple glob patterns: *.tmp, *.log
//   - Directory patterns: .thumbnails/, .trashed/
//   - Path patterns: DCIM/*, **/cache/*
func shouldExclude(relativePath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	// Normalize path separators for cross-platform support
	normalizedPath := filepath.ToSlash(relativePath)
	baseName := filepath.Base(relativePath)

	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}

		normalizedPattern := filepath.ToSlash(pattern)

		// Directory pattern (trailing /): excludes the directory and
		// everything beneath it
		if strings.HasSuffix(normalizedPattern, "/") {
			dirPattern := strings.TrimSuffix(normalizedPattern, "/")
			if normalizedPath == dirPattern ||
				strings.HasPrefix(normalizedPath, dirPattern+"/") ||
				strings.Contains(normalizedPath, "/"+dirPattern+"/") {
				return true
			}
			continue
		}

		// **/pattern matches at any depth
		if rest, ok := strings.CutPrefix(normalizedPattern, "**/"); ok {
			if matchGlob(baseName, rest) {
				return true
			}
			if normalizedPath == rest || strings.HasSuffix(normalizedPath, "/"+rest) {
				return true
			}
			for _, part := range strings.Split(normalizedPath, "/") {
				if matchGlob(part, rest) {
					return true
				}
			}
			continue
		}

		if strings.Contains(normalizedPattern, "/") {
			// Pattern applies to the full path
			if matchGlob(normalizedPath, normalizedPattern) ||
				strings.HasSuffix(normalizedPath, normalizedPattern) {
				return true
			}
		} else {
			// Pattern applies to the basename only
			if matchGlob(baseName, normalizedPattern) {
				return true
			}
		}
	}

	return false
}

func matchGlob(name, pattern string) bool {
	matched, _ := filepath.Match(pattern, name)
	return matched
}
