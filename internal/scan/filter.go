package scan

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// isHidden reports whether name denotes a hidden entry. The literal names
// "." and ".." are never hidden.
func isHidden(name string) bool {
	if name == "." || name == ".." {
		return false
	}

	return strings.HasPrefix(name, ".")
}

// compileExcludes compiles exclusion regexes.
func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	excludes := make([]*regexp.Regexp, 0, len(patterns))

	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling exclusion pattern %q: %w", p, err)
		}

		excludes = append(excludes, re)
	}

	return excludes, nil
}

// matchesExclude checks if path matches any exclusion regex and returns the
// first one that does. Patterns are tested against the full slash-separated
// path, not just the basename.
func matchesExclude(path string, patterns []*regexp.Regexp) *regexp.Regexp {
	if len(patterns) == 0 {
		return nil
	}

	fPath := filepath.ToSlash(path)

	for _, re := range patterns {
		if re.MatchString(fPath) {
			return re
		}
	}

	return nil
}

// shouldSkip is the pure skip predicate: hidden-name rule plus exclusion
// patterns. It holds no state and is safe for concurrent use.
func shouldSkip(path, name string, includeHidden bool, patterns []*regexp.Regexp) bool {
	if !includeHidden && isHidden(name) {
		return true
	}

	return matchesExclude(path, patterns) != nil
}
