package attributes

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar"
)

// LFSFilter is the flag marking a rule as large file tracked.
const LFSFilter = "filter=lfs"

// Rule is one parsed line of an attributes file.
type Rule struct {
	Pattern string
	Flags   []string
}

// Rules is an ordered set of parsed rules.
type Rules []Rule

// Parse parses attributes file content. Blank lines and lines starting
// with '#' are dropped.
func Parse(data []byte) Rules {
	var rules Rules
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		rules = append(rules, Rule{Pattern: fields[0], Flags: fields[1:]})
	}
	return rules
}

// IsLFS reports whether the rule carries the large file filter.
func (r Rule) IsLFS() bool {
	for _, flag := range r.Flags {
		if flag == LFSFilter {
			return true
		}
	}
	return false
}

// Match reports whether the rule's pattern matches a repository relative
// path. Malformed patterns never match.
func (r Rule) Match(relPath string) bool {
	relPath = strings.TrimLeft(relPath, "/")
	pattern := strings.TrimPrefix(r.Pattern, "/")
	if relPath == "" || pattern == "" {
		return false
	}

	if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
		return true
	}

	// Patterns without a slash apply to the base name at any depth.
	if !strings.Contains(pattern, "/") {
		ok, err := doublestar.Match(pattern, path.Base(relPath))
		return err == nil && ok
	}

	return false
}

// Tracked reports whether any rule matching relPath carries the large file
// filter.
func (rs Rules) Tracked(relPath string) bool {
	for _, r := range rs {
		if r.IsLFS() && r.Match(relPath) {
			return true
		}
	}
	return false
}
