package repo

import (
	"path"
	"strings"

	"github.com/mikellez/lumen/errors"
)

// Identity names a remote repository.
type Identity struct {
	Owner string
	Name  string
}

// Parse parses an "owner/name" string.
func Parse(s string) (Identity, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(s), "/")
	owner = strings.TrimSpace(owner)
	name = strings.TrimSpace(name)
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Identity{}, errors.Newf(errors.CodeInvalidInput, "invalid repository %q: expected owner/name", s)
	}
	return Identity{Owner: owner, Name: name}, nil
}

// String renders the identity as "owner/name".
func (id Identity) String() string {
	return id.Owner + "/" + id.Name
}

// IsZero reports whether either half of the identity is empty.
func (id Identity) IsZero() bool {
	return strings.TrimSpace(id.Owner) == "" || strings.TrimSpace(id.Name) == ""
}

// Sanitized returns the identity in the form used for cache paths.
func (id Identity) Sanitized() Identity {
	return Identity{Owner: Sanitize(id.Owner), Name: Sanitize(id.Name)}
}

// CacheEqual reports whether two identities map to the same cache entry.
func (id Identity) CacheEqual(other Identity) bool {
	return id.Sanitized() == other.Sanitized()
}

// Sanitize trims s, lower-cases it and replaces every rune outside
// [a-z0-9_-] with '-'.
func Sanitize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '-'
		}
	}, s)
}

// CachePath returns the cache directory for id beneath root.
func CachePath(root string, id Identity) string {
	s := id.Sanitized()
	return path.Join("/", root, s.Owner, s.Name)
}
