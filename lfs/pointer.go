package lfs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mikellez/lumen/errors"
)

// Version is the identifier line of every pointer document.
const Version = "version https://git-lfs.github.com/spec/v1"

var oidPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// Pointer describes large file content by digest and size.
type Pointer struct {
	OID  string // SHA-256 of the original content, lowercase hex
	Size int64  // Byte length of the original content
}

// Digest returns the lowercase hex SHA-256 of content.
func Digest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// NewPointer returns the pointer describing content.
func NewPointer(content []byte) Pointer {
	return Pointer{OID: Digest(content), Size: int64(len(content))}
}

// BuildPointer returns the pointer document for content.
func BuildPointer(content []byte) string {
	return NewPointer(content).Encode()
}

// Encode renders the newline terminated pointer document.
func (p Pointer) Encode() string {
	return fmt.Sprintf("%s\noid sha256:%s\nsize %d\n", Version, p.OID, p.Size)
}

// ParsePointer parses a pointer document. The three lines must appear in
// order; the trailing newline is optional.
func ParsePointer(data []byte) (Pointer, error) {
	text := strings.TrimSuffix(string(data), "\n")
	lines := strings.Split(text, "\n")
	if len(lines) != 3 {
		return Pointer{}, errors.Newf(errors.CodeInvalidInput, "pointer has %d lines, expected 3", len(lines))
	}

	if lines[0] != Version {
		return Pointer{}, errors.New(errors.CodeInvalidInput, "pointer has unknown version line")
	}

	oid, ok := strings.CutPrefix(lines[1], "oid sha256:")
	if !ok || !oidPattern.MatchString(oid) {
		return Pointer{}, errors.New(errors.CodeInvalidInput, "pointer has malformed oid line")
	}

	sizeText, ok := strings.CutPrefix(lines[2], "size ")
	if !ok {
		return Pointer{}, errors.New(errors.CodeInvalidInput, "pointer has malformed size line")
	}
	size, err := strconv.ParseInt(sizeText, 10, 64)
	if err != nil || size < 0 || strings.HasPrefix(sizeText, "+") {
		return Pointer{}, errors.New(errors.CodeInvalidInput, "pointer has malformed size line")
	}

	return Pointer{OID: oid, Size: size}, nil
}

// IsPointer reports whether data is a pointer document.
func IsPointer(data []byte) bool {
	_, err := ParsePointer(data)
	return err == nil
}
