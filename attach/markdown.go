package attach

import (
	"strings"
	"unicode/utf16"
)

// Reference returns the markdown reference to target labelled label.
// Images, videos and audio files use the embed syntax.
//
//	Reference("cat.png", "/uploads/1700000000000.png", "image/png")
//	// ![cat.png](/uploads/1700000000000.png)
func Reference(label, target, mimeType string) string {
	ref := "[" + label + "](" + target + ")"
	if isMedia(mimeType) {
		ref = "!" + ref
	}
	return ref
}

func isMedia(mimeType string) bool {
	top, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(mimeType)), "/")
	switch top {
	case "image", "video", "audio":
		return true
	default:
		return false
	}
}

// place computes the change inserting markdown over [from, to) and the
// selection that follows it. Replacing selected text puts the cursor after
// the reference; otherwise the label is selected so it can be renamed.
func place(from, to int, markdown string, replaced bool) (Change, Selection) {
	change := Change{From: from, To: to, Insert: markdown}
	if replaced {
		end := from + utf16Len(markdown)
		return change, Selection{Anchor: end, Head: end}
	}
	return change, Selection{
		Anchor: from + utf16Index(markdown, "]"),
		Head:   from + utf16Index(markdown, "[") + 1,
	}
}

// utf16Len returns the length of s in UTF-16 code units.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// utf16Index is strings.Index measured in UTF-16 code units.
func utf16Index(s, substr string) int {
	i := strings.Index(s, substr)
	if i < 0 {
		return i
	}
	return utf16Len(s[:i])
}
