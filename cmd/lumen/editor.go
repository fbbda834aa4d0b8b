package main

import (
	"fmt"
	"io"
	"os"
	"unicode/utf16"

	"github.com/mikellez/lumen/attach"
	"github.com/mikellez/lumen/errors"
)

// documentEditor edits a markdown file on the host. Offsets are UTF-16 code
// units; a negative offset means the end of the document.
type documentEditor struct {
	path     string
	doc      []uint16
	from, to int
	err      error
}

var _ attach.Editor = (*documentEditor)(nil)

func openDocument(path string, from, to int) (*documentEditor, error) {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.WithContext(
			errors.Wrap(err, errors.CodeFilesystem, "failed to read document"), "path", path)
	}

	doc := utf16.Encode([]rune(string(data)))
	clamp := func(n int) int {
		if n < 0 || n > len(doc) {
			return len(doc)
		}
		return n
	}
	from = clamp(from)
	if to < 0 {
		to = from
	}
	return &documentEditor{path: path, doc: doc, from: from, to: clamp(to)}, nil
}

func (d *documentEditor) Selection() (int, int) { return d.from, d.to }

func (d *documentEditor) Slice(from, to int) string {
	return string(utf16.Decode(d.doc[from:to]))
}

func (d *documentEditor) Dispatch(change attach.Change, selection attach.Selection) {
	doc := make([]uint16, 0, len(d.doc)+len(change.Insert))
	doc = append(doc, d.doc[:change.From]...)
	doc = append(doc, utf16.Encode([]rune(change.Insert))...)
	d.doc = append(doc, d.doc[change.To:]...)
	d.from, d.to = selection.Anchor, selection.Head

	if err := os.WriteFile(d.path, []byte(d.Text()), 0o644); err != nil { //nolint:gosec // user document
		d.err = errors.WithContext(
			errors.Wrap(err, errors.CodeFilesystem, "failed to write document"), "path", d.path)
	}
}

func (d *documentEditor) Focus() {}

func (d *documentEditor) Text() string {
	return string(utf16.Decode(d.doc))
}

// printEditor prints the inserted reference.
type printEditor struct {
	w io.Writer
}

func (p printEditor) Selection() (int, int) { return 0, 0 }
func (p printEditor) Slice(int, int) string { return "" }
func (p printEditor) Focus()                {}
func (p printEditor) Dispatch(change attach.Change, _ attach.Selection) {
	fmt.Fprintln(p.w, change.Insert)
}
