// Package billy implements core.FS on top of go-billy so the same
// filesystem can be handed to go-git.
//
//	fsys := billy.NewLocal("/home/me/.local/share/lumen")
//	data, err := fsys.ReadFile("/repos/acme/notes/README.md")
//
//	// go-git needs the raw billy.Filesystem
//	repo, err := git.Open("/repos/acme/notes", git.WithFilesystem(fsys.Unwrap()))
//
// Tests use NewMemory, which is backed by memfs.
package billy
