package fstest

import (
	"bytes"
	"errors"
	"io/fs"
	"testing"

	"github.com/mikellez/lumen/fs/core"
)

// TestReadFS checks Stat, ReadDir, ReadFile and Exists against a small tree.
func TestReadFS(t *testing.T, filesystem core.FS, config Config) {
	content := []byte("# notes\n")
	if err := filesystem.MkdirAll("repos/acme/notes", 0o755); err != nil {
		t.Fatalf("MkdirAll(repos/acme/notes): setup failed: %v", err)
	}
	if err := filesystem.WriteFile("repos/acme/notes/README.md", content, 0o644); err != nil {
		t.Fatalf("WriteFile(repos/acme/notes/README.md): setup failed: %v", err)
	}
	if err := filesystem.WriteFile("repos/acme/notes/.gitattributes", []byte("*.png filter=lfs\n"), 0o644); err != nil {
		t.Fatalf("WriteFile(repos/acme/notes/.gitattributes): setup failed: %v", err)
	}

	runAll(t, "ReadFS", config, []subtest{
		{"StatFile", func(t *testing.T) {
			info, err := filesystem.Stat("repos/acme/notes/README.md")
			if err != nil {
				t.Fatalf("Stat: got error %v, want nil", err)
			}
			if info.IsDir() {
				t.Errorf("Stat: IsDir() = true, want false")
			}
			if info.Size() != int64(len(content)) {
				t.Errorf("Stat: Size() = %d, want %d", info.Size(), len(content))
			}
		}},
		{"StatDir", func(t *testing.T) {
			info, err := filesystem.Stat("repos/acme")
			if err != nil {
				t.Fatalf("Stat: got error %v, want nil", err)
			}
			if !info.IsDir() {
				t.Errorf("Stat: IsDir() = false, want true")
			}
		}},
		{"StatNotExist", func(t *testing.T) {
			if _, err := filesystem.Stat("repos/missing"); !errors.Is(err, fs.ErrNotExist) {
				t.Errorf("Stat: got error %v, want fs.ErrNotExist", err)
			}
		}},
		{"ReadDirSorted", func(t *testing.T) {
			entries, err := filesystem.ReadDir("repos/acme/notes")
			if err != nil {
				t.Fatalf("ReadDir: got error %v, want nil", err)
			}
			if len(entries) != 2 {
				t.Fatalf("ReadDir: got %d entries, want 2", len(entries))
			}
			if entries[0].Name() != ".gitattributes" || entries[1].Name() != "README.md" {
				t.Errorf("ReadDir: got [%s %s], want [.gitattributes README.md]", entries[0].Name(), entries[1].Name())
			}
			info, err := entries[1].Info()
			if err != nil || info.Size() != int64(len(content)) {
				t.Errorf("ReadDir: entry Info() = %v, %v", info, err)
			}
		}},
		{"ReadDirMarksDirectories", func(t *testing.T) {
			entries, err := filesystem.ReadDir("repos")
			if err != nil {
				t.Fatalf("ReadDir: got error %v, want nil", err)
			}
			if len(entries) != 1 || !entries[0].IsDir() {
				t.Errorf("ReadDir: want a single directory entry, got %v", entries)
			}
		}},
		{"ReadFile", func(t *testing.T) {
			data, err := filesystem.ReadFile("repos/acme/notes/README.md")
			if err != nil {
				t.Fatalf("ReadFile: got error %v, want nil", err)
			}
			if !bytes.Equal(data, content) {
				t.Errorf("ReadFile: got %q, want %q", data, content)
			}
		}},
		{"ReadFileNotExist", func(t *testing.T) {
			if _, err := filesystem.ReadFile("repos/acme/notes/missing.md"); !errors.Is(err, fs.ErrNotExist) {
				t.Errorf("ReadFile: got error %v, want fs.ErrNotExist", err)
			}
		}},
		{"Exists", func(t *testing.T) {
			for name, want := range map[string]bool{
				"repos/acme/notes/README.md": true,
				"repos/acme":                 true,
				"repos/acme/site":            false,
			} {
				got, err := filesystem.Exists(name)
				if err != nil {
					t.Errorf("Exists(%q): got error %v, want nil", name, err)
					continue
				}
				if got != want {
					t.Errorf("Exists(%q): got %t, want %t", name, got, want)
				}
			}
		}},
	})
}
