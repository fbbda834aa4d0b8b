package fstest

import (
	"bytes"
	"errors"
	"io/fs"
	"testing"

	"github.com/mikellez/lumen/fs/core"
)

// TestWriteFS checks WriteFile, Mkdir and MkdirAll.
func TestWriteFS(t *testing.T, filesystem core.FS, config Config) {
	runAll(t, "WriteFS", config, []subtest{
		{"WriteFile", func(t *testing.T) {
			want := []byte("first")
			if err := filesystem.WriteFile("uploads.txt", want, 0o644); err != nil {
				t.Fatalf("WriteFile: got error %v, want nil", err)
			}
			got, err := filesystem.ReadFile("uploads.txt")
			if err != nil || !bytes.Equal(got, want) {
				t.Errorf("ReadFile: got %q, %v, want %q", got, err, want)
			}
		}},
		{"WriteFileTruncates", func(t *testing.T) {
			if err := filesystem.WriteFile("truncate.txt", []byte("a longer body"), 0o644); err != nil {
				t.Fatalf("WriteFile: setup failed: %v", err)
			}
			if err := filesystem.WriteFile("truncate.txt", []byte("short"), 0o644); err != nil {
				t.Fatalf("WriteFile: got error %v, want nil", err)
			}
			got, err := filesystem.ReadFile("truncate.txt")
			if err != nil || string(got) != "short" {
				t.Errorf("ReadFile: got %q, %v, want %q", got, err, "short")
			}
		}},
		{"WriteFileMissingParent", func(t *testing.T) {
			err := filesystem.WriteFile("nested/dir/file.txt", []byte("x"), 0o644)
			if config.ImplicitParentDirs {
				if err != nil {
					t.Errorf("WriteFile: got error %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Errorf("WriteFile: got nil error, want error")
			}
		}},
		{"Mkdir", func(t *testing.T) {
			if err := filesystem.Mkdir("single", 0o755); err != nil {
				t.Fatalf("Mkdir: got error %v, want nil", err)
			}
			info, err := filesystem.Stat("single")
			if err != nil || !info.IsDir() {
				t.Errorf("Stat: got %v, %v, want a directory", info, err)
			}
		}},
		{"MkdirExists", func(t *testing.T) {
			if err := filesystem.Mkdir("twice", 0o755); err != nil {
				t.Fatalf("Mkdir: setup failed: %v", err)
			}
			if err := filesystem.Mkdir("twice", 0o755); !errors.Is(err, fs.ErrExist) {
				t.Errorf("Mkdir: got error %v, want fs.ErrExist", err)
			}
		}},
		{"MkdirMissingParent", func(t *testing.T) {
			if err := filesystem.Mkdir("orphan/child", 0o755); err == nil {
				t.Errorf("Mkdir: got nil error, want error")
			}
		}},
		{"MkdirAll", func(t *testing.T) {
			if err := filesystem.MkdirAll("repos/acme/notes", 0o755); err != nil {
				t.Fatalf("MkdirAll: got error %v, want nil", err)
			}
			for _, dir := range []string{"repos", "repos/acme", "repos/acme/notes"} {
				info, err := filesystem.Stat(dir)
				if err != nil || !info.IsDir() {
					t.Errorf("Stat(%q): got %v, %v, want a directory", dir, info, err)
				}
			}
			if err := filesystem.MkdirAll("repos/acme/notes", 0o755); err != nil {
				t.Errorf("MkdirAll on existing path: got error %v, want nil", err)
			}
		}},
	})
}
