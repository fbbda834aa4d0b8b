package fstest

import (
	"bytes"
	"errors"
	"io/fs"
	"path"
	"testing"

	"github.com/mikellez/lumen/fs/core"
)

// TestManageFS checks Remove and Rename.
func TestManageFS(t *testing.T, filesystem core.FS, config Config) {
	runAll(t, "ManageFS", config, []subtest{
		{"RemoveFile", func(t *testing.T) {
			mustWrite(t, filesystem, "remove.txt", "x")
			if err := filesystem.Remove("remove.txt"); err != nil {
				t.Fatalf("Remove: got error %v, want nil", err)
			}
			if _, err := filesystem.Stat("remove.txt"); !errors.Is(err, fs.ErrNotExist) {
				t.Errorf("Stat after Remove: got error %v, want fs.ErrNotExist", err)
			}
		}},
		{"RemoveEmptyDirectory", func(t *testing.T) {
			if err := filesystem.MkdirAll("empty", 0o755); err != nil {
				t.Fatalf("MkdirAll: setup failed: %v", err)
			}
			if err := filesystem.Remove("empty"); err != nil {
				t.Fatalf("Remove: got error %v, want nil", err)
			}
			if ok, _ := filesystem.Exists("empty"); ok {
				t.Errorf("Exists after Remove: got true, want false")
			}
		}},
		{"RemoveNonEmptyDirectory", func(t *testing.T) {
			mustWrite(t, filesystem, "full/file.txt", "x")
			if err := filesystem.Remove("full"); err == nil {
				t.Errorf("Remove: got nil error, want error")
			}
		}},
		{"RemoveNotExist", func(t *testing.T) {
			if err := filesystem.Remove("missing.txt"); !errors.Is(err, fs.ErrNotExist) {
				t.Errorf("Remove: got error %v, want fs.ErrNotExist", err)
			}
		}},
		{"RenameFile", func(t *testing.T) {
			mustWrite(t, filesystem, "old.txt", "moved")
			if err := filesystem.Rename("old.txt", "new.txt"); err != nil {
				t.Fatalf("Rename: got error %v, want nil", err)
			}
			if ok, _ := filesystem.Exists("old.txt"); ok {
				t.Errorf("Exists(old.txt) after Rename: got true, want false")
			}
			got, err := filesystem.ReadFile("new.txt")
			if err != nil || !bytes.Equal(got, []byte("moved")) {
				t.Errorf("ReadFile(new.txt): got %q, %v, want %q", got, err, "moved")
			}
		}},
		{"RenameDirectory", func(t *testing.T) {
			mustWrite(t, filesystem, "olddir/file.txt", "inside")
			if err := filesystem.Rename("olddir", "newdir"); err != nil {
				t.Fatalf("Rename: got error %v, want nil", err)
			}
			if ok, _ := filesystem.Exists("olddir"); ok {
				t.Errorf("Exists(olddir) after Rename: got true, want false")
			}
			got, err := filesystem.ReadFile("newdir/file.txt")
			if err != nil || string(got) != "inside" {
				t.Errorf("ReadFile(newdir/file.txt): got %q, %v, want %q", got, err, "inside")
			}
		}},
	})
}

// mustWrite creates name, and any parents, with content.
func mustWrite(t *testing.T, filesystem core.FS, name, content string) {
	t.Helper()
	if dir := path.Dir(name); dir != "." {
		if err := filesystem.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("MkdirAll(%s): setup failed: %v", dir, err)
		}
	}
	if err := filesystem.WriteFile(name, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): setup failed: %v", name, err)
	}
}
