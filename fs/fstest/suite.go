// Package fstest provides a conformance suite for core.FS implementations.
//
// Providers run it from their own tests with a constructor that returns a
// fresh, empty filesystem:
//
//	func TestConformance(t *testing.T) {
//	    fstest.TestSuite(t, func() core.FS { return billy.NewMemory() })
//	}
package fstest

import (
	"testing"

	"github.com/mikellez/lumen/fs/core"
)

// Config describes behavior that differs between providers.
type Config struct {
	// ImplicitParentDirs is set when WriteFile creates missing parents.
	ImplicitParentDirs bool

	// SkipTests lists test names to skip, e.g. "ManageFS/RenameDirectory".
	SkipTests []string
}

// TestSuite runs every conformance test with the zero Config.
func TestSuite(t *testing.T, newFS func() core.FS) {
	TestSuiteWithConfig(t, newFS, Config{})
}

// TestSuiteWithConfig runs every conformance test. Each group gets its own
// filesystem from newFS.
func TestSuiteWithConfig(t *testing.T, newFS func() core.FS, config Config) {
	groups := []struct {
		name string
		run  func(*testing.T, core.FS, Config)
	}{
		{"ReadFS", TestReadFS},
		{"WriteFS", TestWriteFS},
		{"ManageFS", TestManageFS},
	}

	for _, g := range groups {
		t.Run(g.name, func(t *testing.T) {
			if config.skip(g.name) {
				t.Skip("Skipped by provider configuration")
			}
			g.run(t, newFS(), config)
		})
	}
}

func (c Config) skip(name string) bool {
	for _, s := range c.SkipTests {
		if s == name {
			return true
		}
	}
	return false
}

// subtest is a named conformance check within a group.
type subtest struct {
	name string
	run  func(t *testing.T)
}

func runAll(t *testing.T, group string, config Config, tests []subtest) {
	t.Helper()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if config.skip(group + "/" + tc.name) {
				t.Skip("Skipped by provider configuration")
			}
			tc.run(t)
		})
	}
}
