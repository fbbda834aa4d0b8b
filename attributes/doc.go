// Package attributes decides which repository paths are stored as large
// file pointers.
//
// It reads the repository's .gitattributes file, one rule per line:
//
//	# media
//	*.mp4 filter=lfs diff=lfs merge=lfs -text
//	assets/**/*.png filter=lfs
//
// The first whitespace separated token is a glob pattern, matched with
// doublestar semantics ("*", "**", "?", "[...]"). A pattern without a slash
// also matches the base name of a path, so "*.mp4" applies at any depth.
// The remaining tokens are flags.
//
// A path is tracked when any rule matching it carries "filter=lfs". Later
// rules do not override earlier ones.
package attributes
