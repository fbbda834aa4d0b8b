// Package lfs implements the client side of Git LFS for cached
// repositories.
//
// Tracked files (see package attributes) are stored in the working tree as
// pointer documents:
//
//	version https://git-lfs.github.com/spec/v1
//	oid sha256:<64 lowercase hex chars>
//	size <decimal byte count>
//
// The oid and size always describe the original content, never the
// pointer itself.
//
// Store ties the pieces together. WriteFile uploads tracked content through
// the Client and only then writes the pointer, so a pointer never reaches
// the working tree before its bytes reach the remote store. ReadFile
// resolves pointers back to a fetchable URL.
package lfs
