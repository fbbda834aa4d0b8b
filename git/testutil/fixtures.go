package testutil

// Test user information used across all test helpers.
const (
	// TestAuthor is the default author name for test commits.
	TestAuthor = "Test User"

	// TestEmail is the default email for test commits.
	TestEmail = "test@example.com"
)

// Test repository identity and URLs.
const (
	// TestOwner and TestName identify the fixture repository.
	TestOwner = "acme"
	TestName  = "notes"

	// TestRepoURL is the canonical remote URL of the fixture repository.
	TestRepoURL = "https://github.com/acme/notes"

	// TestBranch is the single tracked branch.
	TestBranch = "main"
)

// Test file content.
const (
	// TestReadme is the README committed by SeedClone.
	TestReadme = "# Notes\n\nShared notebook.\n"

	// TestAttributes tracks media files with the large file filter.
	TestAttributes = "# media\n*.mp4 filter=lfs diff=lfs merge=lfs -text\n*.png filter=lfs diff=lfs merge=lfs -text\n"
)
