package github

import "context"

// Provider defines the GitHub API calls lumen needs.
//
// All methods accept a context.Context as the first parameter for
// cancellation and timeout control.
type Provider interface {
	// CurrentUser returns the account the provider is authenticated as.
	// Returns UNAUTHORIZED if the token is invalid.
	CurrentUser(ctx context.Context) (*UserData, error)

	// GetRepository retrieves repository information.
	// Returns NOT_FOUND if the repository doesn't exist or is not visible
	// to the authenticated user.
	GetRepository(ctx context.Context, owner, repo string) (*RepositoryData, error)
}
