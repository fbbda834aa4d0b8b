// Package sdk implements github.Provider on the go-github SDK.
package sdk

import (
	"context"
	"net/http"

	"github.com/google/go-github/v67/github"

	"github.com/mikellez/lumen/errors"
	gh "github.com/mikellez/lumen/github"
)

// SDKProvider talks to the GitHub REST API.
type SDKProvider struct {
	client *github.Client
}

var _ gh.Provider = (*SDKProvider)(nil)

// NewSDKProvider creates a provider. A token or a client is required; a
// token alone targets api.github.com unless WithEnterprise is given.
//
//	provider, err := sdk.NewSDKProvider(sdk.WithToken(token))
func NewSDKProvider(opts ...Option) (*SDKProvider, error) {
	cfg := &config{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	client := cfg.client
	if client == nil {
		if cfg.token == "" {
			return nil, errors.WithContext(
				errors.New(errors.CodeInvalidInput, "either token or client must be provided"),
				"field", "token or client")
		}
		client = github.NewClient(nil).WithAuthToken(cfg.token)
	}

	if cfg.enterpriseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(cfg.enterpriseURL, cfg.enterpriseURL)
		if err != nil {
			return nil, errors.WithContext(
				errors.Wrap(err, errors.CodeInvalidConfig, "invalid GitHub Enterprise URL"),
				"url", cfg.enterpriseURL)
		}
	}

	return &SDKProvider{client: client}, nil
}

type config struct {
	client        *github.Client
	token         string
	enterpriseURL string
}

// Option configures the SDK provider.
type Option func(*config) error

// WithToken authenticates requests with a personal access token.
func WithToken(token string) Option {
	return func(cfg *config) error {
		if token == "" {
			return errors.WithContext(errors.New(errors.CodeInvalidInput, "token cannot be empty"), "field", "token")
		}
		cfg.token = token
		return nil
	}
}

// WithClient uses a preconfigured go-github client.
func WithClient(client *github.Client) Option {
	return func(cfg *config) error {
		if client == nil {
			return errors.WithContext(errors.New(errors.CodeInvalidInput, "client cannot be nil"), "field", "client")
		}
		cfg.client = client
		return nil
	}
}

// WithEnterprise points the provider at a GitHub Enterprise Server, e.g.
// "https://git.example.com/".
func WithEnterprise(baseURL string) Option {
	return func(cfg *config) error {
		cfg.enterpriseURL = baseURL
		return nil
	}
}

// CurrentUser returns the authenticated account. A private profile email is
// replaced by the primary verified address when the token may read it.
func (s *SDKProvider) CurrentUser(ctx context.Context) (*gh.UserData, error) {
	user, resp, err := s.client.Users.Get(ctx, "")
	if err != nil {
		return nil, wrapError(err, resp, "failed to get authenticated user")
	}

	data := &gh.UserData{
		ID:    user.GetID(),
		Login: user.GetLogin(),
		Name:  user.GetName(),
		Email: user.GetEmail(),
	}
	if data.Email == "" {
		data.Email = s.primaryEmail(ctx)
	}
	return data, nil
}

// primaryEmail returns the primary verified address, or "" when the token
// lacks the user:email scope or none is verified.
func (s *SDKProvider) primaryEmail(ctx context.Context) string {
	emails, _, err := s.client.Users.ListEmails(ctx, &github.ListOptions{PerPage: 100})
	if err != nil {
		return ""
	}
	for _, e := range emails {
		if e.GetPrimary() && e.GetVerified() {
			return e.GetEmail()
		}
	}
	return ""
}

// GetRepository retrieves repository metadata.
func (s *SDKProvider) GetRepository(ctx context.Context, owner, repo string) (*gh.RepositoryData, error) {
	r, resp, err := s.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, wrapError(err, resp, "failed to get repository")
	}
	return convertRepository(r), nil
}

func convertRepository(r *github.Repository) *gh.RepositoryData {
	data := &gh.RepositoryData{
		ID:            r.GetID(),
		Owner:         r.GetOwner().GetLogin(),
		Name:          r.GetName(),
		FullName:      r.GetFullName(),
		Description:   r.GetDescription(),
		DefaultBranch: r.GetDefaultBranch(),
		Private:       r.GetPrivate(),
		Archived:      r.GetArchived(),
		CloneURL:      r.GetCloneURL(),
		HTMLURL:       r.GetHTMLURL(),
	}
	if t := r.GetCreatedAt(); !t.IsZero() {
		data.CreatedAt = t.Time
	}
	if t := r.GetUpdatedAt(); !t.IsZero() {
		data.UpdatedAt = t.Time
	}
	return data
}

// wrapError classifies a go-github error. Rate limits arrive as 403s with
// their own error types and are checked first.
func wrapError(err error, resp *github.Response, message string) error {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return errors.WithContext(errors.Wrap(err, errors.CodeRateLimit, message), "status", http.StatusForbidden)
	}

	status := 0
	if resp != nil && resp.Response != nil {
		status = resp.StatusCode
	}
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		status = ghErr.Response.StatusCode
	}
	return gh.WrapHTTPError(err, status, message)
}
