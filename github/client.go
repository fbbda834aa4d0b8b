package github

import (
	"context"
	"log/slog"

	"github.com/mikellez/lumen/errors"
	"github.com/mikellez/lumen/repo"
)

// Client provides the GitHub lookups lumen performs around a sync.
type Client struct {
	provider Provider
	logger   *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new GitHub client with the specified provider.
func NewClient(provider Provider, opts ...ClientOption) *Client {
	c := &Client{
		provider: provider,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider returns the underlying Provider.
func (c *Client) Provider() Provider {
	return c.provider
}

// Author fills the display name and email of creds from the authenticated
// account. Fields already set are kept. The account name falls back to the
// login and a private email to the noreply address.
func (c *Client) Author(ctx context.Context, creds repo.Credentials) (repo.Credentials, error) {
	if creds.DisplayName != "" && creds.Email != "" {
		return creds, nil
	}

	user, err := c.provider.CurrentUser(ctx)
	if err != nil {
		return creds, err
	}

	if creds.DisplayName == "" {
		creds.DisplayName = user.Name
		if creds.DisplayName == "" {
			creds.DisplayName = user.Login
		}
	}
	if creds.Email == "" {
		creds.Email = user.Email
		if creds.Email == "" {
			creds.Email = user.NoReplyEmail()
		}
	}
	if creds.Principal == "" {
		creds.Principal = user.Login
	}

	c.logger.Debug("resolved commit author", "login", user.Login, "name", creds.DisplayName)
	return creds, nil
}

// Canonical looks id up and returns it with the owner and name spelled the
// way GitHub does. Renamed repositories resolve to their new name.
func (c *Client) Canonical(ctx context.Context, id repo.Identity) (repo.Identity, error) {
	if id.IsZero() {
		return id, newInvalidInputError("repository", "owner and name are required")
	}

	data, err := c.provider.GetRepository(ctx, id.Owner, id.Name)
	if err != nil {
		return id, errors.WithContext(err, "repo", id.String())
	}

	canonical := repo.Identity{Owner: data.Owner, Name: data.Name}
	if canonical.IsZero() {
		return id, nil
	}
	if canonical != id {
		c.logger.Debug("canonicalized repository", "from", id.String(), "to", canonical.String())
	}
	return canonical, nil
}
