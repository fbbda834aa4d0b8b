package sdk

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-github/v67/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikellez/lumen/errors"
)

// newTestProvider returns a provider talking to a server backed by mux.
func newTestProvider(t *testing.T, mux *http.ServeMux) *SDKProvider {
	t.Helper()

	server := httptest.NewServer(mux)
	t.Cleanup(func() { server.Close() })

	client := github.NewClient(nil)
	baseURL, err := client.BaseURL.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = baseURL

	provider, err := NewSDKProvider(WithClient(client))
	require.NoError(t, err)
	return provider
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestNewSDKProvider(t *testing.T) {
	t.Parallel()

	t.Run("with token", func(t *testing.T) {
		t.Parallel()

		provider, err := NewSDKProvider(WithToken("test-token"))

		require.NoError(t, err)
		assert.NotNil(t, provider)
	})

	tests := []struct {
		name      string
		setupOpts []Option
		wantCode  errors.ErrorCode
	}{
		{
			name:      "with empty token returns error",
			setupOpts: []Option{WithToken("")},
			wantCode:  errors.CodeInvalidInput,
		},
		{
			name:      "with nil client returns error",
			setupOpts: []Option{WithClient(nil)},
			wantCode:  errors.CodeInvalidInput,
		},
		{
			name:      "without token or client returns error",
			setupOpts: []Option{},
			wantCode:  errors.CodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewSDKProvider(tt.setupOpts...)

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.GetCode(err))
		})
	}
}

func TestSDKProvider_CurrentUser(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			respond(http.StatusOK, `{"id": 1, "login": "ada", "name": "Ada Lovelace", "email": "ada@example.com"}`)(w, r)
		})
		provider := newTestProvider(t, mux)

		user, err := provider.CurrentUser(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
		assert.Equal(t, "ada", user.Login)
		assert.Equal(t, "Ada Lovelace", user.Name)
		assert.Equal(t, "ada@example.com", user.Email)
	})

	t.Run("bad credentials", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/user", respond(http.StatusUnauthorized, `{"message": "Bad credentials"}`))
		provider := newTestProvider(t, mux)

		_, err := provider.CurrentUser(context.Background())

		require.Error(t, err)
		assert.Equal(t, errors.CodeUnauthorized, errors.GetCode(err))
		assert.False(t, errors.IsRetryable(err))
		assert.Equal(t, http.StatusUnauthorized, errors.ToJSON(err).Context["status"])
	})
}

func TestSDKProvider_GetRepository(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/repos/acme/notes", respond(http.StatusOK, `{
			"id": 12345,
			"name": "Notes",
			"full_name": "ACME/Notes",
			"description": "Shared notebook",
			"owner": {"login": "ACME"},
			"default_branch": "main",
			"private": true,
			"archived": false,
			"clone_url": "https://github.com/ACME/Notes.git",
			"html_url": "https://github.com/ACME/Notes",
			"created_at": "2020-01-01T00:00:00Z",
			"updated_at": "2020-01-02T00:00:00Z"
		}`))
		provider := newTestProvider(t, mux)

		repo, err := provider.GetRepository(context.Background(), "acme", "notes")

		require.NoError(t, err)
		assert.Equal(t, int64(12345), repo.ID)
		assert.Equal(t, "ACME", repo.Owner)
		assert.Equal(t, "Notes", repo.Name)
		assert.Equal(t, "ACME/Notes", repo.FullName)
		assert.Equal(t, "Shared notebook", repo.Description)
		assert.Equal(t, "main", repo.DefaultBranch)
		assert.True(t, repo.Private)
		assert.False(t, repo.Archived)
		assert.Equal(t, "https://github.com/ACME/Notes.git", repo.CloneURL)
		assert.Equal(t, 2020, repo.CreatedAt.Year())
		assert.Equal(t, 2, repo.UpdatedAt.Day())
	})

	tests := []struct {
		name      string
		status    int
		wantCode  errors.ErrorCode
		retryable bool
	}{
		{name: "not found", status: http.StatusNotFound, wantCode: errors.CodeNotFound},
		{name: "forbidden", status: http.StatusForbidden, wantCode: errors.CodeForbidden},
		{name: "server error", status: http.StatusBadGateway, wantCode: errors.CodeNetwork, retryable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mux := http.NewServeMux()
			mux.HandleFunc("/repos/acme/notes", respond(tt.status, `{"message": "nope"}`))
			provider := newTestProvider(t, mux)

			_, err := provider.GetRepository(context.Background(), "acme", "notes")

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.GetCode(err))
			assert.Equal(t, tt.retryable, errors.IsRetryable(err))
		})
	}

	t.Run("unreachable", func(t *testing.T) {
		t.Parallel()

		client := github.NewClient(nil)
		baseURL, err := client.BaseURL.Parse("http://127.0.0.1:1/")
		require.NoError(t, err)
		client.BaseURL = baseURL
		provider, err := NewSDKProvider(WithClient(client))
		require.NoError(t, err)

		_, err = provider.GetRepository(context.Background(), "acme", "notes")

		require.Error(t, err)
		assert.Equal(t, errors.CodeNetwork, errors.GetCode(err))
		assert.True(t, errors.IsRetryable(err))
	})
}

func TestSDKProvider_CurrentUser_PrivateEmail(t *testing.T) {
	t.Parallel()

	t.Run("primary verified address", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/user", respond(http.StatusOK, `{"id": 7, "login": "ada"}`))
		mux.HandleFunc("/user/emails", respond(http.StatusOK, `[
			{"email": "old@example.com", "primary": false, "verified": true},
			{"email": "ada@example.com", "primary": true, "verified": true}
		]`))
		provider := newTestProvider(t, mux)

		user, err := provider.CurrentUser(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", user.Email)
	})

	t.Run("unverified primary is ignored", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/user", respond(http.StatusOK, `{"id": 7, "login": "ada"}`))
		mux.HandleFunc("/user/emails", respond(http.StatusOK, `[{"email": "ada@example.com", "primary": true, "verified": false}]`))
		provider := newTestProvider(t, mux)

		user, err := provider.CurrentUser(context.Background())

		require.NoError(t, err)
		assert.Empty(t, user.Email)
		assert.Equal(t, "7+ada@users.noreply.github.com", user.NoReplyEmail())
	})

	t.Run("token without email scope", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/user", respond(http.StatusOK, `{"id": 7, "login": "ada"}`))
		mux.HandleFunc("/user/emails", respond(http.StatusNotFound, `{"message": "Not Found"}`))
		provider := newTestProvider(t, mux)

		user, err := provider.CurrentUser(context.Background())

		require.NoError(t, err)
		assert.Empty(t, user.Email)
	})
}

func TestSDKProvider_RateLimit(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/notes", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "60")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", "4102444800")
		respond(http.StatusForbidden, `{"message": "API rate limit exceeded for 127.0.0.1."}`)(w, r)
	})
	provider := newTestProvider(t, mux)

	_, err := provider.GetRepository(context.Background(), "acme", "notes")

	require.Error(t, err)
	assert.Equal(t, errors.CodeRateLimit, errors.GetCode(err))
	assert.True(t, errors.IsRetryable(err))
}

func TestWithEnterprise(t *testing.T) {
	t.Parallel()

	provider, err := NewSDKProvider(WithToken("test-token"), WithEnterprise("https://git.example.com"))
	require.NoError(t, err)
	assert.Equal(t, "https://git.example.com/api/v3/", provider.client.BaseURL.String())

	_, err = NewSDKProvider(WithToken("test-token"), WithEnterprise("://bad"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
}
