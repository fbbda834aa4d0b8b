package git

import (
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// TokenAuth authenticates over HTTPS with a personal access token as the
// password. An empty token yields nil so public repositories can be read
// anonymously.
//
//	auth := git.TokenAuth("octocat", token)
func TokenAuth(username, token string) Auth {
	if token == "" {
		return nil
	}
	return &http.BasicAuth{Username: username, Password: token}
}
