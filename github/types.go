package github

import (
	"fmt"
	"time"
)

// UserData describes a GitHub account.
type UserData struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	// Email is the public email. Empty when the user keeps it private.
	Email string `json:"email"`
}

// NoReplyEmail returns the GitHub noreply address of the account. Accounts
// with a known ID get the "<id>+<login>" form GitHub issues today.
func (u *UserData) NoReplyEmail() string {
	if u.ID != 0 {
		return fmt.Sprintf("%d+%s@users.noreply.github.com", u.ID, u.Login)
	}
	return u.Login + "@users.noreply.github.com"
}

// RepositoryData contains repository information from the provider.
type RepositoryData struct {
	// Identification
	ID       int64  `json:"id"`
	Owner    string `json:"owner"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`

	// Metadata
	Description   string `json:"description"`
	DefaultBranch string `json:"default_branch"`
	Private       bool   `json:"private"`
	Archived      bool   `json:"archived"`

	// URLs
	CloneURL string `json:"clone_url"`
	HTMLURL  string `json:"html_url"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
