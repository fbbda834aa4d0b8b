package repo

import (
	"github.com/mikellez/lumen/errors"
)

// Credentials authenticate a single operation. They are never persisted.
type Credentials struct {
	// Principal is the account name used for transport authentication.
	Principal string
	// Token is the secret used for transport and bearer authentication.
	Token string
	// DisplayName stamps commit authorship. Defaults to Principal.
	DisplayName string
	// Email stamps commit authorship.
	Email string
}

// Validate checks that the credentials can authenticate a request.
func (c Credentials) Validate() error {
	if c.Principal == "" {
		return errors.New(errors.CodeUnauthorized, "credentials missing principal")
	}
	if c.Token == "" {
		return errors.New(errors.CodeUnauthorized, "credentials missing token")
	}
	return nil
}

// Author returns the name and email used for commits.
func (c Credentials) Author() (name, email string) {
	name = c.DisplayName
	if name == "" {
		name = c.Principal
	}
	return name, c.Email
}
