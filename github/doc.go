// Package github looks up the GitHub account and repositories lumen works
// with.
//
// A Provider talks to the API; the sdk subpackage implements it with
// go-github. Client builds on a Provider to fill commit authorship from the
// authenticated user and to canonicalize repository identities before they
// are cloned:
//
//	provider, err := sdk.NewSDKProvider(sdk.WithToken(token))
//	if err != nil {
//	    return err
//	}
//	client := github.NewClient(provider)
//
//	creds, err = client.Author(ctx, creds)   // DisplayName and Email
//	id, err = client.Canonical(ctx, id)      // "ACME/Notes" -> "acme/notes"
//
// Errors carry platform codes derived from the HTTP status: NOT_FOUND,
// UNAUTHORIZED, FORBIDDEN, RATE_LIMIT_EXCEEDED and so on. Transport
// failures are NETWORK_ERROR and retryable.
package github
