package git

import (
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport/client"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
)

// RelayTransport routes git smart-HTTP requests through a CORS relay. A
// request for https://github.com/acme/notes/info/refs is sent to
// <relay>/github.com/acme/notes/info/refs with the query string and
// headers (including credentials) unchanged.
type RelayTransport struct {
	base *url.URL
	next http.RoundTripper
}

// NewRelayTransport returns a RelayTransport forwarding to relay. A nil
// next uses http.DefaultTransport.
func NewRelayTransport(relay string, next http.RoundTripper) (*RelayTransport, error) {
	base, err := url.Parse(relay)
	if err != nil {
		return nil, wrapError(err, "invalid relay URL")
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, wrapError(fmt.Errorf("relay URL must be absolute: %q", relay), "invalid relay URL")
	}
	if next == nil {
		next = http.DefaultTransport
	}
	return &RelayTransport{base: base, next: next}, nil
}

// Rewrite returns the relay URL for u.
func (t *RelayTransport) Rewrite(u *url.URL) *url.URL {
	out := *t.base
	out.Path = path.Join("/", t.base.Path, u.Host, u.Path)
	if strings.HasSuffix(u.Path, "/") && !strings.HasSuffix(out.Path, "/") {
		out.Path += "/"
	}
	out.RawPath = ""
	out.RawQuery = u.RawQuery
	out.Fragment = ""
	return &out
}

// RoundTrip implements http.RoundTripper.
func (t *RelayTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.URL = t.Rewrite(req.URL)
	out.Host = out.URL.Host
	return t.next.RoundTrip(out)
}

// InstallRelay makes every go-git HTTPS transport in the process go through
// the relay. Call it once at startup; an empty relay is a no-op.
func InstallRelay(relay string) error {
	if relay == "" {
		return nil
	}
	rt, err := NewRelayTransport(relay, nil)
	if err != nil {
		return err
	}
	client.InstallProtocol("https", githttp.NewClient(&http.Client{Transport: rt}))
	return nil
}
