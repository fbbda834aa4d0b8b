package lfs

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mikellez/lumen/errors"
	"github.com/mikellez/lumen/repo"
)

// endpointPath serves both pointer resolution (GET) and upload (POST).
const endpointPath = "/git-lfs-file"

// maxResolveBody bounds the resolve response, which is only a URL.
const maxResolveBody = 64 << 10

// Client talks to the large file endpoint. Each call is independent and
// carries its own credentials.
type Client struct {
	base       *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(cl *Client) {
		cl.logger = logger
	}
}

// NewClient creates a client for the endpoint rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, errors.Newf(errors.CodeInvalidConfig, "invalid LFS endpoint %q", baseURL)
	}

	c := &Client{
		base:       base,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) endpoint(query url.Values) string {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + endpointPath
	u.RawQuery = query.Encode()
	return u.String()
}

// Resolve exchanges a pointer document for a fetchable URL. The URL may be
// short lived.
func (c *Client) Resolve(ctx context.Context, pointer []byte, id repo.Identity, creds repo.Credentials) (string, error) {
	endpoint := c.endpoint(url.Values{
		"repo":    {id.String()},
		"pointer": {string(pointer)},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeLFSResolution, "failed to create resolve request")
	}
	req.Header.Set("Authorization", "Bearer "+creds.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.WithContext(
			errors.Wrap(err, errors.CodeLFSResolution, "unable to resolve Git LFS pointer"),
			"repo", id.String())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errors.WrapWithContext(statusError(resp), errors.CodeLFSResolution,
			"unable to resolve Git LFS pointer", map[string]interface{}{"repo": id.String(), "status": resp.StatusCode})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResolveBody))
	if err != nil {
		return "", errors.Wrap(err, errors.CodeLFSResolution, "failed to read resolve response")
	}

	location := strings.TrimSpace(string(body))
	if location == "" {
		return "", errors.WithContext(
			errors.New(errors.CodeLFSResolution, "unable to resolve Git LFS pointer: empty response"),
			"repo", id.String())
	}

	c.logger.Debug("resolved pointer", "repo", id.String())
	return location, nil
}

type uploadRequest struct {
	Repo    string `json:"repo"`
	Content string `json:"content"`
	OID     string `json:"oid"`
	Size    int64  `json:"size"`
}

// Upload sends content to the large file store.
func (c *Client) Upload(ctx context.Context, content []byte, id repo.Identity, creds repo.Credentials) error {
	pointer := NewPointer(content)
	body, err := json.Marshal(uploadRequest{
		Repo:    id.String(),
		Content: base64.StdEncoding.EncodeToString(content),
		OID:     pointer.OID,
		Size:    pointer.Size,
	})
	if err != nil {
		return errors.Wrap(err, errors.CodeLFSUpload, "failed to encode upload request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(nil), bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, errors.CodeLFSUpload, "failed to create upload request")
	}
	req.Header.Set("Authorization", "Bearer "+creds.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.WithContext(
			errors.Wrap(err, errors.CodeLFSUpload, "unable to upload file to Git LFS server"),
			"repo", id.String())
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.WrapWithContext(statusError(resp), errors.CodeLFSUpload,
			"unable to upload file to Git LFS server", map[string]interface{}{"repo": id.String(), "status": resp.StatusCode})
	}

	c.logger.Debug("uploaded content", "repo", id.String(), "oid", pointer.OID, "size", pointer.Size)
	return nil
}

// statusError classifies a non-success response by its status code, so a
// 503 stays retryable while a 401 does not.
func statusError(resp *http.Response) error {
	return errors.WrapHTTPError(fmt.Errorf("server returned %s", resp.Status), resp.StatusCode, "request rejected")
}
