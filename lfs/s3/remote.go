package s3

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mikellez/lumen/errors"
	"github.com/mikellez/lumen/lfs"
	"github.com/mikellez/lumen/repo"
)

// objectAPI is the subset of *minio.Client used by Remote.
type objectAPI interface {
	StatObject(ctx context.Context, bucket, object string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucket, object string, expires time.Duration, params url.Values) (*url.URL, error)
}

// Remote keeps large file content in a bucket.
type Remote struct {
	client objectAPI
	bucket string
	prefix string
	expiry time.Duration
	logger *slog.Logger
}

var _ lfs.Remote = (*Remote)(nil)

// Option configures a Remote.
type Option func(*Remote)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Remote) {
		r.logger = logger
	}
}

// New creates a Remote from cfg. It does not contact the server.
func New(cfg Config, opts ...Option) (*Remote, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	var client objectAPI
	if cfg.Client != nil {
		client = cfg.Client
	} else {
		c, err := minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
			Region: cfg.Region,
		})
		if err != nil {
			return nil, errors.WithContext(
				errors.Wrap(err, errors.CodeInvalidConfig, "failed to create bucket client"),
				"endpoint", cfg.Endpoint)
		}
		client = c
	}

	return newRemote(client, cfg, opts...), nil
}

func newRemote(client objectAPI, cfg Config, opts ...Option) *Remote {
	expiry := cfg.Expiry
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	r := &Remote{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		expiry: expiry,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Key returns the object key of oid for id.
func (r *Remote) Key(id repo.Identity, oid string) string {
	s := id.Sanitized()
	key := path.Join(s.Owner, s.Name, oid[0:2], oid[2:4], oid)
	if r.prefix == "" {
		return key
	}
	return r.prefix + "/" + key
}

// Upload stores content under its digest. Content already present with the
// same size is not sent again.
func (r *Remote) Upload(ctx context.Context, content []byte, id repo.Identity, _ repo.Credentials) error {
	pointer := lfs.NewPointer(content)
	key := r.Key(id, pointer.OID)

	info, err := r.client.StatObject(ctx, r.bucket, key, minio.StatObjectOptions{})
	switch {
	case err == nil && info.Size == pointer.Size:
		r.logger.Debug("object already stored", "repo", id.String(), "oid", pointer.OID)
		return nil
	case err != nil && !isNotFound(err):
		return r.fail(err, errors.CodeLFSUpload, "unable to upload file to bucket", id, key)
	}

	_, err = r.client.PutObject(ctx, r.bucket, key, bytes.NewReader(content), pointer.Size, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return r.fail(err, errors.CodeLFSUpload, "unable to upload file to bucket", id, key)
	}

	r.logger.Debug("uploaded object", "repo", id.String(), "oid", pointer.OID, "size", pointer.Size)
	return nil
}

// Resolve returns a presigned URL for the content a pointer describes.
func (r *Remote) Resolve(ctx context.Context, pointer []byte, id repo.Identity, _ repo.Credentials) (string, error) {
	p, err := lfs.ParsePointer(pointer)
	if err != nil {
		return "", errors.WrapWithContext(err, errors.CodeLFSResolution, "unable to resolve Git LFS pointer",
			map[string]interface{}{"repo": id.String()})
	}
	key := r.Key(id, p.OID)

	info, err := r.client.StatObject(ctx, r.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return "", r.fail(err, errors.CodeLFSResolution, "unable to resolve Git LFS pointer", id, key)
	}
	if info.Size != p.Size {
		return "", errors.WithContext(
			errors.Newf(errors.CodeLFSResolution, "stored object is %d bytes, pointer says %d", info.Size, p.Size),
			"key", key)
	}

	u, err := r.client.PresignedGetObject(ctx, r.bucket, key, r.expiry, nil)
	if err != nil {
		return "", r.fail(err, errors.CodeLFSResolution, "unable to presign object URL", id, key)
	}
	return u.String(), nil
}

func (r *Remote) fail(err error, code errors.ErrorCode, msg string, id repo.Identity, key string) error {
	return errors.WrapWithContext(translate(err), code, msg, map[string]interface{}{
		"repo":   id.String(),
		"bucket": r.bucket,
		"key":    key,
	})
}

// translate classifies a bucket error by its S3 code, falling back to the
// HTTP status.
func translate(err error) error {
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket":
		return errors.Wrap(err, errors.CodeNotFound, "object not found")
	case "AccessDenied":
		return errors.Wrap(err, errors.CodeForbidden, "access denied")
	}
	if resp.StatusCode == 0 {
		return errors.Wrap(err, errors.CodeNetwork, "bucket unreachable")
	}
	return errors.WrapHTTPError(err, resp.StatusCode, "request rejected")
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}
