package s3

import (
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/mikellez/lumen/errors"
)

// DefaultExpiry is how long resolved URLs stay valid.
const DefaultExpiry = 15 * time.Minute

// Config holds bucket connection settings.
type Config struct {
	// Endpoint is the host and port of the server, e.g. "localhost:9000".
	Endpoint string

	// Bucket holds every object.
	Bucket string

	AccessKey string
	SecretKey string

	// UseSSL enables HTTPS connections.
	UseSSL bool

	// Region skips the bucket location lookup when set.
	Region string

	// Prefix namespaces every object key.
	Prefix string

	// Expiry bounds the lifetime of resolved URLs. Zero means DefaultExpiry.
	Expiry time.Duration

	// Client is an optional pre-configured client. Endpoint and the keys
	// are ignored when it is set.
	Client *minio.Client
}

func (c *Config) validate() error {
	if c.Bucket == "" {
		return invalid("bucket is required")
	}
	if c.Client != nil {
		return nil
	}
	if c.Endpoint == "" {
		return invalid("endpoint is required when client is not provided")
	}
	if c.AccessKey == "" {
		return invalid("access key is required when client is not provided")
	}
	if c.SecretKey == "" {
		return invalid("secret key is required when client is not provided")
	}
	return nil
}

func invalid(msg string) error {
	return errors.New(errors.CodeInvalidConfig, "invalid bucket config: "+msg)
}
