// Package config loads the lumen configuration file.
package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/mikellez/lumen/errors"
)

// Environment variables consulted at load time.
const (
	// EnvUser overrides auth.user.
	EnvUser = "LUMEN_USER"
	// DefaultTokenEnv is the variable the token is read from unless
	// auth.token_env names another.
	DefaultTokenEnv = "LUMEN_TOKEN"
	// DefaultAccessKeyEnv and DefaultSecretKeyEnv hold the bucket keys.
	DefaultAccessKeyEnv = "LUMEN_BUCKET_ACCESS_KEY"
	DefaultSecretKeyEnv = "LUMEN_BUCKET_SECRET_KEY"
)

// Config represents the complete lumen configuration.
type Config struct {
	Cache  CacheConfig  `yaml:"cache"`
	Remote RemoteConfig `yaml:"remote"`
	LFS    LFSConfig    `yaml:"lfs"`
	Auth   AuthConfig   `yaml:"auth"`
	Log    LogConfig    `yaml:"log"`
}

// CacheConfig configures the local repository cache.
type CacheConfig struct {
	// Dir is the host directory the cache filesystem is rooted at.
	Dir string `yaml:"dir"`
	// Root is the cache root inside that filesystem.
	Root string `yaml:"root"`
	// MaxSize bounds the cache for prune and gc, e.g. "2GB". Empty
	// disables the bound.
	MaxSize string `yaml:"max_size"`
	// MaxAge evicts repositories not accessed for this long. Zero disables.
	MaxAge time.Duration `yaml:"max_age"`
	// GCInterval is how often the background collector prunes.
	GCInterval time.Duration `yaml:"gc_interval"`
}

// RemoteConfig configures where repositories are cloned from.
type RemoteConfig struct {
	Host   string `yaml:"host"`
	Branch string `yaml:"branch"`
	Depth  int    `yaml:"depth"`
	// RelayURL routes git HTTPS traffic through a CORS relay.
	RelayURL string `yaml:"relay_url"`
	// EnterpriseURL is the GitHub Enterprise Server base URL used for
	// profile and repository lookups when Host is not github.com.
	EnterpriseURL string `yaml:"enterprise_url"`
}

// LFSConfig configures the large file endpoints.
type LFSConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`

	// Bucket stores content in an S3-compatible bucket instead of the
	// endpoint when Bucket.Name is set.
	Bucket BucketConfig `yaml:"bucket"`
}

// BucketConfig configures S3-compatible large file storage. Keys are read
// from the named environment variables.
type BucketConfig struct {
	Endpoint     string        `yaml:"endpoint"`
	Name         string        `yaml:"name"`
	Region       string        `yaml:"region"`
	Prefix       string        `yaml:"prefix"`
	UseSSL       bool          `yaml:"use_ssl"`
	Expiry       time.Duration `yaml:"expiry"`
	AccessKeyEnv string        `yaml:"access_key_env"`
	SecretKeyEnv string        `yaml:"secret_key_env"`
}

// AuthConfig configures credentials.
type AuthConfig struct {
	User     string `yaml:"user"`
	TokenEnv string `yaml:"token_env"`
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			Dir:        "~/.local/share/lumen",
			Root:       "/repos",
			MaxAge:     30 * 24 * time.Hour,
			GCInterval: time.Hour,
		},
		Remote: RemoteConfig{
			Host:   "github.com",
			Branch: "main",
			Depth:  1,
		},
		LFS: LFSConfig{
			Timeout: time.Minute,
			Bucket: BucketConfig{
				UseSSL:       true,
				AccessKeyEnv: DefaultAccessKeyEnv,
				SecretKeyEnv: DefaultSecretKeyEnv,
			},
		},
		Auth: AuthConfig{
			TokenEnv: DefaultTokenEnv,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads and parses the configuration file. Keys missing from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WithContext(
				errors.Wrap(err, errors.CodeNotFound, "config file not found"), "path", path)
		}
		return nil, errors.WithContext(
			errors.Wrap(err, errors.CodeInvalidConfig, "failed to read config file"), "path", path)
	}

	return Parse(data)
}

// Parse parses configuration from YAML, then expands, defaults and
// validates it.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to parse config file")
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize expands environment variables, fills empty fields with defaults
// and validates the result.
func (c *Config) Finalize() error {
	c.expandEnv()
	c.applyDefaults()
	return c.Validate()
}

// expandEnv expands environment variables in all string fields.
func (c *Config) expandEnv() {
	c.Cache.Dir = expandHome(os.ExpandEnv(c.Cache.Dir))
	c.Cache.Root = os.ExpandEnv(c.Cache.Root)
	c.Cache.MaxSize = os.ExpandEnv(c.Cache.MaxSize)
	c.Remote.Host = os.ExpandEnv(c.Remote.Host)
	c.Remote.Branch = os.ExpandEnv(c.Remote.Branch)
	c.Remote.RelayURL = os.ExpandEnv(c.Remote.RelayURL)
	c.Remote.EnterpriseURL = os.ExpandEnv(c.Remote.EnterpriseURL)
	c.LFS.Endpoint = os.ExpandEnv(c.LFS.Endpoint)
	c.LFS.Bucket.Endpoint = os.ExpandEnv(c.LFS.Bucket.Endpoint)
	c.LFS.Bucket.Name = os.ExpandEnv(c.LFS.Bucket.Name)
	c.LFS.Bucket.Prefix = os.ExpandEnv(c.LFS.Bucket.Prefix)
	c.Auth.User = os.ExpandEnv(c.Auth.User)
	c.Auth.Name = os.ExpandEnv(c.Auth.Name)
	c.Auth.Email = os.ExpandEnv(c.Auth.Email)

	if user := os.Getenv(EnvUser); user != "" {
		c.Auth.User = user
	}
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// applyDefaults fills fields the file set to empty values.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Cache.Root == "" {
		c.Cache.Root = def.Cache.Root
	}
	if c.Remote.Host == "" {
		c.Remote.Host = def.Remote.Host
	}
	if c.Remote.Branch == "" {
		c.Remote.Branch = def.Remote.Branch
	}
	if c.Auth.TokenEnv == "" {
		c.Auth.TokenEnv = DefaultTokenEnv
	}
	if c.LFS.Bucket.AccessKeyEnv == "" {
		c.LFS.Bucket.AccessKeyEnv = DefaultAccessKeyEnv
	}
	if c.LFS.Bucket.SecretKeyEnv == "" {
		c.LFS.Bucket.SecretKeyEnv = DefaultSecretKeyEnv
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
	c.Remote.Host = strings.TrimSuffix(c.Remote.Host, "/")
	c.LFS.Endpoint = strings.TrimSuffix(c.LFS.Endpoint, "/")
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Cache.Dir == "" {
		return invalid("cache.dir", "is required")
	}
	if !strings.HasPrefix(c.Cache.Root, "/") {
		return invalid("cache.root", "must be an absolute path: "+c.Cache.Root)
	}
	if _, err := c.MaxSizeBytes(); err != nil {
		return err
	}
	if c.Cache.MaxAge < 0 {
		return invalid("cache.max_age", "must not be negative")
	}
	if c.Cache.GCInterval < 0 {
		return invalid("cache.gc_interval", "must not be negative")
	}

	if strings.ContainsAny(c.Remote.Host, " /") {
		return invalid("remote.host", "must be a host name: "+c.Remote.Host)
	}
	if c.Remote.Depth < 0 {
		return invalid("remote.depth", "must not be negative")
	}
	if c.Remote.RelayURL != "" {
		if err := checkURL("remote.relay_url", c.Remote.RelayURL); err != nil {
			return err
		}
	}

	if c.Remote.EnterpriseURL != "" {
		if err := checkURL("remote.enterprise_url", c.Remote.EnterpriseURL); err != nil {
			return err
		}
	}

	if c.LFS.Endpoint != "" {
		if err := checkURL("lfs.endpoint", c.LFS.Endpoint); err != nil {
			return err
		}
	}
	if c.LFS.Timeout < 0 {
		return invalid("lfs.timeout", "must not be negative")
	}
	if c.LFS.Bucket.Name != "" {
		if c.LFS.Bucket.Endpoint == "" {
			return invalid("lfs.bucket.endpoint", "is required when lfs.bucket.name is set")
		}
		if strings.Contains(c.LFS.Bucket.Endpoint, "://") {
			return invalid("lfs.bucket.endpoint", "must be host[:port] without a scheme: "+c.LFS.Bucket.Endpoint)
		}
	}
	if c.LFS.Bucket.Expiry < 0 {
		return invalid("lfs.bucket.expiry", "must not be negative")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return invalid("log.level", "must be debug, info, warn, or error: "+c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return invalid("log.format", "must be text or json: "+c.Log.Format)
	}

	return nil
}

// MaxSizeBytes returns cache.max_size in bytes, or 0 when unset.
func (c *Config) MaxSizeBytes() (int64, error) {
	if c.Cache.MaxSize == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(c.Cache.MaxSize)
	if err != nil {
		return 0, errors.WithContext(
			errors.Wrap(err, errors.CodeInvalidConfig, "invalid cache.max_size"), "field", "cache.max_size")
	}
	return int64(n), nil //nolint:gosec // sizes beyond 8 EiB are not meaningful
}

// Token returns the access token from the configured environment variable.
func (c *Config) Token() string {
	return os.Getenv(c.Auth.TokenEnv)
}

// BucketKeys returns the bucket access and secret keys from the
// environment.
func (c *Config) BucketKeys() (access, secret string) {
	return os.Getenv(c.LFS.Bucket.AccessKeyEnv), os.Getenv(c.LFS.Bucket.SecretKeyEnv)
}

func checkURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return errors.WithContext(errors.Wrap(err, errors.CodeInvalidConfig, "invalid "+field), "field", field)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return invalid(field, "must be an http or https URL: "+raw)
	}
	if u.Host == "" {
		return invalid(field, "must include a host: "+raw)
	}
	return nil
}

func invalid(field, reason string) error {
	return errors.WithContext(errors.Newf(errors.CodeInvalidConfig, "%s %s", field, reason), "field", field)
}
