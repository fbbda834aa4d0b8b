package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mikellez/lumen/attributes"
	"github.com/mikellez/lumen/config"
	"github.com/mikellez/lumen/errors"
	"github.com/mikellez/lumen/fs/billy"
	"github.com/mikellez/lumen/git"
	"github.com/mikellez/lumen/git/cache"
	"github.com/mikellez/lumen/github"
	"github.com/mikellez/lumen/github/providers/sdk"
	"github.com/mikellez/lumen/internal/timer"
	"github.com/mikellez/lumen/lfs"
	"github.com/mikellez/lumen/lfs/s3"
	"github.com/mikellez/lumen/repo"
	"github.com/mikellez/lumen/sync"
)

// app wires the components a command needs.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	fs      *billy.FS
	cache   *cache.Manager
	engine  *sync.Engine
	store   *lfs.Store
	metrics *timer.Metrics
	github  *github.Client // nil without a token or off github.com
	opts    *rootOptions
}

func (o *rootOptions) newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = o.logFormat
	}
	logger := setupLogger(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	logger.Debug("configuration loaded",
		"cache_dir", cfg.Cache.Dir,
		"root", cfg.Cache.Root,
		"host", cfg.Remote.Host,
		"branch", cfg.Remote.Branch)

	if err := git.InstallRelay(cfg.Remote.RelayURL); err != nil {
		return nil, err //nolint:wrapcheck // classified by the git package
	}

	if err := os.MkdirAll(cfg.Cache.Dir, 0o755); err != nil {
		return nil, errors.WithContext(
			errors.Wrap(err, errors.CodeFilesystem, "failed to create cache directory"), "path", cfg.Cache.Dir)
	}

	fsys := billy.NewLocal(cfg.Cache.Dir)
	mgr := cache.New(fsys, cache.WithRoot(cfg.Cache.Root), cache.WithLogger(logger))
	metrics := timer.NewMetrics()

	engine := sync.New(fsys, mgr,
		sync.WithLogger(logger),
		sync.WithHost(cfg.Remote.Host),
		sync.WithBranch(cfg.Remote.Branch),
		sync.WithDepth(cfg.Remote.Depth),
		sync.WithRecorder(metrics),
	)

	remote, err := newRemote(cfg, logger)
	if err != nil {
		return nil, err
	}
	matcher := attributes.NewMatcher(fsys, mgr.Root(), attributes.WithLogger(logger))
	store := lfs.NewStore(fsys, mgr, matcher, remote, lfs.WithStoreLogger(logger))

	a := &app{
		cfg:     cfg,
		logger:  logger,
		fs:      fsys,
		cache:   mgr,
		engine:  engine,
		store:   store,
		metrics: metrics,
		opts:    o,
	}

	if token := o.resolveToken(cfg); token != "" {
		gh, err := newGitHub(cfg, token, logger)
		if err != nil {
			return nil, err
		}
		a.github = gh
	}

	return a, nil
}

// newGitHub returns a client for github.com or the configured Enterprise
// server, or nil when the host is neither.
func newGitHub(cfg *config.Config, token string, logger *slog.Logger) (*github.Client, error) {
	opts := []sdk.Option{sdk.WithToken(token)}
	switch {
	case cfg.Remote.EnterpriseURL != "":
		opts = append(opts, sdk.WithEnterprise(cfg.Remote.EnterpriseURL))
	case cfg.Remote.Host != "github.com":
		return nil, nil
	}

	provider, err := sdk.NewSDKProvider(opts...)
	if err != nil {
		return nil, err //nolint:wrapcheck // classified by the provider
	}
	return github.NewClient(provider, github.WithLogger(logger)), nil
}

// loadConfig reads the config file. A missing default file yields the
// default configuration; a missing explicit file is an error.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	path := o.cfgFile
	explicit := path != ""
	if !explicit {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to get user home directory")
		}
		path = filepath.Join(home, ".config", "lumen", "config.yaml")
	}

	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if explicit || errors.GetCode(err) != errors.CodeNotFound {
		return nil, err //nolint:wrapcheck // classified by the config package
	}

	cfg = config.Default()
	if err := cfg.Finalize(); err != nil {
		return nil, err //nolint:wrapcheck // classified by the config package
	}
	return cfg, nil
}

func (o *rootOptions) resolveToken(cfg *config.Config) string {
	if o.token != "" {
		return o.token
	}
	return cfg.Token()
}

// credentials assembles the credentials of the invoking user. The author
// name and email are looked up on GitHub when not given.
func (a *app) credentials(ctx context.Context) (repo.Credentials, error) {
	creds := repo.Credentials{
		Principal:   firstNonEmpty(a.opts.user, a.cfg.Auth.User),
		Token:       a.opts.resolveToken(a.cfg),
		DisplayName: firstNonEmpty(a.opts.name, a.cfg.Auth.Name),
		Email:       firstNonEmpty(a.opts.email, a.cfg.Auth.Email),
	}

	if a.github != nil {
		filled, err := a.github.Author(ctx, creds)
		if err != nil {
			a.logger.Warn("could not look up GitHub profile", "error", err)
		} else {
			creds = filled
		}
	}

	if err := creds.Validate(); err != nil {
		return creds, errors.WithContext(err, "hint", "set --user and --token or "+config.EnvUser+" and "+a.cfg.Auth.TokenEnv)
	}
	return creds, nil
}

// canonical spells id the way GitHub does when a client is available.
func (a *app) canonical(ctx context.Context, id repo.Identity) repo.Identity {
	if a.github == nil {
		return id
	}
	canonical, err := a.github.Canonical(ctx, id)
	if err != nil {
		a.logger.Warn("could not look up repository", "repo", id.String(), "error", err)
		return id
	}
	return canonical
}

// logTimings writes the recorded operation durations at debug level.
func (a *app) logTimings() {
	for _, stats := range a.metrics.Snapshot() {
		a.logger.Debug("timing",
			"op", stats.Name,
			"count", stats.Count,
			"avg", stats.Average(),
			"max", stats.Max)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// newRemote picks the large file backend: a bucket when one is named, else
// the LFS endpoint.
func newRemote(cfg *config.Config, logger *slog.Logger) (lfs.Remote, error) {
	if b := cfg.LFS.Bucket; b.Name != "" {
		access, secret := cfg.BucketKeys()
		logger.Debug("storing large files in bucket", "endpoint", b.Endpoint, "bucket", b.Name)
		return s3.New(s3.Config{ //nolint:wrapcheck // classified by the s3 package
			Endpoint:  b.Endpoint,
			Bucket:    b.Name,
			AccessKey: access,
			SecretKey: secret,
			UseSSL:    b.UseSSL,
			Region:    b.Region,
			Prefix:    b.Prefix,
			Expiry:    b.Expiry,
		}, s3.WithLogger(logger))
	}

	if cfg.LFS.Endpoint == "" {
		return unconfiguredLFS{}, nil
	}
	return lfs.NewClient(cfg.LFS.Endpoint, //nolint:wrapcheck // classified by the lfs package
		lfs.WithHTTPClient(&http.Client{Timeout: cfg.LFS.Timeout}),
		lfs.WithLogger(logger),
	)
}

// unconfiguredLFS fails every request when lfs.endpoint is empty.
type unconfiguredLFS struct{}

func (unconfiguredLFS) Resolve(context.Context, []byte, repo.Identity, repo.Credentials) (string, error) {
	return "", errors.WithContext(
		errors.New(errors.CodeLFSResolution, "no LFS endpoint configured"), "field", "lfs.endpoint")
}

func (unconfiguredLFS) Upload(context.Context, []byte, repo.Identity, repo.Credentials) error {
	return errors.WithContext(
		errors.New(errors.CodeLFSUpload, "no LFS endpoint configured"), "field", "lfs.endpoint")
}

func setupLogger(level, format string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func setupSignalHandler(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// parseRepo parses an owner/name argument.
func parseRepo(arg string) (repo.Identity, error) {
	return repo.Parse(arg) //nolint:wrapcheck // classified by the repo package
}
