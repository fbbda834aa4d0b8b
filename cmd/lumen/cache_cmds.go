package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mikellez/lumen/config"
	"github.com/mikellez/lumen/errors"
	"github.com/mikellez/lumen/git/cache"
	"github.com/mikellez/lumen/repo"
)

func newListCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached repositories and their size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := o.newApp(cmd)
			if err != nil {
				return err
			}

			ids := a.cache.List()
			sizes := make([]int64, len(ids))

			var g errgroup.Group
			for i, id := range ids {
				g.Go(func() error {
					sizes[i] = a.cache.Size(id)
					return nil
				})
			}
			_ = g.Wait()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "REPOSITORY\tSIZE\tACCESSED")
			var total int64
			for i, id := range ids {
				total += sizes[i]
				accessed := "-"
				if entry := a.cache.Entry(id); entry != nil {
					accessed = humanize.Time(entry.LastAccess)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", id, humanize.Bytes(uint64(sizes[i])), accessed) //nolint:gosec // never negative
			}
			fmt.Fprintf(w, "total (%d)\t%s\t\n", len(ids), humanize.Bytes(uint64(total))) //nolint:gosec // never negative
			return w.Flush()
		},
	}
}

func newRemoveCmd(o *rootOptions) *cobra.Command {
	return repoCommand(o, "remove owner/name", "Delete a repository from the cache", cobra.ExactArgs(1),
		func(_ context.Context, cmd *cobra.Command, a *app, id repo.Identity, _ []string) error {
			if !a.cache.Remove(id) {
				return errors.WithContext(
					errors.Newf(errors.CodeFilesystem, "could not remove %s", id), "repo", id.String())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", id)
			return nil
		})
}

// pruneFlags are shared by prune and gc.
type pruneFlags struct {
	maxSize string
	maxAge  time.Duration
}

func (p *pruneFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.maxSize, "max-size", "", "evict least recently used repositories above this size (default from config)")
	cmd.Flags().DurationVar(&p.maxAge, "max-age", 0, "evict repositories not accessed for this long (default from config)")
}

// strategies combines the flags with the configured bounds.
func (p *pruneFlags) strategies(cfg *config.Config) ([]cache.PruneStrategy, error) {
	maxAge := cfg.Cache.MaxAge
	if p.maxAge > 0 {
		maxAge = p.maxAge
	}

	maxSize, err := cfg.MaxSizeBytes()
	if err != nil {
		return nil, err //nolint:wrapcheck // classified by the config package
	}
	if p.maxSize != "" {
		n, err := humanize.ParseBytes(p.maxSize)
		if err != nil {
			return nil, errors.WithContext(
				errors.Wrap(err, errors.CodeInvalidInput, "invalid --max-size"), "value", p.maxSize)
		}
		maxSize = int64(n) //nolint:gosec // sizes beyond 8 EiB are not meaningful
	}

	var strategies []cache.PruneStrategy
	if maxAge > 0 {
		strategies = append(strategies, cache.PruneOlderThan(maxAge))
	}
	if maxSize > 0 {
		strategies = append(strategies, cache.PruneToSize(maxSize))
	}
	return strategies, nil
}

func newPruneCmd(o *rootOptions) *cobra.Command {
	var flags pruneFlags
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Evict repositories by age and total size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := o.newApp(cmd)
			if err != nil {
				return err
			}
			strategies, err := flags.strategies(a.cfg)
			if err != nil {
				return err
			}

			removed, err := a.cache.Prune(strategies...)
			for _, id := range removed {
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", id)
			}
			return err //nolint:wrapcheck // classified by the cache manager
		},
	}
	flags.register(cmd)
	return cmd
}

func newGCCmd(o *rootOptions) *cobra.Command {
	var (
		flags    pruneFlags
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "gc",
		Short: "Prune the cache periodically until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := setupSignalHandler(cmd.Context())
			defer cancel()

			a, err := o.newApp(cmd)
			if err != nil {
				return err
			}
			strategies, err := flags.strategies(a.cfg)
			if err != nil {
				return err
			}
			if len(strategies) == 0 {
				return errors.New(errors.CodeInvalidConfig, "gc needs cache.max_age or cache.max_size")
			}
			if interval <= 0 {
				interval = a.cfg.Cache.GCInterval
			}
			if interval <= 0 {
				return errors.New(errors.CodeInvalidConfig, "gc interval must be positive")
			}

			a.logger.Info("starting cache gc", "interval", interval)
			stop := a.cache.StartGC(interval, strategies...)
			<-ctx.Done()
			stop()
			a.logger.Info("cache gc stopped")
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().DurationVar(&interval, "interval", 0, "time between prunes (default from config)")
	return cmd
}
