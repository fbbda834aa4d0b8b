package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mikellez/lumen/errors"
	"github.com/mikellez/lumen/repo"
)

// pullAllLimit bounds concurrent pulls in pull-all.
const pullAllLimit = 4

// repoCommand builds a command taking owner/name as its first argument.
func repoCommand(o *rootOptions, use, short string, args cobra.PositionalArgs,
	run func(ctx context.Context, cmd *cobra.Command, a *app, id repo.Identity, args []string) error,
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupSignalHandler(cmd.Context())
			defer cancel()

			id, err := parseRepo(args[0])
			if err != nil {
				return err
			}
			a, err := o.newApp(cmd)
			if err != nil {
				return err
			}
			defer a.logTimings()

			return run(ctx, cmd, a, id, args[1:])
		},
	}
}

func newCloneCmd(o *rootOptions) *cobra.Command {
	return repoCommand(o, "clone owner/name", "Clone a repository into the cache", cobra.ExactArgs(1),
		func(ctx context.Context, cmd *cobra.Command, a *app, id repo.Identity, _ []string) error {
			creds, err := a.credentials(ctx)
			if err != nil {
				return err
			}
			id = a.canonical(ctx, id)

			if err := a.engine.Clone(ctx, id, creds); err != nil {
				return err //nolint:wrapcheck // classified by the engine
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cloned %s into %s\n", id, a.cache.Path(id))
			return nil
		})
}

func newFetchCmd(o *rootOptions) *cobra.Command {
	return repoCommand(o, "fetch owner/name", "Update the remote-tracking branch", cobra.ExactArgs(1),
		func(ctx context.Context, _ *cobra.Command, a *app, id repo.Identity, _ []string) error {
			creds, err := a.credentials(ctx)
			if err != nil {
				return err
			}
			return a.engine.Fetch(ctx, id, creds) //nolint:wrapcheck // classified by the engine
		})
}

func newPullCmd(o *rootOptions) *cobra.Command {
	return repoCommand(o, "pull owner/name", "Fast-forward a cached repository from the remote", cobra.ExactArgs(1),
		func(ctx context.Context, _ *cobra.Command, a *app, id repo.Identity, _ []string) error {
			creds, err := a.credentials(ctx)
			if err != nil {
				return err
			}
			return a.engine.Pull(ctx, id, creds) //nolint:wrapcheck // classified by the engine
		})
}

func newPullAllCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pull-all",
		Short: "Pull every cached repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := setupSignalHandler(cmd.Context())
			defer cancel()

			a, err := o.newApp(cmd)
			if err != nil {
				return err
			}
			defer a.logTimings()

			creds, err := a.credentials(ctx)
			if err != nil {
				return err
			}

			ids := a.cache.List()
			results := make([]error, len(ids))

			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(pullAllLimit)
			for i, id := range ids {
				g.Go(func() error {
					// One failing repository does not stop the others.
					results[i] = a.engine.Pull(gctx, id, creds)
					return nil
				})
			}
			_ = g.Wait()

			failed := 0
			for i, id := range ids {
				if results[i] != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "%-40s failed: %v\n", id, results[i])
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-40s up to date\n", id)
			}
			if failed > 0 {
				return errors.WithContext(
					errors.Newf(errors.CodeSyncFailed, "%d of %d repositories failed to pull", failed, len(ids)),
					"failed", failed)
			}
			return nil
		},
	}
}

func newPushCmd(o *rootOptions) *cobra.Command {
	return repoCommand(o, "push owner/name", "Push local commits to the remote", cobra.ExactArgs(1),
		func(ctx context.Context, _ *cobra.Command, a *app, id repo.Identity, _ []string) error {
			creds, err := a.credentials(ctx)
			if err != nil {
				return err
			}
			return a.engine.Push(ctx, id, creds) //nolint:wrapcheck // classified by the engine
		})
}

func newStatusCmd(o *rootOptions) *cobra.Command {
	return repoCommand(o, "status owner/name", "Show the state of a cached repository", cobra.ExactArgs(1),
		func(ctx context.Context, cmd *cobra.Command, a *app, id repo.Identity, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "repository: %s\n", id)
			fmt.Fprintf(out, "state:      %s\n", a.engine.State(id))
			if !a.cache.IsCached(id) {
				return nil
			}

			synced, err := a.engine.IsSynced(ctx, id)
			if err != nil {
				return err //nolint:wrapcheck // classified by the engine
			}
			url, err := a.engine.RemoteURL(ctx, id)
			if err != nil {
				return err //nolint:wrapcheck // classified by the engine
			}

			fmt.Fprintf(out, "synced:     %t\n", synced)
			fmt.Fprintf(out, "remote:     %s\n", url)
			fmt.Fprintf(out, "path:       %s\n", a.cache.Path(id))
			fmt.Fprintf(out, "size:       %s\n", humanize.Bytes(uint64(a.cache.Size(id)))) //nolint:gosec // never negative
			if entry := a.cache.Entry(id); entry != nil {
				fmt.Fprintf(out, "accessed:   %s\n", humanize.Time(entry.LastAccess))
			}
			return nil
		})
}

func newAddCmd(o *rootOptions) *cobra.Command {
	return repoCommand(o, "add owner/name path...", "Stage working tree paths", cobra.MinimumNArgs(2),
		func(ctx context.Context, _ *cobra.Command, a *app, id repo.Identity, paths []string) error {
			return a.engine.Stage(ctx, id, paths...) //nolint:wrapcheck // classified by the engine
		})
}

func newRmCmd(o *rootOptions) *cobra.Command {
	return repoCommand(o, "rm owner/name path", "Drop a path from the index", cobra.ExactArgs(2),
		func(ctx context.Context, _ *cobra.Command, a *app, id repo.Identity, args []string) error {
			return a.engine.Remove(ctx, id, args[0]) //nolint:wrapcheck // classified by the engine
		})
}

func newCommitCmd(o *rootOptions) *cobra.Command {
	var message string
	cmd := repoCommand(o, "commit owner/name", "Commit the index", cobra.ExactArgs(1),
		func(ctx context.Context, cmd *cobra.Command, a *app, id repo.Identity, _ []string) error {
			if message == "" {
				message = "Update " + time.Now().UTC().Format(time.RFC3339)
			}
			hash, err := a.engine.Commit(ctx, id, message)
			if err != nil {
				return err //nolint:wrapcheck // classified by the engine
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		})
	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	return cmd
}
