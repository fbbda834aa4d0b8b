package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mikellez/lumen/attach"
	"github.com/mikellez/lumen/errors"
	"github.com/mikellez/lumen/lfs"
	"github.com/mikellez/lumen/repo"
)

func newAttachCmd(o *rootOptions) *cobra.Command {
	var (
		doc      string
		from, to int
	)
	cmd := repoCommand(o, "attach owner/name file", "Add a file under /uploads and reference it", cobra.ExactArgs(2),
		func(ctx context.Context, cmd *cobra.Command, a *app, id repo.Identity, args []string) error {
			file := args[0]
			content, err := os.ReadFile(file)
			if err != nil {
				return errors.WithContext(
					errors.Wrap(err, errors.CodeFilesystem, "failed to read file"), "path", file)
			}

			creds, err := a.credentials(ctx)
			if err != nil {
				return err
			}

			var editor attach.Editor = printEditor{w: cmd.OutOrStdout()}
			var document *documentEditor
			if doc != "" {
				document, err = openDocument(doc, from, to)
				if err != nil {
					return err
				}
				editor = document
			}

			var commitErr error
			wf := attach.New(a.cache, a.store, a.engine,
				attach.WithLogger(a.logger),
				attach.WithErrorSink(func(err error) { commitErr = err }),
			)

			res, err := wf.Attach(ctx, attach.Upload{Name: filepath.Base(file), Content: content},
				attach.Session{Repo: id, Credentials: creds}, editor)
			if err != nil {
				return err //nolint:wrapcheck // classified by the workflow
			}
			wf.Wait()

			if res == nil {
				return errors.New(errors.CodeInvalidInput, "nothing attached")
			}
			if document != nil && document.err != nil {
				return document.err
			}
			if commitErr != nil {
				a.logger.Warn("file written but not committed", "path", res.Path, "error", commitErr)
			}
			return nil
		})
	cmd.Flags().StringVar(&doc, "doc", "", "markdown document to insert the reference into")
	cmd.Flags().IntVar(&from, "from", -1, "selection start in the document (default end)")
	cmd.Flags().IntVar(&to, "to", -1, "selection end in the document (default --from)")
	return cmd
}

func newCatCmd(o *rootOptions) *cobra.Command {
	return repoCommand(o, "cat owner/name path", "Print a file, resolving LFS pointers to a URL", cobra.ExactArgs(2),
		func(ctx context.Context, cmd *cobra.Command, a *app, id repo.Identity, args []string) error {
			creds, err := a.credentials(ctx)
			if err != nil {
				return err
			}

			file, err := a.store.ReadFile(ctx, id, args[0], creds)
			if err != nil {
				return err //nolint:wrapcheck // classified by the store
			}
			if file.IsPointer() {
				fmt.Fprintln(cmd.OutOrStdout(), file.URL)
				return nil
			}
			_, err = cmd.OutOrStdout().Write(file.Content)
			return err //nolint:wrapcheck // output errors are terminal
		})
}

func newPointerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lfs-pointer file",
		Short: "Print the Git LFS pointer of a file (- reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				content []byte
				err     error
			)
			if args[0] == "-" {
				content, err = io.ReadAll(cmd.InOrStdin())
			} else {
				content, err = os.ReadFile(args[0])
			}
			if err != nil {
				return errors.WithContext(
					errors.Wrap(err, errors.CodeFilesystem, "failed to read file"), "path", args[0])
			}
			fmt.Fprint(cmd.OutOrStdout(), lfs.BuildPointer(content))
			return nil
		},
	}
}
