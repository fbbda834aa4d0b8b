package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// rootOptions holds the global flags.
type rootOptions struct {
	cfgFile   string
	logLevel  string
	logFormat string

	user  string
	token string
	name  string
	email string
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "lumen",
		Short: "Keep offline copies of GitHub repositories in sync",
		Long: `lumen keeps a local, offline-capable cache of GitHub repositories and
synchronizes it with the remote. Large binary files matched by a
"filter=lfs" attribute are stored as Git LFS pointers and uploaded to the
configured LFS endpoint.`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&o.cfgFile, "config", "", "config file (default is $HOME/.config/lumen/config.yaml)")
	flags.StringVar(&o.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.StringVar(&o.logFormat, "log-format", "text", "log format (text, json)")
	flags.StringVar(&o.user, "user", "", "GitHub user name (default from config or $LUMEN_USER)")
	flags.StringVar(&o.token, "token", "", "GitHub access token (default from the configured token variable)")
	flags.StringVar(&o.name, "name", "", "commit author name (default from the GitHub profile)")
	flags.StringVar(&o.email, "email", "", "commit author email (default from the GitHub profile)")

	rootCmd.AddCommand(
		newCloneCmd(o),
		newFetchCmd(o),
		newPullCmd(o),
		newPullAllCmd(o),
		newPushCmd(o),
		newStatusCmd(o),
		newAddCmd(o),
		newRmCmd(o),
		newCommitCmd(o),
		newListCmd(o),
		newRemoveCmd(o),
		newPruneCmd(o),
		newGCCmd(o),
		newAttachCmd(o),
		newCatCmd(o),
		newPointerCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lumen %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", commit)
		},
	}
}
