package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	ctx := newCommandContext(flags)

	rootCmd := &cobra.Command{
		Use:           "linelist",
		Short:         "Browse and edit a project's sample metadata linelist",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.runTUI(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Configuration file path")
	pf.StringVar(&flags.prefsPath, "prefs", "", "Preferences file path")
	pf.StringVar(&flags.apiURL, "api-url", "", "Metadata service URL (overrides api_url)")
	pf.StringVarP(&flags.projectID, "project", "p", "", "Project ID (overrides project_id)")

	rootCmd.AddCommand(newTUICommand(ctx))
	rootCmd.AddCommand(newEntriesCommand(ctx))
	rootCmd.AddCommand(newSetCommand(ctx))
	rootCmd.AddCommand(newRemoveFieldCommand(ctx))
	rootCmd.AddCommand(newRefreshCommand(ctx))
	rootCmd.AddCommand(newProjectCommand(ctx))
	rootCmd.AddCommand(newMembersCommand(ctx))

	return rootCmd
}

func newTUICommand(ctx *commandContext) *cobra.Command {
	var refreshSeconds int
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive linelist editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx.refreshSeconds = refreshSeconds
			return ctx.runTUI(cmd)
		},
	}
	cmd.Flags().IntVar(&refreshSeconds, "refresh", 0, "Reload every N seconds (overrides refresh_every)")
	return cmd
}
