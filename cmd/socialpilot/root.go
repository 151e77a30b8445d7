package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "socialpilot",
		Short:         "Scheduled social media publishing daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newLinkCommand())
	rootCmd.AddCommand(newStatusCommand())
	rootCmd.AddCommand(newPostCommand())

	return rootCmd
}
