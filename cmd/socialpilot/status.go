package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check whether a usable credential is stored for the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			accountKey, err := a.requireAccount(account)
			if err != nil {
				return err
			}

			valid, err := a.tokens.HasValidCredential(cmd.Context(), accountKey)
			if err != nil {
				return err
			}

			if valid {
				fmt.Fprintf(cmd.OutOrStdout(), "account %s is linked\n", accountKey)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "account %s is not linked: run socialpilot link\n", accountKey)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Account key (defaults to SOCIALPILOT_ACCOUNT)")

	return cmd
}
