package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newLinkCommand() *cobra.Command {
	var code string
	var redirectURI string
	var account string

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Exchange an authorization code and store the account credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			if code == "" {
				return errors.New("--code is required")
			}
			if redirectURI == "" {
				return errors.New("--redirect-uri is required")
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.cfg.HasProviderCredentials() {
				return errors.New("SOCIALPILOT_CLIENT_ID and SOCIALPILOT_CLIENT_SECRET are required")
			}

			accountKey, err := a.requireAccount(account)
			if err != nil {
				return err
			}

			cred, err := a.tokens.ExchangeGrant(cmd.Context(), accountKey, code, redirectURI)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "account %s linked, credential valid until %s\n",
				cred.AccountKey, cred.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
			if cred.MemberID == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "warning: member id not resolved, media posts will fail until re-linked")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Authorization code from the OAuth redirect")
	cmd.Flags().StringVar(&redirectURI, "redirect-uri", "", "Redirect URI used in the authorization request")
	cmd.Flags().StringVar(&account, "account", "", "Account key (defaults to SOCIALPILOT_ACCOUNT)")

	return cmd
}
