package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func authSetup(args *globalArgs) *cobra.Command {
	authCommand := &cobra.Command{
		Use:   "auth",
		Short: "Obtain an access token with OAuth",
		Long: `Obtain an access token for the application configured under oauth:

  1. mixcloud auth url, then open the printed URL and grant access
  2. mixcloud auth exchange <code>, with the code passed to the redirect URI`,
	}

	authCommand.AddCommand(authURLSetup(args))
	authCommand.AddCommand(authExchangeSetup(args))

	return authCommand
}

func authURLSetup(args *globalArgs) *cobra.Command {
	var state string

	urlCommand := &cobra.Command{
		Use:   "url",
		Short: "Print the authorization URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, positional []string) error {
			o, err := args.oauth()
			if err != nil {
				return err
			}
			if state == "" {
				state = uuid.NewString()
			}
			fmt.Fprintln(cmd.OutOrStdout(), o.AuthorizeURL(state))
			fmt.Fprintf(cmd.ErrOrStderr(), "state: %s\n", state)
			return nil
		},
	}

	urlCommand.Flags().StringVarP(&state, "state", "s", "", "state echoed back to the redirect URI, random when empty")

	return urlCommand
}

func authExchangeSetup(args *globalArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "exchange <code>",
		Short: "Exchange an authorization code for an access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, positional []string) error {
			o, err := args.oauth()
			if err != nil {
				return err
			}
			token, err := o.ExchangeToken(cmd.Context(), positional[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}
