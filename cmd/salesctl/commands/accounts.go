package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/salesapi/accounts/internal/client"
)

var apiURL string

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Query a running sales API",
	}
	cmd.PersistentFlags().StringVar(&apiURL, "url", "", "sales API base URL (default $SALES_API_URL)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List every account",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				accounts, err := apiClient().ListAccounts(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd, accounts)
			},
		},
		&cobra.Command{
			Use:   "get <id>",
			Short: "Show one account",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				account, err := apiClient().GetAccount(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, account)
			},
		},
		&cobra.Command{
			Use:   "search [name]",
			Short: "Find accounts whose name contains the given text",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var name string
				if len(args) == 1 {
					name = args[0]
				}
				accounts, err := apiClient().SearchAccounts(cmd.Context(), name)
				if err != nil {
					return err
				}
				return printJSON(cmd, accounts)
			},
		},
		&cobra.Command{
			Use:   "url <id> <type>",
			Short: "Render the portfolio, sales or activity URL of an account",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				u, err := apiClient().GenerateAccountURL(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string]string{"url": u})
			},
		},
	)
	return cmd
}

func apiClient() *client.Client {
	base := apiURL
	if base == "" {
		base = cfg.Client.BaseURL
	}
	return client.New(base, nil)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
