package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/LeJamon/campuspay/internal/service"
)

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Query ledger transactions",
}

var txGetCmd = &cobra.Command{
	Use:   "get <hash>",
	Short: "Show a transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(ctx context.Context, rt *runtime) error {
			app, err := rt.provider.App()
			if err != nil {
				return err
			}
			tx, err := app.GetTransaction(ctx, args[0])
			if err != nil {
				return describe(err)
			}
			return printJSON(cmd.OutOrStdout(), tx)
		})
	},
}

var txHistoryCmd = &cobra.Command{
	Use:   "history <address>",
	Short: "Page through an account's transactions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var q service.HistoryQuery
		q.Limit, _ = cmd.Flags().GetInt("limit")
		q.Marker, _ = cmd.Flags().GetString("marker")
		q.Forward, _ = cmd.Flags().GetBool("forward")

		return withRuntime(cmd, func(ctx context.Context, rt *runtime) error {
			app, err := rt.provider.App()
			if err != nil {
				return err
			}
			page, err := app.AccountTransactions(ctx, args[0], q)
			if err != nil {
				return describe(err)
			}
			return printJSON(cmd.OutOrStdout(), page)
		})
	},
}

var receiptsCmd = &cobra.Command{
	Use:   "receipts <address|hash>",
	Short: "Show locally recorded receipts",
	Long: `Show receipts recorded by this installation. A 64 character hex argument
is looked up as a transaction hash, anything else as an account.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return withRuntime(cmd, func(ctx context.Context, rt *runtime) error {
			app, err := rt.provider.App()
			if err != nil {
				return err
			}
			if len(args[0]) == 64 {
				r, err := app.Receipt(ctx, args[0])
				if err != nil {
					return describe(err)
				}
				return printJSON(cmd.OutOrStdout(), r)
			}
			list, err := app.Receipts(ctx, args[0], limit)
			if err != nil {
				return describe(err)
			}
			return printJSON(cmd.OutOrStdout(), list)
		})
	},
}

func init() {
	rootCmd.AddCommand(txCmd, receiptsCmd)
	txCmd.AddCommand(txGetCmd, txHistoryCmd)

	txHistoryCmd.Flags().Int("limit", 20, "transactions per page (max 200)")
	txHistoryCmd.Flags().String("marker", "", "marker from the previous page")
	txHistoryCmd.Flags().Bool("forward", false, "oldest first")

	receiptsCmd.Flags().Int("limit", 50, "maximum receipts to show")
}
