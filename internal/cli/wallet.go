package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Create, recover and inspect wallets",
}

var walletCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a wallet funded by the test network faucet",
	Long: `Create a new wallet and fund it from the test network faucet. The seed is
printed once; store it securely.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(ctx context.Context, rt *runtime) error {
			app, err := rt.provider.App()
			if err != nil {
				return err
			}
			info, err := app.CreateWallet(ctx)
			if err != nil {
				return describe(err)
			}
			return printJSON(cmd.OutOrStdout(), info)
		})
	},
}

var walletRecoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Show the address and public key for a seed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, err := readSeed(cmd)
		if err != nil {
			return err
		}
		return withRuntime(cmd, func(ctx context.Context, rt *runtime) error {
			app, err := rt.provider.App()
			if err != nil {
				return err
			}
			info, err := app.RecoverWallet(seed)
			if err != nil {
				return describe(err)
			}
			return printJSON(cmd.OutOrStdout(), info)
		})
	},
}

var walletBalanceCmd = &cobra.Command{
	Use:   "balance <address>",
	Short: "Show an account's validated XRP balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(ctx context.Context, rt *runtime) error {
			app, err := rt.provider.App()
			if err != nil {
				return err
			}
			balance, err := app.Balance(ctx, args[0])
			if err != nil {
				return describe(err)
			}
			return printJSON(cmd.OutOrStdout(), map[string]string{"address": args[0], "balance": balance})
		})
	},
}

func init() {
	rootCmd.AddCommand(walletCmd)
	walletCmd.AddCommand(walletCreateCmd, walletRecoverCmd, walletBalanceCmd)
	addSeedFlag(walletRecoverCmd)
}
