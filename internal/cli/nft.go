package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/LeJamon/campuspay/internal/service"
)

var nftCmd = &cobra.Command{
	Use:   "nft",
	Short: "Issue and inspect student ID tokens",
}

var nftMintCmd = &cobra.Command{
	Use:   "mint <receiver>",
	Short: "Mint a student ID token for a receiver",
	Long: `Mint a transferable student ID token from the configured issuer. The token
stays with the issuer until transferred; the receiver is recorded for the
receipt.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var info service.StudentInfo
		info.Name, _ = cmd.Flags().GetString("name")
		info.School, _ = cmd.Flags().GetString("school")
		info.StudentID, _ = cmd.Flags().GetString("student-id")
		info.Department, _ = cmd.Flags().GetString("department")

		return withRuntime(cmd, func(ctx context.Context, rt *runtime) error {
			app, err := rt.provider.App()
			if err != nil {
				return err
			}
			res, err := app.MintStudentID(ctx, service.MintRequest{StudentInfo: info, ReceiverAddress: args[0]})
			if err != nil {
				return describe(err)
			}
			return printJSON(cmd.OutOrStdout(), res)
		})
	},
}

var nftListCmd = &cobra.Command{
	Use:   "list <address>",
	Short: "List the tokens an account owns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(ctx context.Context, rt *runtime) error {
			app, err := rt.provider.App()
			if err != nil {
				return err
			}
			list, err := app.AccountNFTs(ctx, args[0])
			if err != nil {
				return describe(err)
			}
			return printJSON(cmd.OutOrStdout(), list)
		})
	},
}

var nftInfoCmd = &cobra.Command{
	Use:   "info <token-id>",
	Short: "Show a token (requires a Clio server)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(ctx context.Context, rt *runtime) error {
			app, err := rt.provider.App()
			if err != nil {
				return err
			}
			n, err := app.NFTInfo(ctx, args[0])
			if err != nil {
				return describe(err)
			}
			return printJSON(cmd.OutOrStdout(), n)
		})
	},
}

func init() {
	rootCmd.AddCommand(nftCmd)
	nftCmd.AddCommand(nftMintCmd, nftListCmd, nftInfoCmd)

	nftMintCmd.Flags().String("name", "", "student name")
	nftMintCmd.Flags().String("school", "", "school name")
	nftMintCmd.Flags().String("student-id", "", "student ID")
	nftMintCmd.Flags().String("department", "", "department (optional)")
	for _, f := range []string{"name", "school", "student-id"} {
		_ = nftMintCmd.MarkFlagRequired(f)
	}
}
