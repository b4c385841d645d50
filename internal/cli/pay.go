package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/LeJamon/campuspay/internal/service"
)

var payCmd = &cobra.Command{
	Use:   "pay",
	Short: "Send payments and check their status",
}

var paySendCmd = &cobra.Command{
	Use:   "send <destination> <amount>",
	Short: "Send XRP to an address",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, err := readSeed(cmd)
		if err != nil {
			return err
		}
		memo, _ := cmd.Flags().GetString("memo")
		return withRuntime(cmd, func(ctx context.Context, rt *runtime) error {
			app, err := rt.provider.App()
			if err != nil {
				return err
			}
			res, err := app.SendPayment(ctx, service.PaymentRequest{
				SenderSeed:  seed,
				Destination: args[0],
				Amount:      args[1],
				Memo:        memo,
			})
			if err != nil {
				return describe(err)
			}
			return printJSON(cmd.OutOrStdout(), res)
		})
	},
}

var payTuitionCmd = &cobra.Command{
	Use:   "tuition <university> <amount>",
	Short: "Pay tuition to a registered university",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, err := readSeed(cmd)
		if err != nil {
			return err
		}
		studentID, _ := cmd.Flags().GetString("student-id")
		semester, _ := cmd.Flags().GetString("semester")
		return withRuntime(cmd, func(ctx context.Context, rt *runtime) error {
			app, err := rt.provider.App()
			if err != nil {
				return err
			}
			res, err := app.ProcessTuitionPayment(ctx, service.TuitionRequest{
				StudentSeed:    seed,
				UniversityName: args[0],
				Amount:         args[1],
				PaymentInfo:    service.TuitionDetails{StudentID: studentID, Semester: semester},
			})
			if err != nil {
				return describe(err)
			}
			return printJSON(cmd.OutOrStdout(), res)
		})
	},
}

var payStatusCmd = &cobra.Command{
	Use:   "status <hash>",
	Short: "Show the status of a payment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(ctx context.Context, rt *runtime) error {
			app, err := rt.provider.App()
			if err != nil {
				return err
			}
			st, err := app.CheckPaymentStatus(ctx, args[0])
			if err != nil {
				return describe(err)
			}
			return printJSON(cmd.OutOrStdout(), st)
		})
	},
}

var universitiesCmd = &cobra.Command{
	Use:   "universities",
	Short: "List the universities that accept tuition payments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(ctx context.Context, rt *runtime) error {
			app, err := rt.provider.App()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), app.Universities())
		})
	},
}

func init() {
	rootCmd.AddCommand(payCmd)
	payCmd.AddCommand(paySendCmd, payTuitionCmd, payStatusCmd, universitiesCmd)

	addSeedFlag(paySendCmd)
	paySendCmd.Flags().String("memo", "", "text memo attached to the payment")

	addSeedFlag(payTuitionCmd)
	payTuitionCmd.Flags().String("student-id", "", "student ID")
	payTuitionCmd.Flags().String("semester", "", "semester, e.g. 2024-1")
	_ = payTuitionCmd.MarkFlagRequired("student-id")
	_ = payTuitionCmd.MarkFlagRequired("semester")
}
