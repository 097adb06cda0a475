package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/remotask-app/remotask/internal/app/core"
	"github.com/remotask-app/remotask/internal/app/settlement"
	"github.com/remotask-app/remotask/internal/domain"
)

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(withdrawCmd)
	rootCmd.AddCommand(transactionsCmd)
	rootCmd.AddCommand(activateCmd)

	withdrawCmd.Flags().Float64("amount", 0, "Amount to withdraw in dollars")
	withdrawCmd.Flags().String("method", "", "Payment method: PayPal, Skrill, M-Pesa, or 'Bank Transfer'")
	withdrawCmd.Flags().String("email", "", "Destination email (PayPal, Skrill)")
	withdrawCmd.Flags().String("phone", "", "Destination phone (M-Pesa)")
	withdrawCmd.Flags().String("bank-name", "", "Bank name (Bank Transfer)")
	withdrawCmd.Flags().String("bank-account", "", "Account number (Bank Transfer)")
	withdrawCmd.MarkFlagRequired("amount")
	withdrawCmd.MarkFlagRequired("method")

	transactionsCmd.Flags().String("status", "", "Filter: Pending, Completed, or Failed")

	activateCmd.Flags().String("phone", "", "Phone number to charge the activation fee to")
	activateCmd.MarkFlagRequired("phone")
}

// ─── status ─────────────────────────────────────────────────────────────────

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show balance, referrals and the payment schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCore(func(c *core.Core) error {
			s, err := c.Summary()
			if err != nil {
				return err
			}
			printf("Balance:           $%.2f\n", s.Balance)
			printf("Account status:    %s\n", s.Status)
			printf("Referral code:     %s\n", s.Referrals.Code)
			printf("Shares:            %d\n", s.Referrals.ShareCount)
			printf("Referrals:         %d (%d activated)\n",
				s.Referrals.Attrition.Total, s.Referrals.Attrition.Activated)
			printf("Referral earnings: $%.2f\n", s.Referrals.ReferralEarnings)
			if s.Schedule.SettlementDay {
				printf("Payment day:       today\n")
			} else {
				printf("Next payment:      %s\n", s.Schedule.NextPayment)
			}
			return nil
		})
	},
}

// ─── share ──────────────────────────────────────────────────────────────────

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Share your referral code",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCore(func(c *core.Core) error {
			res, err := c.Share()
			if err != nil {
				return err
			}
			switch res.Decision {
			case domain.ShareNeedsActivation:
				printf("Activate your account to keep sharing: remotask activate --phone <number>\n")
			case domain.ShareNeedsUpgrade:
				printf("Upgrade your account to keep earning from shares.\n")
			default:
				printf("%s\n", res.Message)
				if res.Enqueued > 0 {
					printf("\n%d referral(s) on the way.\n", res.Enqueued)
				}
			}
			return nil
		})
	},
}

// ─── withdraw ───────────────────────────────────────────────────────────────

var withdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Request a withdrawal",
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, _ := cmd.Flags().GetFloat64("amount")
		method, _ := cmd.Flags().GetString("method")
		email, _ := cmd.Flags().GetString("email")
		phone, _ := cmd.Flags().GetString("phone")
		bankName, _ := cmd.Flags().GetString("bank-name")
		bankAccount, _ := cmd.Flags().GetString("bank-account")

		return withCore(func(c *core.Core) error {
			tx, err := c.Withdraw(settlement.WithdrawalRequest{
				Amount:      amount,
				Method:      domain.PaymentMethod(method),
				Email:       email,
				Phone:       phone,
				BankName:    bankName,
				BankAccount: bankAccount,
			})
			if err != nil {
				if domain.IsValidation(err) {
					return fmt.Errorf("invalid request: %w", err)
				}
				return err
			}
			printf("Withdrawal %s: $%.2f via %s — %s\n", tx.ID, tx.Amount, tx.Method, tx.Status)
			if tx.Status == domain.TxPending {
				_, label := domain.NextSettlementDay(time.Now())
				printf("Settles on the %s.\n", label)
			}
			return nil
		})
	},
}

// ─── transactions ───────────────────────────────────────────────────────────

var transactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "List withdrawal transactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, _ := cmd.Flags().GetString("status")
		return withCore(func(c *core.Core) error {
			txs, err := c.Transactions(domain.TxStatus(filter))
			if err != nil {
				return err
			}
			if len(txs) == 0 {
				printf("No transactions.\n")
				return nil
			}
			for _, tx := range txs {
				printf("%-22s %s  $%8.2f  %-9s %s\n",
					tx.ID, tx.Date, tx.Amount, tx.Status, tx.Method)
			}
			return nil
		})
	},
}

// ─── activate ───────────────────────────────────────────────────────────────

var activateCmd = &cobra.Command{
	Use:   "activate",
	Short: "Activate your account via mobile money",
	Long: `Charge the activation fee to your phone via STK push. Activation
unlocks pending withdrawals on the next payment day and lifts the share
gate.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		phone, _ := cmd.Flags().GetString("phone")
		return withCore(func(c *core.Core) error {
			printf("Sending payment request to your phone...\n")
			if err := c.Activate(cmd.Context(), phone); err != nil {
				return err
			}
			printf("Account activated.\n")
			return nil
		})
	},
}
