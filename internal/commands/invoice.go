package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cofre-dev/cofre/internal/moneyutil"
)

func newInvoiceCommand(configPath *string) *cobra.Command {
	var cardID string

	cmd := &cobra.Command{
		Use:   "invoice",
		Short: "Show a card's transactions grouped by invoice",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			invoices, err := a.transactions.GroupByInvoice(cmd.Context(), cardID)
			if err != nil {
				return err
			}
			if len(invoices) == 0 {
				fmt.Println("No transactions on this card.")
				return nil
			}

			for _, inv := range invoices {
				fmt.Printf("%s (%s to %s): %s",
					inv.Display(),
					inv.Start.Format("02/01/2006"), inv.End.Format("02/01/2006"),
					moneyutil.FormatBRL(inv.TotalDebits))
				if inv.SharedDebits.IsPositive() {
					fmt.Printf("  shared %s", moneyutil.FormatBRL(inv.SharedDebits))
				}
				fmt.Println()
				for _, t := range inv.Transactions {
					printTransactionLine(t)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cardID, "card", "", "card ID (required)")
	_ = cmd.MarkFlagRequired("card")

	return cmd
}
