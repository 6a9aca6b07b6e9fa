package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cofre-dev/cofre/internal/finance"
	"github.com/cofre-dev/cofre/internal/moneyutil"
	"github.com/cofre-dev/cofre/internal/period"
)

func newOverviewCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Consolidated balances, limits, and current-month spending",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			accountList, err := a.accounts.List(cmd.Context(), false)
			if err != nil {
				return err
			}
			cardList, err := a.cards.List(cmd.Context(), false)
			if err != nil {
				return err
			}

			now := time.Now()
			monthTxns, err := a.transactions.ListByMonth(cmd.Context(), now.Year(), int(now.Month()), false)
			if err != nil {
				return err
			}

			o := finance.BuildOverview(accountList, cardList, monthTxns)

			fmt.Printf("Overview for %s\n", period.FormatPeriod(now.Year(), int(now.Month())))
			fmt.Printf("Accounts:        %d, total balance %s\n", o.AccountCount, moneyutil.FormatBRL(o.TotalBalance))
			fmt.Printf("Cards:           %d, limit %s (available %s, used %s)\n",
				o.CardCount, moneyutil.FormatBRL(o.TotalLimit),
				moneyutil.FormatBRL(o.AvailableLimit), moneyutil.FormatBRL(o.UsedLimit))
			fmt.Printf("Month debits:    %s\n", moneyutil.FormatBRL(o.MonthDebits))
			fmt.Printf("Month credits:   %s\n", moneyutil.FormatBRL(o.MonthCredits))
			fmt.Printf("Shared expenses: %s\n", moneyutil.FormatBRL(o.MonthShared))
			return nil
		},
	}
}
