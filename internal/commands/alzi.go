package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cofre-dev/cofre/internal/alzi"
	"github.com/cofre-dev/cofre/internal/model"
	"github.com/cofre-dev/cofre/internal/moneyutil"
	"github.com/cofre-dev/cofre/internal/period"
)

func newAlziCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alzi",
		Short: "Shared-expense reports and settlements",
	}
	cmd.AddCommand(newAlziMonthCommand(configPath))
	cmd.AddCommand(newAlziSettleCommand(configPath))
	cmd.AddCommand(newAlziYearCommand(configPath))
	return cmd
}

func newAlziMonthCommand(configPath *string) *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Monthly shared-expense summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			txns, err := a.transactions.ListByMonth(cmd.Context(), year, month, false)
			if err != nil {
				return err
			}
			summary := alzi.Summarize(year, month, txns)

			counterparty := a.cfg.Owner.Counterparty
			fmt.Printf("Shared expenses in %s: %d transactions, %s total\n",
				summary.Display(), summary.Count, moneyutil.FormatBRL(summary.Total))
			fmt.Printf("%s's share: %s\n", counterparty, moneyutil.FormatBRL(summary.CounterpartyShare))
			if summary.Count == 0 {
				return nil
			}

			fmt.Printf("Paid from accounts: %s, with cards: %s\n",
				moneyutil.FormatBRL(summary.AccountTotal), moneyutil.FormatBRL(summary.CardTotal))
			for _, ct := range summary.ByCategory {
				fmt.Printf("  %-25s %2dx  %s (share %s)\n",
					ct.Category, ct.Count, moneyutil.FormatBRL(ct.Total), moneyutil.FormatBRL(ct.CounterpartyShare))
			}
			if summary.Largest != nil {
				fmt.Printf("Largest:  %s (%s)\n", summary.Largest.Description, moneyutil.FormatBRL(summary.Largest.Value))
			}
			if summary.Smallest != nil {
				fmt.Printf("Smallest: %s (%s)\n", summary.Smallest.Description, moneyutil.FormatBRL(summary.Smallest.Value))
			}
			return nil
		},
	}

	now := time.Now()
	cmd.Flags().IntVar(&year, "year", now.Year(), "year")
	cmd.Flags().IntVar(&month, "month", int(now.Month()), "month (1-12)")

	return cmd
}

func newAlziSettleCommand(configPath *string) *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Settlement statement for a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			txns, err := a.transactions.ListByMonth(cmd.Context(), year, month, false)
			if err != nil {
				return err
			}
			settlement := alzi.Settle(year, month, txns)

			fmt.Printf("Settlement for %s (%s split)\n",
				period.FormatPeriod(settlement.Year, settlement.Month), settlement.Method)
			fmt.Printf("Total shared: %s\n", moneyutil.FormatBRL(settlement.Total))
			fmt.Printf("%s owes: %s\n", a.cfg.Owner.Counterparty, moneyutil.FormatBRL(settlement.CounterpartyShare))
			for _, ct := range settlement.ByCategory {
				fmt.Printf("  %-25s %s\n", ct.Category, moneyutil.FormatBRL(ct.CounterpartyShare))
			}
			return nil
		},
	}

	now := time.Now()
	cmd.Flags().IntVar(&year, "year", now.Year(), "year")
	cmd.Flags().IntVar(&month, "month", int(now.Month()), "month (1-12)")

	return cmd
}

func newAlziYearCommand(configPath *string) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "year",
		Short: "Annual shared-expense roll-up",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			byMonth := make(map[int][]model.Transaction)
			for month := 1; month <= 12; month++ {
				txns, err := a.transactions.ListByMonth(cmd.Context(), year, month, false)
				if err != nil {
					return err
				}
				byMonth[month] = txns
			}
			annual := alzi.SummarizeYear(year, byMonth)

			fmt.Printf("Shared expenses in %d: %s total, %s monthly average\n",
				annual.Year, moneyutil.FormatBRL(annual.Total), moneyutil.FormatBRL(annual.MonthlyAverage))
			fmt.Printf("%s's share: %s\n", a.cfg.Owner.Counterparty, moneyutil.FormatBRL(annual.CounterpartyShare))
			for _, m := range annual.Months {
				if m.Count == 0 {
					continue
				}
				fmt.Printf("  %-15s %2dx  %s\n", m.Display(), m.Count, moneyutil.FormatBRL(m.Total))
			}
			if annual.HighestMonth != 0 {
				fmt.Printf("Highest: %s, lowest: %s\n",
					period.MonthName(annual.HighestMonth), period.MonthName(annual.LowestMonth))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "year")

	return cmd
}
