package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cofre-dev/cofre/internal/model"
	"github.com/cofre-dev/cofre/internal/moneyutil"
	"github.com/cofre-dev/cofre/internal/period"
	"github.com/cofre-dev/cofre/internal/transactions"
)

func newTransactionCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transaction"},
		Short:   "Manage transactions",
	}
	cmd.AddCommand(newTxAddCommand(configPath))
	cmd.AddCommand(newTxListCommand(configPath))
	cmd.AddCommand(newTxShowCommand(configPath))
	cmd.AddCommand(newTxUpdateCommand(configPath))
	cmd.AddCommand(newTxCancelCommand(configPath))
	cmd.AddCommand(newTxDeleteCommand(configPath))
	return cmd
}

func newTxAddCommand(configPath *string) *cobra.Command {
	var (
		description, value, kind, date     string
		category, accountID, cardID, notes string
		installmentCount                   int
		shared                             bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			amount, err := decimal.NewFromString(value)
			if err != nil {
				return fmt.Errorf("parsing value %q: %w", value, err)
			}

			txn, err := a.transactions.Create(cmd.Context(), transactions.CreateParams{
				Description:    description,
				Value:          amount,
				Kind:           model.TransactionKind(kind),
				Date:           date,
				Category:       category,
				AccountID:      accountID,
				CardID:         cardID,
				Installments:   installmentCount,
				Notes:          notes,
				SharedWithAlzi: shared,
			})
			if err != nil {
				return err
			}

			a.audit("create", "transaction", txn.ID,
				fmt.Sprintf("%s %s %s", txn.Kind, moneyutil.FormatBRL(txn.Value), txn.Description))
			fmt.Printf("Recorded %s of %s (%s)\n", txn.Kind, moneyutil.FormatBRL(txn.Value), txn.ID)
			if txn.Installmented() {
				fmt.Printf("Split into %d installments, first due %s\n",
					len(txn.Installments), txn.Installments[0].DueDate.Format("02/01/2006"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "desc", "", "description (required)")
	_ = cmd.MarkFlagRequired("desc")
	cmd.Flags().StringVar(&value, "value", "", "transaction value (required)")
	_ = cmd.MarkFlagRequired("value")
	cmd.Flags().StringVar(&kind, "kind", "debit", "debit or credit")
	cmd.Flags().StringVar(&date, "date", "", "date, e.g. 2025-04-10 or 10/04/2025 (required)")
	_ = cmd.MarkFlagRequired("date")
	cmd.Flags().StringVar(&category, "category", "", "category")
	cmd.Flags().StringVar(&accountID, "account", "", "account ID (exactly one of --account/--card)")
	cmd.Flags().StringVar(&cardID, "card", "", "card ID (exactly one of --account/--card)")
	cmd.Flags().IntVar(&installmentCount, "installments", 1, "number of monthly installments")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().BoolVar(&shared, "shared", false, "expense shared with Alzi")

	return cmd
}

func newTxListCommand(configPath *string) *cobra.Command {
	var year, month int
	var sharedOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a month's transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			txns, err := a.transactions.ListByMonth(cmd.Context(), year, month, sharedOnly)
			if err != nil {
				return err
			}
			if len(txns) == 0 {
				fmt.Printf("No transactions in %s.\n", period.FormatPeriod(year, month))
				return nil
			}

			fmt.Printf("Transactions in %s:\n", period.FormatPeriod(year, month))
			for _, t := range txns {
				printTransactionLine(t)
			}
			return nil
		},
	}

	now := time.Now()
	cmd.Flags().IntVar(&year, "year", now.Year(), "year")
	cmd.Flags().IntVar(&month, "month", int(now.Month()), "month (1-12)")
	cmd.Flags().BoolVar(&sharedOnly, "shared", false, "only expenses shared with Alzi")

	return cmd
}

func newTxShowCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			t, err := a.transactions.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Description: %s\n", t.Description)
			fmt.Printf("Value:       %s (%s)\n", moneyutil.FormatBRL(t.Value), t.Kind)
			fmt.Printf("Date:        %s\n", t.Date.Format("02/01/2006"))
			fmt.Printf("Status:      %s\n", t.Status)
			if t.Category != "" {
				fmt.Printf("Category:    %s\n", t.Category)
			}
			if t.AccountID != "" {
				fmt.Printf("Account:     %s\n", t.AccountID)
			}
			if t.CardID != "" {
				fmt.Printf("Card:        %s\n", t.CardID)
			}
			if t.Notes != "" {
				fmt.Printf("Notes:       %s\n", t.Notes)
			}
			fmt.Printf("Shared:      %v\n", t.SharedWithAlzi)
			for _, inst := range t.Installments {
				paid := ""
				if inst.Paid {
					paid = " [paid]"
				}
				fmt.Printf("  %d/%d  %s due %s%s\n", inst.Number, inst.Total,
					moneyutil.FormatBRL(inst.Value), inst.DueDate.Format("02/01/2006"), paid)
			}
			return nil
		},
	}
}

func newTxUpdateCommand(configPath *string) *cobra.Command {
	var description, value, kind, category, notes string
	var shared bool

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update transaction fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			var patch model.TransactionPatch
			if cmd.Flags().Changed("desc") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("value") {
				amount, err := decimal.NewFromString(value)
				if err != nil {
					return fmt.Errorf("parsing value %q: %w", value, err)
				}
				patch.Value = &amount
			}
			if cmd.Flags().Changed("kind") {
				k := model.TransactionKind(kind)
				patch.Kind = &k
			}
			if cmd.Flags().Changed("category") {
				patch.Category = &category
			}
			if cmd.Flags().Changed("notes") {
				patch.Notes = &notes
			}
			if cmd.Flags().Changed("shared") {
				patch.SharedWithAlzi = &shared
			}

			t, err := a.transactions.Update(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}

			a.audit("update", "transaction", t.ID, t.Description)
			fmt.Printf("Updated transaction %s\n", t.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "desc", "", "description")
	cmd.Flags().StringVar(&value, "value", "", "transaction value")
	cmd.Flags().StringVar(&kind, "kind", "", "debit or credit")
	cmd.Flags().StringVar(&category, "category", "", "category")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().BoolVar(&shared, "shared", false, "expense shared with Alzi")

	return cmd
}

func newTxCancelCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a transaction, reverting its balance effect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			t, err := a.transactions.Cancel(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			a.audit("cancel", "transaction", t.ID, t.Description)
			fmt.Printf("Cancelled transaction %s\n", t.ID)
			return nil
		},
	}
}

func newTxDeleteCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction, reverting its balance effect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.transactions.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}

			a.audit("delete", "transaction", args[0], "")
			fmt.Println("Transaction deleted.")
			return nil
		},
	}
}

func printTransactionLine(t model.Transaction) {
	marker := "-"
	if t.Kind == model.Credit {
		marker = "+"
	}
	shared := ""
	if t.SharedWithAlzi {
		shared = " [shared]"
	}
	status := ""
	if t.Status == model.StatusCancelled {
		status = " [cancelled]"
	}
	fmt.Printf("%s  %s %s  %-30s%s%s\n",
		t.Date.Format("02/01"), marker, moneyutil.FormatBRL(t.Value), t.Description, shared, status)
}
