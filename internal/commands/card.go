package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cofre-dev/cofre/internal/cards"
	"github.com/cofre-dev/cofre/internal/model"
	"github.com/cofre-dev/cofre/internal/moneyutil"
)

func newCardCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Manage credit cards",
	}
	cmd.AddCommand(newCardAddCommand(configPath))
	cmd.AddCommand(newCardListCommand(configPath))
	cmd.AddCommand(newCardShowCommand(configPath))
	cmd.AddCommand(newCardUpdateCommand(configPath))
	cmd.AddCommand(newCardDeactivateCommand(configPath))
	cmd.AddCommand(newCardActivateCommand(configPath))
	cmd.AddCommand(newCardDeleteCommand(configPath))
	return cmd
}

func newCardAddCommand(configPath *string) *cobra.Command {
	var (
		name, bank, brand, limit, linkedAccount string
		dueDay, closingDay                      int
		shared                                  bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a credit card",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			totalLimit, err := decimal.NewFromString(limit)
			if err != nil {
				return fmt.Errorf("parsing limit %q: %w", limit, err)
			}

			card, err := a.cards.Create(cmd.Context(), cards.CreateParams{
				Name:            name,
				Bank:            bank,
				Brand:           model.CardBrand(brand),
				Limit:           totalLimit,
				LinkedAccountID: linkedAccount,
				DueDay:          dueDay,
				ClosingDay:      closingDay,
				SharedWithAlzi:  shared,
			})
			if err != nil {
				return err
			}

			a.audit("create", "card", card.ID, card.Name)
			fmt.Printf("Created card %s (%s)\n", card.Name, card.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "card name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&bank, "bank", "", "issuing bank (required)")
	_ = cmd.MarkFlagRequired("bank")
	cmd.Flags().StringVar(&brand, "brand", "", "card brand (visa, mastercard, elo, amex, hipercard)")
	_ = cmd.MarkFlagRequired("brand")
	cmd.Flags().StringVar(&limit, "limit", "", "total limit (required)")
	_ = cmd.MarkFlagRequired("limit")
	cmd.Flags().StringVar(&linkedAccount, "account", "", "linked account ID")
	cmd.Flags().IntVar(&dueDay, "due-day", 0, "invoice due day, 1-31 (required)")
	_ = cmd.MarkFlagRequired("due-day")
	cmd.Flags().IntVar(&closingDay, "closing-day", 0, "statement closing day, 1-31 (required)")
	_ = cmd.MarkFlagRequired("closing-day")
	cmd.Flags().BoolVar(&shared, "shared", false, "expenses shared with Alzi by default")

	return cmd
}

func newCardListCommand(configPath *string) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			list, err := a.cards.List(cmd.Context(), !all)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Println("No cards.")
				return nil
			}
			for _, c := range list {
				status := ""
				if !c.Active {
					status = " [inactive]"
				}
				fmt.Printf("%s  %-20s %-10s %s of %s%s\n",
					c.ID, c.Name, c.Brand,
					moneyutil.FormatBRL(c.AvailableLimit), moneyutil.FormatBRL(c.Limit), status)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include inactive cards")
	return cmd
}

func newCardShowCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			c, err := a.cards.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Name:            %s (%s, %s)\n", c.Name, c.Bank, c.Brand)
			fmt.Printf("Limit:           %s\n", moneyutil.FormatBRL(c.Limit))
			fmt.Printf("Available:       %s\n", moneyutil.FormatBRL(c.AvailableLimit))
			fmt.Printf("Closing day:     %d\n", c.ClosingDay)
			fmt.Printf("Due day:         %d\n", c.DueDay)
			if c.LinkedAccountID != "" {
				fmt.Printf("Linked account:  %s\n", c.LinkedAccountID)
			}
			fmt.Printf("Shared:          %v\n", c.SharedWithAlzi)
			fmt.Printf("Active:          %v\n", c.Active)
			return nil
		},
	}
}

func newCardUpdateCommand(configPath *string) *cobra.Command {
	var name, bank, linkedAccount string
	var dueDay, closingDay int
	var shared bool

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update card fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			var patch model.CardPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("bank") {
				patch.Bank = &bank
			}
			if cmd.Flags().Changed("account") {
				patch.LinkedAccountID = &linkedAccount
			}
			if cmd.Flags().Changed("due-day") {
				patch.DueDay = &dueDay
			}
			if cmd.Flags().Changed("closing-day") {
				patch.ClosingDay = &closingDay
			}
			if cmd.Flags().Changed("shared") {
				patch.SharedWithAlzi = &shared
			}

			c, err := a.cards.Update(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}

			a.audit("update", "card", c.ID, c.Name)
			fmt.Printf("Updated card %s\n", c.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "card name")
	cmd.Flags().StringVar(&bank, "bank", "", "issuing bank")
	cmd.Flags().StringVar(&linkedAccount, "account", "", "linked account ID")
	cmd.Flags().IntVar(&dueDay, "due-day", 0, "invoice due day, 1-31")
	cmd.Flags().IntVar(&closingDay, "closing-day", 0, "statement closing day, 1-31")
	cmd.Flags().BoolVar(&shared, "shared", false, "expenses shared with Alzi by default")

	return cmd
}

func newCardDeactivateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <id>",
		Short: "Deactivate a card (soft delete)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.cards.Deactivate(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.audit("deactivate", "card", args[0], "")
			fmt.Println("Card deactivated.")
			return nil
		},
	}
}

func newCardActivateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <id>",
		Short: "Reactivate a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.cards.Activate(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.audit("activate", "card", args[0], "")
			fmt.Println("Card activated.")
			return nil
		},
	}
}

func newCardDeleteCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a card without transactions or open balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.cards.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.audit("delete", "card", args[0], "")
			fmt.Println("Card deleted.")
			return nil
		},
	}
}
