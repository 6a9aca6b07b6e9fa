package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cofre-dev/cofre/internal/accounts"
	"github.com/cofre-dev/cofre/internal/model"
	"github.com/cofre-dev/cofre/internal/moneyutil"
)

func newAccountCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage bank accounts",
	}
	cmd.AddCommand(newAccountAddCommand(configPath))
	cmd.AddCommand(newAccountListCommand(configPath))
	cmd.AddCommand(newAccountShowCommand(configPath))
	cmd.AddCommand(newAccountUpdateCommand(configPath))
	cmd.AddCommand(newAccountDeactivateCommand(configPath))
	cmd.AddCommand(newAccountActivateCommand(configPath))
	cmd.AddCommand(newAccountDeleteCommand(configPath))
	return cmd
}

func newAccountAddCommand(configPath *string) *cobra.Command {
	var (
		name, bank, branch, number, typ, balance string
		shared                                   bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a bank account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			initial, err := decimal.NewFromString(balance)
			if err != nil {
				return fmt.Errorf("parsing balance %q: %w", balance, err)
			}

			account, err := a.accounts.Create(cmd.Context(), accounts.CreateParams{
				Name:           name,
				Bank:           bank,
				Branch:         branch,
				Number:         number,
				Type:           model.AccountType(typ),
				InitialBalance: initial,
				SharedWithAlzi: shared,
			})
			if err != nil {
				return err
			}

			a.audit("create", "account", account.ID, account.Name)
			fmt.Printf("Created account %s (%s)\n", account.Name, account.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "account name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&bank, "bank", "", "bank name (required)")
	_ = cmd.MarkFlagRequired("bank")
	cmd.Flags().StringVar(&branch, "branch", "", "branch number (required)")
	_ = cmd.MarkFlagRequired("branch")
	cmd.Flags().StringVar(&number, "number", "", "account number (required)")
	_ = cmd.MarkFlagRequired("number")
	cmd.Flags().StringVar(&typ, "type", "checking", "account type (checking, savings, investment)")
	cmd.Flags().StringVar(&balance, "balance", "0", "initial balance")
	cmd.Flags().BoolVar(&shared, "shared", false, "expenses shared with Alzi by default")

	return cmd
}

func newAccountListCommand(configPath *string) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			list, err := a.accounts.List(cmd.Context(), !all)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Println("No accounts.")
				return nil
			}
			for _, acc := range list {
				status := ""
				if !acc.Active {
					status = " [inactive]"
				}
				fmt.Printf("%s  %-20s %-12s %s%s\n",
					acc.ID, acc.Name, acc.Type, moneyutil.FormatBRL(acc.Balance), status)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include inactive accounts")
	return cmd
}

func newAccountShowCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			acc, err := a.accounts.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Name:            %s\n", acc.Name)
			fmt.Printf("Bank:            %s (branch %s, number %s)\n", acc.Bank, acc.Branch, acc.Number)
			fmt.Printf("Type:            %s\n", acc.Type)
			fmt.Printf("Initial balance: %s\n", moneyutil.FormatBRL(acc.InitialBalance))
			fmt.Printf("Balance:         %s\n", moneyutil.FormatBRL(acc.Balance))
			fmt.Printf("Shared:          %v\n", acc.SharedWithAlzi)
			fmt.Printf("Active:          %v\n", acc.Active)
			return nil
		},
	}
}

func newAccountUpdateCommand(configPath *string) *cobra.Command {
	var name, bank, branch, number string
	var shared bool

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update account fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			var patch model.AccountPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("bank") {
				patch.Bank = &bank
			}
			if cmd.Flags().Changed("branch") {
				patch.Branch = &branch
			}
			if cmd.Flags().Changed("number") {
				patch.Number = &number
			}
			if cmd.Flags().Changed("shared") {
				patch.SharedWithAlzi = &shared
			}

			acc, err := a.accounts.Update(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}

			a.audit("update", "account", acc.ID, acc.Name)
			fmt.Printf("Updated account %s\n", acc.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "account name")
	cmd.Flags().StringVar(&bank, "bank", "", "bank name")
	cmd.Flags().StringVar(&branch, "branch", "", "branch number")
	cmd.Flags().StringVar(&number, "number", "", "account number")
	cmd.Flags().BoolVar(&shared, "shared", false, "expenses shared with Alzi by default")

	return cmd
}

func newAccountDeactivateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <id>",
		Short: "Deactivate an account (soft delete)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.accounts.Deactivate(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.audit("deactivate", "account", args[0], "")
			fmt.Println("Account deactivated.")
			return nil
		},
	}
}

func newAccountActivateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <id>",
		Short: "Reactivate an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.accounts.Activate(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.audit("activate", "account", args[0], "")
			fmt.Println("Account activated.")
			return nil
		},
	}
}

func newAccountDeleteCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account without transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.accounts.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.audit("delete", "account", args[0], "")
			fmt.Println("Account deleted.")
			return nil
		},
	}
}
