package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cofre-dev/cofre/internal/config"
)

func newInitCommand() *cobra.Command {
	var owner string
	var backend string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new cofre ledger",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, owner, backend)
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "ledger owner name (required)")
	_ = cmd.MarkFlagRequired("owner")
	cmd.Flags().StringVar(&backend, "backend", "sqlite", "storage backend (sqlite or jsonfile)")

	return cmd
}

func runInit(dir, owner, backend string) error {
	dirs := []string{
		"data",
		"logs",
		"import",
		filepath.Join("import", "processed"),
		"exports",
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(owner, filepath.Join(dir, "data"))
	cfg.Storage.Backend = backend
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	gitignore := "data/\nlogs/\nexports/\nimport/\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	fmt.Printf("Initialized cofre ledger at %s (backend: %s)\n", dir, backend)
	return nil
}
