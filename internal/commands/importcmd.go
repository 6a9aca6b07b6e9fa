package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cofre-dev/cofre/internal/importer"
)

func newImportCommand(configPath *string) *cobra.Command {
	var cardID string
	var keep bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a bank statement file against a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			contents, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			result, err := a.importer.ImportStatement(cmd.Context(), cardID, contents)
			if err != nil {
				return err
			}

			a.audit("import", "card", cardID,
				fmt.Sprintf("%s: %d imported, %d duplicates", filepath.Base(args[0]), result.Imported, result.Duplicates))

			fmt.Printf("Format:     %s\n", result.Format)
			fmt.Printf("Lines:      %d\n", result.TotalLines)
			fmt.Printf("Candidates: %d\n", result.Candidates)
			fmt.Printf("Imported:   %d\n", result.Imported)
			fmt.Printf("Duplicates: %d\n", result.Duplicates)
			for _, rowErr := range result.Errors {
				fmt.Printf("  error: %s\n", rowErr.Error())
			}

			if a.cfg.Import.WriteCleanCSV && result.Imported > 0 {
				path, err := writeCleanCSV(a.cfg.Storage.DataDir, args[0], result)
				if err != nil {
					return err
				}
				fmt.Printf("Clean CSV:  %s\n", path)
			}

			if !keep {
				dir := filepath.Dir(args[0])
				if filepath.Base(dir) == "import" {
					if err := importer.MarkProcessed(filepath.Dir(dir), filepath.Base(args[0])); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cardID, "card", "", "card ID (required)")
	_ = cmd.MarkFlagRequired("card")
	cmd.Flags().BoolVar(&keep, "keep", false, "do not move the file to import/processed")

	return cmd
}

func writeCleanCSV(dataDir, source string, result importer.Result) (string, error) {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	dir := filepath.Join(dataDir, "exports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating exports dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_clean_%s.csv", base, time.Now().Format("20060102")))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := importer.WriteCleanCSV(f, result.Accepted); err != nil {
		return "", err
	}
	return path, nil
}
