package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/cofre-dev/cofre/internal/model"
	"github.com/cofre-dev/cofre/internal/moneyutil"
)

// cleanHeader is the fixed header of the clean-CSV export.
const cleanHeader = "Data;Descrição;Valor;Tipo;Categoria;Compartilhado_Alzi;Observações"

// WriteCleanCSV writes the accepted transactions of an import as a
// semicolon-delimited review file, one row per transaction.
func WriteCleanCSV(w io.Writer, txns []model.Transaction) error {
	if _, err := fmt.Fprintln(w, cleanHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, t := range txns {
		row := strings.Join([]string{
			t.Date.Format("02/01/2006"),
			sanitizeField(t.Description),
			moneyutil.FormatBRL(t.Value),
			kindLabel(t.Kind),
			sanitizeField(t.Category),
			simNao(t.SharedWithAlzi),
			sanitizeField(t.Notes),
		}, ";")
		if _, err := fmt.Fprintln(w, row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	return nil
}

// sanitizeField keeps the file naively splittable on semicolons.
func sanitizeField(s string) string {
	return strings.ReplaceAll(s, ";", ",")
}

func kindLabel(k model.TransactionKind) string {
	if k == model.Credit {
		return "Crédito"
	}
	return "Débito"
}

func simNao(b bool) string {
	if b {
		return "Sim"
	}
	return "Não"
}
