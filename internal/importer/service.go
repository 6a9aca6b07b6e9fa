package importer

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cofre-dev/cofre/internal/finance"
	"github.com/cofre-dev/cofre/internal/id"
	"github.com/cofre-dev/cofre/internal/model"
	"github.com/cofre-dev/cofre/internal/period"
	"github.com/cofre-dev/cofre/internal/storage"
	"github.com/cofre-dev/cofre/internal/transactions"
)

// dedupTolerance is the value distance under which two same-day transactions
// on the same card count as the same purchase.
var dedupTolerance = decimal.RequireFromString("0.01")

// Result summarizes one statement import.
type Result struct {
	Format     string
	TotalLines int
	Candidates int
	Imported   int
	Duplicates int
	Accepted   []model.Transaction
	Errors     []RowError
}

// Service runs statement imports end to end: detect the layout, parse the
// rows, drop duplicates, and feed the rest to the transaction engine. Rows
// are processed strictly in order so that a duplicate within the batch is
// caught against rows imported moments earlier.
type Service struct {
	store    storage.Store
	registry *Registry
	engine   *transactions.Service
}

// NewService creates an import Service.
func NewService(store storage.Store, registry *Registry, engine *transactions.Service) *Service {
	return &Service{store: store, registry: registry, engine: engine}
}

// ImportStatement imports a statement file against a card. An unrecognized
// layout fails the whole file with ErrUnknownFormat; malformed rows only
// fail themselves. The card's shared flag propagates to every imported
// transaction.
func (s *Service) ImportStatement(ctx context.Context, cardID string, contents []byte) (Result, error) {
	card, err := s.store.GetCard(ctx, cardID)
	if err != nil {
		return Result{}, err
	}

	parser := s.registry.Detect(contents)
	if parser == nil {
		return Result{}, finance.ErrUnknownFormat
	}

	parsed, err := parser.Parse(bytes.NewReader(contents))
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Format:     parser.Format(),
		TotalLines: parsed.TotalLines,
		Candidates: len(parsed.Entries),
		Errors:     parsed.Errors,
	}

	// Existing transactions per statement month, extended as rows land so
	// intra-batch duplicates are seen too.
	known := make(map[string][]model.Transaction)

	for _, entry := range parsed.Entries {
		existing, err := s.monthTransactions(ctx, known, cardID, entry.Date)
		if err != nil {
			return result, err
		}
		if isDuplicate(entry, existing) {
			result.Duplicates++
			continue
		}

		txn, err := s.engine.Create(ctx, transactions.CreateParams{
			Description:    entry.Description,
			Value:          entry.Value,
			Kind:           entry.Kind,
			Date:           entry.Date.Format(period.DateFormat),
			Category:       entry.Category,
			CardID:         cardID,
			Notes:          entry.Notes,
			SharedWithAlzi: card.SharedWithAlzi,
		})
		if err != nil {
			result.Errors = append(result.Errors, RowError{Message: fmt.Sprintf("importing %q: %v", entry.Description, err)})
			continue
		}

		key := monthKey(entry.Date)
		known[key] = append(known[key], txn)
		result.Imported++
		result.Accepted = append(result.Accepted, txn)
	}
	return result, nil
}

func (s *Service) monthTransactions(ctx context.Context, cache map[string][]model.Transaction, cardID string, date time.Time) ([]model.Transaction, error) {
	key := monthKey(date)
	if txns, ok := cache[key]; ok {
		return txns, nil
	}

	from := period.Date(date.Year(), date.Month(), 1)
	txns, err := s.store.ListTransactions(ctx, storage.TransactionFilter{
		CardID: cardID,
		From:   from,
		To:     period.AddMonths(from, 1),
	})
	if err != nil {
		return nil, fmt.Errorf("listing transactions for dedup: %w", err)
	}
	if txns == nil {
		txns = []model.Transaction{}
	}
	cache[key] = txns
	return txns, nil
}

func monthKey(date time.Time) string {
	return id.FormatInvoiceKey(date.Year(), int(date.Month()))
}

// isDuplicate reports whether an existing same-card transaction matches the
// candidate on day-precision date and value within one cent.
func isDuplicate(entry model.StatementEntry, existing []model.Transaction) bool {
	day := period.Truncate(entry.Date)
	for _, t := range existing {
		if !period.Truncate(t.Date).Equal(day) {
			continue
		}
		if t.Value.Sub(entry.Value).Abs().LessThan(dedupTolerance) {
			return true
		}
	}
	return false
}
