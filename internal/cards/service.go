package cards

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cofre-dev/cofre/internal/id"
	"github.com/cofre-dev/cofre/internal/model"
	"github.com/cofre-dev/cofre/internal/storage"
)

// Service provides card CRUD and available-limit mutation over a Store.
type Service struct {
	store storage.Store
}

// NewService creates a card Service.
func NewService(store storage.Store) *Service {
	return &Service{store: store}
}

// CreateParams holds parameters for creating a card.
type CreateParams struct {
	Name            string
	Bank            string
	Brand           model.CardBrand
	Limit           decimal.Decimal
	LinkedAccountID string
	DueDay          int
	ClosingDay      int
	SharedWithAlzi  bool
}

// Create validates and persists a new card. The available limit starts
// equal to the total limit and the card starts active.
func (s *Service) Create(ctx context.Context, p CreateParams) (model.Card, error) {
	if err := Validate(p.Name, p.Bank, p.Brand, p.Limit, p.DueDay, p.ClosingDay); err != nil {
		return model.Card{}, err
	}
	if p.LinkedAccountID != "" {
		if _, err := s.store.GetAccount(ctx, p.LinkedAccountID); err != nil {
			return model.Card{}, fmt.Errorf("linked account: %w", err)
		}
	}

	now := time.Now().UTC()
	card := model.Card{
		ID:              id.New(),
		Name:            strings.TrimSpace(p.Name),
		Bank:            strings.TrimSpace(p.Bank),
		Brand:           p.Brand,
		Limit:           p.Limit,
		AvailableLimit:  p.Limit,
		LinkedAccountID: p.LinkedAccountID,
		DueDay:          p.DueDay,
		ClosingDay:      p.ClosingDay,
		SharedWithAlzi:  p.SharedWithAlzi,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.store.InsertCard(ctx, card); err != nil {
		return model.Card{}, fmt.Errorf("inserting card: %w", err)
	}
	return card, nil
}

// Get returns a card by ID.
func (s *Service) Get(ctx context.Context, cardID string) (model.Card, error) {
	return s.store.GetCard(ctx, cardID)
}

// List returns cards, optionally only active ones.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]model.Card, error) {
	all, err := s.store.ListCards(ctx)
	if err != nil {
		return nil, err
	}
	if !activeOnly {
		return all, nil
	}
	var active []model.Card
	for _, c := range all {
		if c.Active {
			active = append(active, c)
		}
	}
	return active, nil
}

// Update applies a partial update to a card. Billing-day changes are
// re-validated against each other.
func (s *Service) Update(ctx context.Context, cardID string, patch model.CardPatch) (model.Card, error) {
	card, err := s.store.GetCard(ctx, cardID)
	if err != nil {
		return model.Card{}, err
	}
	next := patch.Apply(card, time.Now().UTC())
	if err := Validate(next.Name, next.Bank, next.Brand, next.Limit, next.DueDay, next.ClosingDay); err != nil {
		return model.Card{}, err
	}
	if err := s.store.UpdateCard(ctx, next); err != nil {
		return model.Card{}, fmt.Errorf("updating card: %w", err)
	}
	return next, nil
}

// ApplyTransaction mutates the available limit for a transaction and
// persists it: debits consume limit (floored at zero), credits restore it
// (capped at the total). Used exclusively by the transaction engine.
func (s *Service) ApplyTransaction(ctx context.Context, cardID string, value decimal.Decimal, kind model.TransactionKind) (model.Card, error) {
	card, err := s.store.GetCard(ctx, cardID)
	if err != nil {
		return model.Card{}, err
	}
	if kind == model.Debit {
		card.AvailableLimit = ApplyDebit(card.AvailableLimit, value)
	} else {
		card.AvailableLimit = ApplyCredit(card.AvailableLimit, card.Limit, value)
	}
	card.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateCard(ctx, card); err != nil {
		return model.Card{}, fmt.Errorf("updating available limit: %w", err)
	}
	return card, nil
}

// Deactivate soft-deletes the card.
func (s *Service) Deactivate(ctx context.Context, cardID string) error {
	return s.setActive(ctx, cardID, false)
}

// Activate re-enables a deactivated card.
func (s *Service) Activate(ctx context.Context, cardID string) error {
	return s.setActive(ctx, cardID, true)
}

func (s *Service) setActive(ctx context.Context, cardID string, active bool) error {
	card, err := s.store.GetCard(ctx, cardID)
	if err != nil {
		return err
	}
	card.Active = active
	card.UpdatedAt = time.Now().UTC()
	return s.store.UpdateCard(ctx, card)
}

// Delete hard-deletes a card. Cards with transactions or limit in use are
// refused; deactivate those instead.
func (s *Service) Delete(ctx context.Context, cardID string) error {
	card, err := s.store.GetCard(ctx, cardID)
	if err != nil {
		return err
	}

	txns, err := s.store.ListTransactions(ctx, storage.TransactionFilter{CardID: cardID})
	if err != nil {
		return fmt.Errorf("checking transactions: %w", err)
	}

	if ok, reason := CanDelete(card, len(txns) > 0); !ok {
		return fmt.Errorf("cannot delete card %s: %s", cardID, reason)
	}
	return s.store.DeleteCard(ctx, cardID)
}
