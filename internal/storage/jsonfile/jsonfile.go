// Package jsonfile implements storage.Store on a single local JSON file. It
// is the fallback backend when SQLite is unavailable and behaves identically
// from the engine's point of view.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/cofre-dev/cofre/internal/finance"
	"github.com/cofre-dev/cofre/internal/model"
	"github.com/cofre-dev/cofre/internal/storage"
)

// document is the on-disk layout: three collections keyed by ID.
type document struct {
	Accounts     map[string]model.Account     `json:"accounts"`
	Cards        map[string]model.Card        `json:"cards"`
	Transactions map[string]model.Transaction `json:"transactions"`
}

func newDocument() document {
	return document{
		Accounts:     make(map[string]model.Account),
		Cards:        make(map[string]model.Card),
		Transactions: make(map[string]model.Transaction),
	}
}

// Store is the JSON-file-backed storage.Store. Every write persists the whole
// document; the file write is the atomicity boundary.
type Store struct {
	mu   sync.Mutex
	path string
	doc  document
}

var _ storage.Store = (*Store)(nil)

// Open loads (creating if needed) the JSON document at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	s := &Store{path: path, doc: newDocument()}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.doc); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
	}
	if s.doc.Accounts == nil {
		s.doc.Accounts = make(map[string]model.Account)
	}
	if s.doc.Cards == nil {
		s.doc.Cards = make(map[string]model.Card)
	}
	if s.doc.Transactions == nil {
		s.doc.Transactions = make(map[string]model.Transaction)
	}
	return s, nil
}

// Close is a no-op; every write already persisted.
func (s *Store) Close() error { return nil }

// persist writes the document atomically via a temp file rename.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding store: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) InsertAccount(_ context.Context, a model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doc.Accounts[a.ID]; ok {
		return fmt.Errorf("account %s: %w", a.ID, finance.ErrDuplicate)
	}
	s.doc.Accounts[a.ID] = a
	return s.persist()
}

func (s *Store) GetAccount(_ context.Context, id string) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.doc.Accounts[id]
	if !ok {
		return model.Account{}, fmt.Errorf("account %s: %w", id, finance.ErrNotFound)
	}
	return a, nil
}

func (s *Store) ListAccounts(_ context.Context) ([]model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	accounts := make([]model.Account, 0, len(s.doc.Accounts))
	for _, a := range s.doc.Accounts {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
	return accounts, nil
}

func (s *Store) UpdateAccount(_ context.Context, a model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doc.Accounts[a.ID]; !ok {
		return fmt.Errorf("account %s: %w", a.ID, finance.ErrNotFound)
	}
	s.doc.Accounts[a.ID] = a
	return s.persist()
}

func (s *Store) DeleteAccount(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doc.Accounts[id]; !ok {
		return fmt.Errorf("account %s: %w", id, finance.ErrNotFound)
	}
	delete(s.doc.Accounts, id)
	return s.persist()
}

func (s *Store) InsertCard(_ context.Context, c model.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doc.Cards[c.ID]; ok {
		return fmt.Errorf("card %s: %w", c.ID, finance.ErrDuplicate)
	}
	s.doc.Cards[c.ID] = c
	return s.persist()
}

func (s *Store) GetCard(_ context.Context, id string) (model.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.doc.Cards[id]
	if !ok {
		return model.Card{}, fmt.Errorf("card %s: %w", id, finance.ErrNotFound)
	}
	return c, nil
}

func (s *Store) ListCards(_ context.Context) ([]model.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cards := make([]model.Card, 0, len(s.doc.Cards))
	for _, c := range s.doc.Cards {
		cards = append(cards, c)
	}
	sort.Slice(cards, func(i, j int) bool {
		return cards[i].CreatedAt.Before(cards[j].CreatedAt)
	})
	return cards, nil
}

func (s *Store) UpdateCard(_ context.Context, c model.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doc.Cards[c.ID]; !ok {
		return fmt.Errorf("card %s: %w", c.ID, finance.ErrNotFound)
	}
	s.doc.Cards[c.ID] = c
	return s.persist()
}

func (s *Store) DeleteCard(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doc.Cards[id]; !ok {
		return fmt.Errorf("card %s: %w", id, finance.ErrNotFound)
	}
	delete(s.doc.Cards, id)
	return s.persist()
}

func (s *Store) InsertTransaction(_ context.Context, t model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doc.Transactions[t.ID]; ok {
		return fmt.Errorf("transaction %s: %w", t.ID, finance.ErrDuplicate)
	}
	s.doc.Transactions[t.ID] = t
	return s.persist()
}

func (s *Store) GetTransaction(_ context.Context, id string) (model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.doc.Transactions[id]
	if !ok {
		return model.Transaction{}, fmt.Errorf("transaction %s: %w", id, finance.ErrNotFound)
	}
	return t, nil
}

func (s *Store) ListTransactions(_ context.Context, f storage.TransactionFilter) ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var txns []model.Transaction
	for _, t := range s.doc.Transactions {
		if f.Matches(t) {
			txns = append(txns, t)
		}
	}
	sort.Slice(txns, func(i, j int) bool {
		if !txns[i].Date.Equal(txns[j].Date) {
			return txns[i].Date.Before(txns[j].Date)
		}
		return txns[i].CreatedAt.Before(txns[j].CreatedAt)
	})
	return txns, nil
}

func (s *Store) UpdateTransaction(_ context.Context, t model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doc.Transactions[t.ID]; !ok {
		return fmt.Errorf("transaction %s: %w", t.ID, finance.ErrNotFound)
	}
	s.doc.Transactions[t.ID] = t
	return s.persist()
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doc.Transactions[id]; !ok {
		return fmt.Errorf("transaction %s: %w", id, finance.ErrNotFound)
	}
	delete(s.doc.Transactions, id)
	return s.persist()
}
