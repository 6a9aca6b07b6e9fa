package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CardBrand identifies the card network.
type CardBrand string

const (
	BrandVisa       CardBrand = "visa"
	BrandMastercard CardBrand = "mastercard"
	BrandElo        CardBrand = "elo"
	BrandAmex       CardBrand = "amex"
	BrandHipercard  CardBrand = "hipercard"
)

// Valid reports whether b is a known brand.
func (b CardBrand) Valid() bool {
	switch b {
	case BrandVisa, BrandMastercard, BrandElo, BrandAmex, BrandHipercard:
		return true
	}
	return false
}

// Card is a credit card row in the cards collection.
type Card struct {
	ID              string
	Name            string
	Bank            string
	Brand           CardBrand
	Limit           decimal.Decimal // total limit
	AvailableLimit  decimal.Decimal // in [0, Limit], mutated by the transaction engine
	LinkedAccountID string          // optional, empty when the card has no linked account
	DueDay          int             // 1..31
	ClosingDay      int             // 1..31, must differ from DueDay
	SharedWithAlzi  bool
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CardPatch enumerates the mutable Card fields for partial updates.
type CardPatch struct {
	Name            *string
	Bank            *string
	LinkedAccountID *string
	DueDay          *int
	ClosingDay      *int
	SharedWithAlzi  *bool
}

// Apply copies the non-nil patch fields onto c and bumps UpdatedAt.
func (p CardPatch) Apply(c Card, now time.Time) Card {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Bank != nil {
		c.Bank = *p.Bank
	}
	if p.LinkedAccountID != nil {
		c.LinkedAccountID = *p.LinkedAccountID
	}
	if p.DueDay != nil {
		c.DueDay = *p.DueDay
	}
	if p.ClosingDay != nil {
		c.ClosingDay = *p.ClosingDay
	}
	if p.SharedWithAlzi != nil {
		c.SharedWithAlzi = *p.SharedWithAlzi
	}
	c.UpdatedAt = now
	return c
}
