// Package portfolio implements the per-user holding aggregate: loading a
// user's positions, appending new ones, and deriving portfolio totals.
package portfolio

import (
	"math"
	"strings"
	"sync"

	"investpro/internal/errors"
	"investpro/internal/models"
)

// Store is the persistence port the aggregator reads and writes through.
// Implemented by repository.HoldingRepository.
type Store interface {
	Insert(h *models.Holding) (*models.Holding, error)
	GetByOwnerID(ownerID int64) ([]*models.Holding, error)
}

// Notifier receives the user-visible outcome of each add operation.
// Implemented by notify.Center.
type Notifier interface {
	Success(ownerID int64, message string)
	Error(ownerID int64, message string)
}

// Candidate is an investment position as submitted by the user, before
// validation and persistence.
type Candidate struct {
	Symbol        string  `json:"symbol"`
	Quantity      float64 `json:"quantity"`
	PurchasePrice float64 `json:"purchase_price"`
}

// Aggregator owns the in-memory holding collection of a single user.
// Totals are recomputed by a full fold after every mutation; they are
// never adjusted incrementally, so the result is independent of the
// order additions happened in.
type Aggregator struct {
	store    Store
	notifier Notifier
	ownerID  int64

	mu       sync.Mutex
	holdings []*models.Holding
	totals   models.PortfolioTotals
}

// NewAggregator creates an aggregator for one user's portfolio.
func NewAggregator(store Store, notifier Notifier, ownerID int64) *Aggregator {
	return &Aggregator{
		store:    store,
		notifier: notifier,
		ownerID:  ownerID,
		holdings: make([]*models.Holding, 0),
	}
}

// Load fetches all of the owner's holdings, replaces the local collection
// and recomputes the totals. On a failed fetch the local state keeps its
// last-known-good value.
func (a *Aggregator) Load() error {
	holdings, err := a.store.GetByOwnerID(a.ownerID)
	if err != nil {
		return errors.Fetch("failed to load portfolio", err)
	}

	a.mu.Lock()
	a.holdings = holdings
	a.totals = models.ComputeTotals(a.holdings)
	a.mu.Unlock()
	return nil
}

// Add validates a candidate, persists it, and appends the acknowledged
// record to the local collection. Nothing is inserted locally before the
// write is confirmed, so a failed add leaves holdings and totals exactly
// as they were. The outcome is reported through the notifier either way.
func (a *Aggregator) Add(candidate Candidate) (*models.Holding, error) {
	holding, err := a.validate(candidate)
	if err != nil {
		a.notifier.Error(a.ownerID, err.Error())
		return nil, err
	}

	stored, err := a.store.Insert(holding)
	if err != nil {
		perr := errors.Persistence("failed to add investment", err)
		a.notifier.Error(a.ownerID, perr.Message)
		return nil, perr
	}

	a.mu.Lock()
	a.holdings = append(a.holdings, stored)
	a.totals = models.ComputeTotals(a.holdings)
	a.mu.Unlock()

	a.notifier.Success(a.ownerID, "Investment added successfully")
	return stored, nil
}

// Holdings returns a copy of the current holding collection.
func (a *Aggregator) Holdings() []*models.Holding {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*models.Holding, len(a.holdings))
	copy(out, a.holdings)
	return out
}

// Totals returns the current derived totals.
func (a *Aggregator) Totals() models.PortfolioTotals {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.totals
}

// validate checks the candidate's constraints and builds the holding to
// persist. The current price starts equal to the purchase price; there is
// no live-price integration at creation time.
func (a *Aggregator) validate(c Candidate) (*models.Holding, error) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Symbol))
	if symbol == "" {
		return nil, errors.ValidationField("symbol", "symbol is required")
	}
	// NaN fails every comparison, so the positivity checks are phrased as
	// negations; a NaN slipping through would poison every later fold.
	if !(c.Quantity > 0) || math.IsInf(c.Quantity, 0) {
		return nil, errors.ValidationField("quantity", "quantity must be a positive number")
	}
	if !(c.PurchasePrice > 0) || math.IsInf(c.PurchasePrice, 0) {
		return nil, errors.ValidationField("purchase_price", "purchase price must be a positive number")
	}

	return &models.Holding{
		OwnerID:       a.ownerID,
		Symbol:        symbol,
		Quantity:      c.Quantity,
		PurchasePrice: c.PurchasePrice,
		CurrentPrice:  c.PurchasePrice,
	}, nil
}
