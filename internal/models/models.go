// Package models contains the domain models for InvestPro.
package models

import "time"

// User represents a registered user.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	DisplayName  string    `json:"display_name,omitempty"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Session represents an authenticated browser session.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Holding represents a single recorded investment position.
// Holdings are immutable after creation: no update or delete operations
// exist, and CurrentPrice stays at its creation-time value.
type Holding struct {
	ID            string    `json:"id"`
	OwnerID       int64     `json:"owner_id"`
	Symbol        string    `json:"symbol"` // normalized upper-case
	Quantity      float64   `json:"quantity"`
	PurchasePrice float64   `json:"purchase_price"`
	CurrentPrice  float64   `json:"current_price"`
	CreatedAt     time.Time `json:"created_at"`
}

// Value returns the current market value of this holding.
func (h *Holding) Value() float64 {
	return h.CurrentPrice * h.Quantity
}

// Profit returns the unrealized profit/loss for this holding.
func (h *Holding) Profit() float64 {
	return (h.CurrentPrice - h.PurchasePrice) * h.Quantity
}

// WatchlistEntry is a symbol a user has flagged for tracking.
// A symbol appears at most once per user's watchlist.
type WatchlistEntry struct {
	ID        string    `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name,omitempty"`
	Market    string    `json:"market,omitempty"`
	Currency  string    `json:"currency,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PortfolioTotals holds the derived aggregate values for a holding
// collection. Always recomputed by a full fold over the collection,
// never incrementally adjusted.
type PortfolioTotals struct {
	TotalValue  float64 `json:"total_value"`
	TotalProfit float64 `json:"total_profit"`
}

// ComputeTotals folds the full holding collection into fresh totals.
func ComputeTotals(holdings []*Holding) PortfolioTotals {
	var t PortfolioTotals
	for _, h := range holdings {
		t.TotalValue += h.Value()
		t.TotalProfit += h.Profit()
	}
	return t
}
