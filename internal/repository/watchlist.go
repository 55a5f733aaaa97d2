package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"investpro/internal/database"
	"investpro/internal/errors"
	"investpro/internal/models"
)

// WatchlistRepository handles watchlist persistence.
type WatchlistRepository struct {
	db *database.DB
}

// NewWatchlistRepository creates a new WatchlistRepository.
func NewWatchlistRepository(db *database.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// Add inserts a watchlist entry and returns the stored record. Adding a
// symbol already on the user's watchlist returns a conflict error.
func (r *WatchlistRepository) Add(entry *models.WatchlistEntry) (*models.WatchlistEntry, error) {
	stored := *entry
	stored.ID = uuid.NewString()
	stored.Symbol = strings.ToUpper(strings.TrimSpace(stored.Symbol))
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(`
		INSERT INTO watchlist (id, owner_id, symbol, name, market, currency, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, stored.ID, stored.OwnerID, stored.Symbol, stored.Name,
		stored.Market, stored.Currency, stored.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, errors.Conflict(fmt.Sprintf("%s is already on the watchlist", stored.Symbol))
		}
		return nil, fmt.Errorf("inserting watchlist entry: %w", err)
	}

	return &stored, nil
}

// GetByOwnerID retrieves a user's watchlist, alphabetical by symbol.
func (r *WatchlistRepository) GetByOwnerID(ownerID int64) ([]*models.WatchlistEntry, error) {
	rows, err := r.db.Query(`
		SELECT id, owner_id, symbol, COALESCE(name, ''), COALESCE(market, ''), COALESCE(currency, ''), created_at
		FROM watchlist
		WHERE owner_id = ?
		ORDER BY symbol
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying watchlist: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.WatchlistEntry, 0)
	for rows.Next() {
		e := &models.WatchlistEntry{}
		err := rows.Scan(
			&e.ID,
			&e.OwnerID,
			&e.Symbol,
			&e.Name,
			&e.Market,
			&e.Currency,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning watchlist entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Remove deletes a symbol from a user's watchlist.
func (r *WatchlistRepository) Remove(ownerID int64, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	result, err := r.db.Exec(
		`DELETE FROM watchlist WHERE owner_id = ? AND symbol = ?`,
		ownerID, symbol,
	)
	if err != nil {
		return fmt.Errorf("removing watchlist entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting affected rows: %w", err)
	}
	if rows == 0 {
		return errors.NotFound("watchlist entry")
	}
	return nil
}
