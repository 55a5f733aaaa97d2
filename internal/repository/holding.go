package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"investpro/internal/database"
	"investpro/internal/models"
)

// HoldingRepository handles holding persistence. Holdings are insert-only:
// positions are never updated in place or removed.
type HoldingRepository struct {
	db *database.DB
}

// NewHoldingRepository creates a new HoldingRepository.
func NewHoldingRepository(db *database.DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

// Insert persists a new holding and returns the stored record with its
// assigned identifier. The caller's struct is not mutated.
func (r *HoldingRepository) Insert(holding *models.Holding) (*models.Holding, error) {
	stored := *holding
	stored.ID = uuid.NewString()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(`
		INSERT INTO holdings (id, owner_id, symbol, quantity, purchase_price, current_price, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, stored.ID, stored.OwnerID, stored.Symbol, stored.Quantity,
		stored.PurchasePrice, stored.CurrentPrice, stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting holding: %w", err)
	}

	return &stored, nil
}

// GetByOwnerID retrieves all holdings belonging to a user, oldest first.
// The owner filter is always applied here, so misdirected queries cannot
// leak another user's positions.
func (r *HoldingRepository) GetByOwnerID(ownerID int64) ([]*models.Holding, error) {
	rows, err := r.db.Query(`
		SELECT id, owner_id, symbol, quantity, purchase_price, current_price, created_at
		FROM holdings
		WHERE owner_id = ?
		ORDER BY created_at, id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying holdings: %w", err)
	}
	defer rows.Close()

	holdings := make([]*models.Holding, 0)
	for rows.Next() {
		h := &models.Holding{}
		err := rows.Scan(
			&h.ID,
			&h.OwnerID,
			&h.Symbol,
			&h.Quantity,
			&h.PurchasePrice,
			&h.CurrentPrice,
			&h.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning holding: %w", err)
		}
		holdings = append(holdings, h)
	}

	return holdings, rows.Err()
}

// CountByOwnerID returns the number of holdings for a user.
func (r *HoldingRepository) CountByOwnerID(ownerID int64) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM holdings WHERE owner_id = ?`, ownerID).Scan(&count)
	return count, err
}
