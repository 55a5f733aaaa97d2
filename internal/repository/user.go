// Package repository provides the data access layer for InvestPro.
package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"investpro/internal/database"
	"investpro/internal/models"
)

// UserRepository handles user data operations.
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and returns the ID.
func (r *UserRepository) Create(user *models.User) (int64, error) {
	query := `
		INSERT INTO users (email, password_hash, display_name, photo_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	now := time.Now()

	result, err := r.db.Exec(query,
		user.Email,
		user.PasswordHash,
		user.DisplayName,
		user.PhotoURL,
		now,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return id, nil
}

// GetByID retrieves a user by ID. Returns nil if not found.
func (r *UserRepository) GetByID(id int64) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, COALESCE(display_name, ''), COALESCE(photo_url, ''), created_at, updated_at
		FROM users
		WHERE id = ?
	`
	return r.scanUser(r.db.QueryRow(query, id), "id")
}

// GetByEmail retrieves a user by email. Returns nil if not found.
// Email matching is case-insensitive.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, COALESCE(display_name, ''), COALESCE(photo_url, ''), created_at, updated_at
		FROM users
		WHERE email = ? COLLATE NOCASE
	`
	return r.scanUser(r.db.QueryRow(query, strings.TrimSpace(email)), "email")
}

// EmailExists checks if a user with the given email exists.
func (r *UserRepository) EmailExists(email string) (bool, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM users WHERE email = ? COLLATE NOCASE`,
		strings.TrimSpace(email),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking email: %w", err)
	}
	return count > 0, nil
}

// UpdateProfile updates the mutable profile fields of a user.
func (r *UserRepository) UpdateProfile(id int64, displayName, photoURL string) error {
	result, err := r.db.Exec(`
		UPDATE users SET display_name = ?, photo_url = ?, updated_at = ?
		WHERE id = ?
	`, displayName, photoURL, time.Now(), id)
	if err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user %d not found", id)
	}
	return nil
}

// UpdatePassword replaces the stored password hash for a user.
func (r *UserRepository) UpdatePassword(id int64, passwordHash string) error {
	result, err := r.db.Exec(`
		UPDATE users SET password_hash = ?, updated_at = ?
		WHERE id = ?
	`, passwordHash, time.Now(), id)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user %d not found", id)
	}
	return nil
}

// scanUser scans a single user row. Returns nil if no row matched.
func (r *UserRepository) scanUser(row *sql.Row, by string) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.PhotoURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by %s: %w", by, err)
	}
	return user, nil
}
