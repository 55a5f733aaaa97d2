package repository

import (
	"path/filepath"
	"testing"

	"investpro/internal/database"
	"investpro/internal/models"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *database.DB, email string) *models.User {
	t.Helper()

	repo := NewUserRepository(db)
	user := &models.User{
		Email:        email,
		PasswordHash: "hashed-password",
		DisplayName:  "Test User",
	}
	id, err := repo.Create(user)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	user.ID = id
	return user
}

func TestUserRepository_Create_ReturnsID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	id, err := repo.Create(&models.User{
		Email:        "alice@example.com",
		PasswordHash: "hash",
		DisplayName:  "Alice",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id == 0 {
		t.Error("Create() returned zero ID")
	}
}

func TestUserRepository_Create_DuplicateEmail_ReturnsError(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	createTestUser(t, db, "dup@example.com")

	_, err := repo.Create(&models.User{
		Email:        "dup@example.com",
		PasswordHash: "hash",
	})
	if err == nil {
		t.Error("Create() with duplicate email should return error")
	}
}

func TestUserRepository_GetByID_Found(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	created := createTestUser(t, db, "bob@example.com")

	user, err := repo.GetByID(created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if user == nil {
		t.Fatal("GetByID() = nil, want user")
	}
	if user.Email != "bob@example.com" {
		t.Errorf("Email = %q, want %q", user.Email, "bob@example.com")
	}
	if user.DisplayName != "Test User" {
		t.Errorf("DisplayName = %q, want %q", user.DisplayName, "Test User")
	}
}

func TestUserRepository_GetByID_NotFound_ReturnsNil(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user, err := repo.GetByID(9999)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if user != nil {
		t.Errorf("GetByID() = %+v, want nil", user)
	}
}

func TestUserRepository_GetByEmail_CaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	createTestUser(t, db, "carol@example.com")

	user, err := repo.GetByEmail("CAROL@Example.COM")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if user == nil {
		t.Fatal("GetByEmail() = nil, want user (case-insensitive match)")
	}
	if user.Email != "carol@example.com" {
		t.Errorf("Email = %q, want %q", user.Email, "carol@example.com")
	}
}

func TestUserRepository_EmailExists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	createTestUser(t, db, "dave@example.com")

	exists, err := repo.EmailExists("dave@example.com")
	if err != nil {
		t.Fatalf("EmailExists() error = %v", err)
	}
	if !exists {
		t.Error("EmailExists() = false, want true")
	}

	exists, err = repo.EmailExists("nobody@example.com")
	if err != nil {
		t.Fatalf("EmailExists() error = %v", err)
	}
	if exists {
		t.Error("EmailExists() = true, want false")
	}
}

func TestUserRepository_UpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	created := createTestUser(t, db, "erin@example.com")

	err := repo.UpdateProfile(created.ID, "Erin Updated", "https://example.com/erin.png")
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}

	user, err := repo.GetByID(created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if user.DisplayName != "Erin Updated" {
		t.Errorf("DisplayName = %q, want %q", user.DisplayName, "Erin Updated")
	}
	if user.PhotoURL != "https://example.com/erin.png" {
		t.Errorf("PhotoURL = %q, want %q", user.PhotoURL, "https://example.com/erin.png")
	}
}

func TestUserRepository_UpdateProfile_NotFound_ReturnsError(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	err := repo.UpdateProfile(9999, "Nobody", "")
	if err == nil {
		t.Error("UpdateProfile() for missing user should return error")
	}
}
