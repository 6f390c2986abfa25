package auth

import (
	"database/sql"
	"errors"
	"testing"

	"larder/internal/database"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestService(t *testing.T) (*Service, *sql.DB) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal("Failed to open test database:", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatal("Failed to run migrations:", err)
	}

	return NewService(db), db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, db := setupTestService(t)
	defer db.Close()

	user, err := svc.Register("alice", "pw1")
	if err != nil {
		t.Fatal("Failed to register:", err)
	}
	if user.Username != "alice" {
		t.Errorf("Expected username alice, got %s", user.Username)
	}
	if user.PasswordHash == "pw1" {
		t.Error("Password must not be stored in plaintext")
	}

	loggedIn, err := svc.Login("alice", "pw1")
	if err != nil {
		t.Fatal("Failed to login with correct credentials:", err)
	}
	if loggedIn.ID != user.ID {
		t.Errorf("Expected user ID %d, got %d", user.ID, loggedIn.ID)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, db := setupTestService(t)
	defer db.Close()

	if _, err := svc.Register("alice", "pw1"); err != nil {
		t.Fatal("Failed to register:", err)
	}

	_, err := svc.Register("alice", "pw2")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("Expected ErrUsernameTaken, got %v", err)
	}

	// The original password still works, the second registration left no trace
	if _, err := svc.Login("alice", "pw1"); err != nil {
		t.Error("Original credentials should still work:", err)
	}
	if _, err := svc.Login("alice", "pw2"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("Expected ErrWrongPassword for rejected registration's password, got %v", err)
	}
}

func TestRegisterLosingInsertRaceReturnsUsernameTaken(t *testing.T) {
	_, db := setupTestService(t)
	defer db.Close()

	// A concurrent registration can land between the count check and the
	// insert; the unique index rejects the second insert, and that error
	// must map to the duplicate message, not a generic failure.
	if _, err := database.InsertUser(db, "alice", "hash"); err != nil {
		t.Fatal("Failed to insert user:", err)
	}

	_, err := database.InsertUser(db, "alice", "other-hash")
	if err == nil {
		t.Fatal("Expected the unique index to reject the duplicate insert")
	}
	if !isUniqueViolation(err) {
		t.Errorf("Expected a unique violation, got %v", err)
	}

	if isUniqueViolation(errors.New("some other failure")) {
		t.Error("Unrelated errors must not read as unique violations")
	}
}

func TestRegisterEmptyFields(t *testing.T) {
	svc, db := setupTestService(t)
	defer db.Close()

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", "pw"},
		{"empty password", "alice", ""},
		{"both empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(tc.username, tc.password); !errors.Is(err, ErrMissingFields) {
				t.Errorf("Expected ErrMissingFields, got %v", err)
			}
		})
	}

	// Nothing was written
	count, err := database.CountUsersByUsername(db, "alice")
	if err != nil {
		t.Fatal("Failed to count users:", err)
	}
	if count != 0 {
		t.Errorf("Expected no users after failed registrations, got %d", count)
	}
}

func TestLoginFailures(t *testing.T) {
	svc, db := setupTestService(t)
	defer db.Close()

	if _, err := svc.Register("alice", "pw1"); err != nil {
		t.Fatal("Failed to register:", err)
	}

	if _, err := svc.Login("", "pw1"); !errors.Is(err, ErrMissingFields) {
		t.Error("Expected ErrMissingFields for empty username")
	}
	if _, err := svc.Login("alice", ""); !errors.Is(err, ErrMissingFields) {
		t.Error("Expected ErrMissingFields for empty password")
	}
	if _, err := svc.Login("bob", "pw1"); !errors.Is(err, ErrUserNotFound) {
		t.Error("Expected ErrUserNotFound for unknown username")
	}
	if _, err := svc.Login("alice", "pw2"); !errors.Is(err, ErrWrongPassword) {
		t.Error("Expected ErrWrongPassword for wrong password")
	}
}
