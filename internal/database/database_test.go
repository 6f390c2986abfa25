package database

import (
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal("Failed to open test database:", err)
	}

	if err := Migrate(db); err != nil {
		t.Fatal("Failed to run migrations:", err)
	}

	return db
}

func TestUserInsertAndLookup(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	count, err := CountUsersByUsername(db, "alice")
	if err != nil {
		t.Fatal("Failed to count users:", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 users before insert, got %d", count)
	}

	user, err := InsertUser(db, "alice", "hashed-password")
	if err != nil {
		t.Fatal("Failed to insert user:", err)
	}

	if user.ID == 0 {
		t.Error("Expected server-generated user ID")
	}

	count, err = CountUsersByUsername(db, "alice")
	if err != nil {
		t.Fatal("Failed to count users:", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 user after insert, got %d", count)
	}

	found, err := GetUserByUsername(db, "alice")
	if err != nil {
		t.Fatal("Failed to get user:", err)
	}
	if found == nil {
		t.Fatal("Expected to find user alice")
	}
	if found.PasswordHash != "hashed-password" {
		t.Errorf("Expected stored hash, got %s", found.PasswordHash)
	}

	missing, err := GetUserByUsername(db, "bob")
	if err != nil {
		t.Fatal("Lookup of unknown user should not error:", err)
	}
	if missing != nil {
		t.Error("Expected nil for unknown user")
	}
}

func TestUsernameUniqueness(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := InsertUser(db, "alice", "hash1"); err != nil {
		t.Fatal("Failed to insert user:", err)
	}

	if _, err := InsertUser(db, "alice", "hash2"); err == nil {
		t.Error("Expected unique constraint violation on duplicate username")
	}

	// Usernames are case-sensitive: Alice and alice are different users
	if _, err := InsertUser(db, "Alice", "hash3"); err != nil {
		t.Error("Expected different-cased username to be a distinct user:", err)
	}
}

func TestSessionManagement(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := InsertUser(db, "alice", "hash"); err != nil {
		t.Fatal("Failed to insert user:", err)
	}

	session, err := CreateSession(db, "alice", time.Hour)
	if err != nil {
		t.Fatal("Failed to create session:", err)
	}

	if len(session.ID) == 0 {
		t.Error("Session ID should not be empty")
	}

	user, err := ValidateSession(db, session.ID, time.Hour)
	if err != nil {
		t.Fatal("Failed to validate session:", err)
	}
	if user.Username != "alice" {
		t.Errorf("Expected username alice, got %s", user.Username)
	}

	if err := DeleteSession(db, session.ID); err != nil {
		t.Fatal("Failed to delete session:", err)
	}

	if _, err := ValidateSession(db, session.ID, time.Hour); err == nil {
		t.Error("Expected session validation to fail after deletion")
	}
}

func TestCSRFTokenSingleUse(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := InsertUser(db, "alice", "hash"); err != nil {
		t.Fatal("Failed to insert user:", err)
	}

	token, err := CreateCSRFToken(db, "alice")
	if err != nil {
		t.Fatal("Failed to create CSRF token:", err)
	}

	if err := ValidateCSRFToken(db, token.Token, "alice"); err != nil {
		t.Fatal("Failed to validate CSRF token:", err)
	}

	if err := ValidateCSRFToken(db, token.Token, "alice"); err == nil {
		t.Error("Expected second validation of the same token to fail")
	}
}

func TestItemInsertionOrderAndIsolation(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for _, name := range []string{"milk", "eggs", "flour"} {
		if _, err := CreateItem(db, "alice", name); err != nil {
			t.Fatal("Failed to create item:", err)
		}
	}
	if _, err := CreateItem(db, "bob", "butter"); err != nil {
		t.Fatal("Failed to create item:", err)
	}

	items, err := GetItems(db, "alice")
	if err != nil {
		t.Fatal("Failed to get items:", err)
	}

	if len(items) != 3 {
		t.Fatalf("Expected 3 items for alice, got %d", len(items))
	}

	expected := []string{"milk", "eggs", "flour"}
	for i, name := range expected {
		if items[i].Name != name {
			t.Errorf("Expected item %d to be %s, got %s", i, name, items[i].Name)
		}
	}

	for _, item := range items {
		if item.Username != "alice" {
			t.Errorf("Item %d belongs to %s, expected alice", item.ID, item.Username)
		}
	}

	bobItems, err := GetItems(db, "bob")
	if err != nil {
		t.Fatal("Failed to get items:", err)
	}
	if len(bobItems) != 1 || bobItems[0].Name != "butter" {
		t.Errorf("Expected bob to have only butter, got %+v", bobItems)
	}
}

func TestDeleteItemScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	aliceItem, err := CreateItem(db, "alice", "milk")
	if err != nil {
		t.Fatal("Failed to create item:", err)
	}
	bobItem, err := CreateItem(db, "bob", "butter")
	if err != nil {
		t.Fatal("Failed to create item:", err)
	}

	// Deleting somebody else's id changes nothing
	if err := DeleteItem(db, "alice", bobItem.ID); err != nil {
		t.Fatal("Cross-user delete should be a silent no-op:", err)
	}
	bobItems, _ := GetItems(db, "bob")
	if len(bobItems) != 1 {
		t.Error("Bob's item should survive a delete attempt by alice")
	}

	// Deleting an unknown id is a no-op too
	if err := DeleteItem(db, "alice", 99999); err != nil {
		t.Fatal("Unknown-id delete should be a silent no-op:", err)
	}

	if err := DeleteItem(db, "alice", aliceItem.ID); err != nil {
		t.Fatal("Failed to delete item:", err)
	}
	aliceItems, _ := GetItems(db, "alice")
	if len(aliceItems) != 0 {
		t.Errorf("Expected empty pantry after delete, got %d items", len(aliceItems))
	}
}

func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}
