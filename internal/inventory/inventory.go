// Package inventory mediates pantry reads and writes, scoped to the
// authenticated user.
package inventory

import (
	"database/sql"
	"fmt"

	"larder/internal/database"
	"larder/internal/models"
)

type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Add inserts a pantry item for the user. Empty names and names the user
// already has (case-sensitive exact match) are silently skipped, so Add is
// idempotent per (user, name).
func (s *Service) Add(username, name string) error {
	if name == "" {
		return nil
	}

	items, err := database.GetItems(s.db, username)
	if err != nil {
		return fmt.Errorf("failed to load inventory: %w", err)
	}
	for _, item := range items {
		if item.Name == name {
			return nil
		}
	}

	if _, err := database.CreateItem(s.db, username, name); err != nil {
		return fmt.Errorf("failed to add item: %w", err)
	}
	return nil
}

// List returns the user's pantry in insertion order. The ids are the
// storage ids themselves, treated as opaque by the UI; nothing is
// renumbered between fetches.
func (s *Service) List(username string) ([]models.Item, error) {
	return database.GetItems(s.db, username)
}

// Delete removes one of the user's items by storage id. Unknown or stale
// ids are a no-op.
func (s *Service) Delete(username string, itemID int) error {
	return database.DeleteItem(s.db, username, itemID)
}

// Missing filters the given ingredient names down to those not currently in
// the user's pantry (case-sensitive exact match).
func (s *Service) Missing(username string, ingredients []string) ([]string, error) {
	items, err := database.GetItems(s.db, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	have := make(map[string]bool, len(items))
	for _, item := range items {
		have[item.Name] = true
	}

	var missing []string
	for _, name := range ingredients {
		if name != "" && !have[name] {
			missing = append(missing, name)
		}
	}
	return missing, nil
}
