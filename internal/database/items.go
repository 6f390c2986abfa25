package database

import (
	"database/sql"
	"fmt"
	"time"

	"larder/internal/models"
)

// GetItems returns every pantry row for the user, oldest first. The order is
// the persisted insertion order, so ids shown in the UI stay stable across
// re-fetches.
func GetItems(db *sql.DB, username string) ([]models.Item, error) {
	query := `
		SELECT id, username, item_name, created_at
		FROM storage
		WHERE username = ?
		ORDER BY id
	`

	rows, err := db.Query(query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		err := rows.Scan(
			&item.ID,
			&item.Username,
			&item.Name,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

// CreateItem appends a pantry row. The id is assigned by the database.
func CreateItem(db *sql.DB, username, name string) (*models.Item, error) {
	result, err := db.Exec(
		"INSERT INTO storage (username, item_name) VALUES (?, ?)",
		username, name,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get item ID: %w", err)
	}

	return &models.Item{
		ID:        int(id),
		Username:  username,
		Name:      name,
		CreatedAt: time.Now(),
	}, nil
}

// DeleteItem removes the row with the given id, but only if it belongs to
// the user. Deleting an id that no longer exists (or was never theirs) is a
// no-op, not an error: a stale id from another browser tab must never take
// out somebody else's row.
func DeleteItem(db *sql.DB, username string, itemID int) error {
	_, err := db.Exec(
		"DELETE FROM storage WHERE id = ? AND username = ?",
		itemID, username,
	)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}
