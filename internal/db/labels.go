package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/ALT-F4-LLC/salvage/internal/model"
)

// ImportLabels finds or creates each label by name and returns a map of
// label name to library ID. Existing labels keep their color.
func ImportLabels(db *sql.DB, labels []model.Label) (map[string]int, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	ids := make(map[string]int, len(labels))
	for _, l := range labels {
		id, err := findOrCreateLabel(tx, l)
		if err != nil {
			return nil, err
		}
		ids[l.Name] = id
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return ids, nil
}

// findOrCreateLabel looks up a label by name, creating it if it doesn't exist,
// and returns the label ID.
func findOrCreateLabel(tx *sql.Tx, l model.Label) (int, error) {
	var id int
	err := tx.QueryRow("SELECT id FROM labels WHERE name = ?", l.Name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("querying label: %w", err)
	}

	res, err := tx.Exec(
		"INSERT INTO labels (name, color, display_index) VALUES (?, ?, ?)",
		l.Name, model.LabelColor(l.DisplayIndex), l.DisplayIndex,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting label: %w", err)
	}
	id64, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting label id: %w", err)
	}
	return int(id64), nil
}

// GetLabelByName retrieves a label by its unique name, including the count of
// items currently attached to it. Returns ErrNotFound if no label with that
// name exists.
func GetLabelByName(db *sql.DB, name string) (*model.LabelWithCount, error) {
	var lc model.LabelWithCount
	var color sql.NullString

	err := db.QueryRow(
		`SELECT l.id, l.name, l.color, COUNT(il.item_id) AS item_count
		 FROM labels l
		 LEFT JOIN item_labels il ON il.label_id = l.id
		 WHERE l.name = ?
		 GROUP BY l.id`, name,
	).Scan(&lc.ID, &lc.Name, &color, &lc.Count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying label: %w", err)
	}

	lc.Color = color.String
	return &lc, nil
}

// ListAllLabels returns every label along with the count of items using it,
// in display order.
func ListAllLabels(db *sql.DB) ([]*model.LabelWithCount, error) {
	rows, err := db.Query(
		`SELECT l.id, l.name, l.color, COUNT(il.item_id) AS item_count
		 FROM labels l
		 LEFT JOIN item_labels il ON il.label_id = l.id
		 GROUP BY l.id
		 ORDER BY l.display_index, l.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying labels: %w", err)
	}
	defer rows.Close()

	var labels []*model.LabelWithCount
	for rows.Next() {
		var lc model.LabelWithCount
		var color sql.NullString
		if err := rows.Scan(&lc.ID, &lc.Name, &color, &lc.Count); err != nil {
			return nil, fmt.Errorf("scanning label: %w", err)
		}
		lc.Color = color.String
		labels = append(labels, &lc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating label rows: %w", err)
	}

	return labels, nil
}
