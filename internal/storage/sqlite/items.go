package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/copter/internal/models"
)

// AddItems inserts the items of a bill.
func (q *queries) AddItems(ctx context.Context, billID string, items []models.BillItem) error {
	for i := range items {
		item := &items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.BillID = billID
		item.Position = i

		_, err := q.conn.ExecContext(ctx,
			"INSERT INTO bill_items (id, bill_id, name, amount, position) VALUES (?, ?, ?, ?, ?)",
			item.ID, billID, item.Name, item.Amount.StringFixed(models.MinorUnitPlaces), item.Position,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}
	return nil
}

// ListItems retrieves all items of a bill in entry order.
func (q *queries) ListItems(ctx context.Context, billID string) ([]models.BillItem, error) {
	rows, err := q.conn.QueryContext(ctx,
		"SELECT id, bill_id, name, amount, position FROM bill_items WHERE bill_id = ? ORDER BY position",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []models.BillItem
	for rows.Next() {
		var item models.BillItem
		if err := rows.Scan(&item.ID, &item.BillID, &item.Name, &item.Amount, &item.Position); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}

// ReplaceSelections swaps a participant's item selections.
func (q *queries) ReplaceSelections(ctx context.Context, participantID string, itemIDs []string) error {
	if _, err := q.conn.ExecContext(ctx, "DELETE FROM item_selections WHERE participant_id = ?", participantID); err != nil {
		return fmt.Errorf("failed to clear selections: %w", err)
	}

	for _, itemID := range itemIDs {
		_, err := q.conn.ExecContext(ctx,
			"INSERT OR IGNORE INTO item_selections (item_id, participant_id) VALUES (?, ?)",
			itemID, participantID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert selection: %w", err)
		}
	}
	return nil
}

// ListSelections retrieves every selection made on a bill.
func (q *queries) ListSelections(ctx context.Context, billID string) ([]models.ItemSelection, error) {
	rows, err := q.conn.QueryContext(ctx,
		`SELECT s.item_id, s.participant_id
		 FROM item_selections s
		 JOIN bill_items i ON i.id = s.item_id
		 WHERE i.bill_id = ?
		 ORDER BY i.position, s.participant_id`,
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query selections: %w", err)
	}
	defer rows.Close()

	var selections []models.ItemSelection
	for rows.Next() {
		var sel models.ItemSelection
		if err := rows.Scan(&sel.ItemID, &sel.ParticipantID); err != nil {
			return nil, fmt.Errorf("failed to scan selection: %w", err)
		}
		selections = append(selections, sel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate selections: %w", err)
	}
	return selections, nil
}
