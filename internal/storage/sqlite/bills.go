package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/copter/internal/models"
	"github.com/mmynk/copter/internal/storage"
)

const billColumns = "id, name, total, currency, split_mode, creator_id, conversation_id, message_ref, status, created_at, updated_at"

// CreateBill persists a new bill to the database.
func (q *queries) CreateBill(ctx context.Context, bill *models.Bill) error {
	// Generate IDs if not set
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	now := q.now()
	if bill.CreatedAt.IsZero() {
		bill.CreatedAt = now
	}
	bill.UpdatedAt = bill.CreatedAt

	var messageRef sql.NullString
	if bill.MessageRef != "" {
		messageRef = sql.NullString{String: bill.MessageRef, Valid: true}
	}

	_, err := q.conn.ExecContext(ctx,
		`INSERT INTO bills (`+billColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ID, bill.Name, bill.Total.StringFixed(models.MinorUnitPlaces), bill.Currency, string(bill.SplitMode),
		bill.CreatorID, bill.ConversationID, messageRef, string(bill.Status),
		bill.CreatedAt.Unix(), bill.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}
	return nil
}

// GetBill retrieves a bill by ID.
func (q *queries) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	row := q.conn.QueryRowContext(ctx, `SELECT `+billColumns+` FROM bills WHERE id = ?`, billID)
	bill, err := scanBill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bill %s: %w", billID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return bill, nil
}

// SetBillStatus performs a conditional status update.
func (q *queries) SetBillStatus(ctx context.Context, billID string, to models.BillStatus, from ...models.BillStatus) (bool, error) {
	if len(from) == 0 {
		return false, fmt.Errorf("SetBillStatus: at least one source status required")
	}
	args := []any{string(to), q.now().Unix(), billID}
	for _, s := range from {
		args = append(args, string(s))
	}

	res, err := q.conn.ExecContext(ctx,
		`UPDATE bills SET status = ?, updated_at = ? WHERE id = ? AND status IN (`+placeholders(len(from))+`)`,
		args...,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update bill status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n == 1, nil
}

// SetMessageRef records the rendered message reference of a bill.
func (q *queries) SetMessageRef(ctx context.Context, billID, ref string) error {
	res, err := q.conn.ExecContext(ctx,
		"UPDATE bills SET message_ref = ?, updated_at = ? WHERE id = ?",
		ref, q.now().Unix(), billID,
	)
	if err != nil {
		return fmt.Errorf("failed to update message ref: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("bill %s: %w", billID, storage.ErrNotFound)
	}
	return nil
}

// ListBillsByConversation lists bills of a conversation with their payment progress.
func (q *queries) ListBillsByConversation(ctx context.Context, conversationID string, statuses []models.BillStatus, limit int) ([]models.BillSummary, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = -1
	}

	args := []any{conversationID}
	for _, s := range statuses {
		args = append(args, string(s))
	}
	args = append(args, limit)

	rows, err := q.conn.QueryContext(ctx,
		`SELECT `+billColumns+`,
		        (SELECT COUNT(*) FROM participants p WHERE p.bill_id = bills.id),
		        (SELECT COUNT(*) FROM participants p WHERE p.bill_id = bills.id AND p.status = 'paid')
		 FROM bills
		 WHERE conversation_id = ? AND status IN (`+placeholders(len(statuses))+`)
		 ORDER BY updated_at DESC, created_at DESC, rowid DESC
		 LIMIT ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var summaries []models.BillSummary
	for rows.Next() {
		var summary models.BillSummary
		bill, err := scanBill(rows, &summary.ParticipantCount, &summary.PaidCount)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		summary.Bill = *bill
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}
	return summaries, nil
}

// scanBill reads the billColumns followed by any extra destinations.
func scanBill(row rowScanner, extra ...any) (*models.Bill, error) {
	var (
		bill       models.Bill
		splitMode  string
		status     string
		messageRef sql.NullString
		createdAt  int64
		updatedAt  int64
	)
	dest := []any{
		&bill.ID, &bill.Name, &bill.Total, &bill.Currency, &splitMode,
		&bill.CreatorID, &bill.ConversationID, &messageRef, &status, &createdAt, &updatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	bill.SplitMode = models.SplitMode(splitMode)
	bill.Status = models.BillStatus(status)
	bill.MessageRef = messageRef.String
	bill.CreatedAt = time.Unix(createdAt, 0)
	bill.UpdatedAt = time.Unix(updatedAt, 0)
	return &bill, nil
}
