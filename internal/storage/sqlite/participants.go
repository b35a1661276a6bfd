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

const participantColumns = "id, bill_id, user_id, amount, has_selected, status, paid_at, created_at"

// AddParticipants inserts the participants of a bill in the given order.
func (q *queries) AddParticipants(ctx context.Context, billID string, participants []models.Participant) error {
	var offset int
	if err := q.conn.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position) + 1, 0) FROM participants WHERE bill_id = ?", billID,
	).Scan(&offset); err != nil {
		return fmt.Errorf("failed to read participant position: %w", err)
	}

	now := q.now()
	for i := range participants {
		p := &participants[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		if p.Status == "" {
			p.Status = models.PaymentUnpaid
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		p.BillID = billID

		_, err := q.conn.ExecContext(ctx,
			`INSERT INTO participants (id, bill_id, user_id, amount, has_selected, status, paid_at, position, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, billID, p.UserID, p.Amount.StringFixed(models.MinorUnitPlaces), p.HasSelected,
			string(p.Status), unixOrNull(p.PaidAt), offset+i, p.CreatedAt.Unix(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}
	return nil
}

// GetParticipant retrieves a participant by ID.
func (q *queries) GetParticipant(ctx context.Context, participantID string) (*models.Participant, error) {
	row := q.conn.QueryRowContext(ctx,
		`SELECT `+participantColumns+` FROM participants WHERE id = ?`, participantID)
	p, err := scanParticipant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("participant %s: %w", participantID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return p, nil
}

// GetParticipantByUser retrieves a user's participation on a bill.
func (q *queries) GetParticipantByUser(ctx context.Context, billID, userID string) (*models.Participant, error) {
	row := q.conn.QueryRowContext(ctx,
		`SELECT `+participantColumns+` FROM participants WHERE bill_id = ? AND user_id = ?`, billID, userID)
	p, err := scanParticipant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("participant %s on bill %s: %w", userID, billID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return p, nil
}

// ListParticipants retrieves all participants of a bill in insertion order.
func (q *queries) ListParticipants(ctx context.Context, billID string) ([]models.Participant, error) {
	rows, err := q.conn.QueryContext(ctx,
		`SELECT `+participantColumns+` FROM participants WHERE bill_id = ? ORDER BY position`, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

// SetParticipantAmount updates what a participant owes.
func (q *queries) SetParticipantAmount(ctx context.Context, participantID string, amount models.Amount) error {
	res, err := q.conn.ExecContext(ctx,
		"UPDATE participants SET amount = ? WHERE id = ?",
		amount.StringFixed(models.MinorUnitPlaces), participantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update participant amount: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("participant %s: %w", participantID, storage.ErrNotFound)
	}
	return nil
}

// SetParticipantStatus performs a conditional payment status update.
func (q *queries) SetParticipantStatus(ctx context.Context, participantID string, to models.PaymentStatus, from ...models.PaymentStatus) (bool, error) {
	if len(from) == 0 {
		return false, fmt.Errorf("SetParticipantStatus: at least one source status required")
	}

	var paidAt *time.Time
	if to == models.PaymentPaid {
		now := q.now()
		paidAt = &now
	}

	args := []any{string(to), unixOrNull(paidAt), participantID}
	for _, s := range from {
		args = append(args, string(s))
	}

	res, err := q.conn.ExecContext(ctx,
		`UPDATE participants SET status = ?, paid_at = ? WHERE id = ? AND status IN (`+placeholders(len(from))+`)`,
		args...,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update participant status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n == 1, nil
}

// MarkSelected records that a participant has submitted their selection.
func (q *queries) MarkSelected(ctx context.Context, participantID string) (bool, error) {
	res, err := q.conn.ExecContext(ctx,
		"UPDATE participants SET has_selected = 1 WHERE id = ? AND has_selected = 0", participantID)
	if err != nil {
		return false, fmt.Errorf("failed to mark selection: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n == 1, nil
}

// CountUnpaid counts participants of a bill that are not yet paid.
func (q *queries) CountUnpaid(ctx context.Context, billID string) (int, error) {
	var n int
	err := q.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM participants WHERE bill_id = ? AND status != 'paid'", billID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unpaid participants: %w", err)
	}
	return n, nil
}

// CountUnselected counts participants of a bill that have not submitted a selection.
func (q *queries) CountUnselected(ctx context.Context, billID string) (int, error) {
	var n int
	err := q.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM participants WHERE bill_id = ? AND has_selected = 0", billID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unselected participants: %w", err)
	}
	return n, nil
}

// ListUnpaidByUser lists a user's open debts on active bills.
func (q *queries) ListUnpaidByUser(ctx context.Context, userID string) ([]models.UnpaidEntry, error) {
	return q.listUnpaid(ctx, "AND p.user_id = ?", userID)
}

// ListUnpaidOnActiveBills lists every open debt on active bills.
func (q *queries) ListUnpaidOnActiveBills(ctx context.Context) ([]models.UnpaidEntry, error) {
	return q.listUnpaid(ctx, "")
}

func (q *queries) listUnpaid(ctx context.Context, filter string, args ...any) ([]models.UnpaidEntry, error) {
	rows, err := q.conn.QueryContext(ctx,
		`SELECT p.id, p.user_id, p.amount, p.status, b.id, b.name, b.creator_id, b.conversation_id, b.currency
		 FROM participants p
		 JOIN bills b ON b.id = p.bill_id
		 WHERE b.status = 'active' AND p.status != 'paid' `+filter+`
		 ORDER BY b.created_at, b.rowid, p.position`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query unpaid participants: %w", err)
	}
	defer rows.Close()

	var entries []models.UnpaidEntry
	for rows.Next() {
		var (
			e      models.UnpaidEntry
			status string
		)
		if err := rows.Scan(&e.ParticipantID, &e.UserID, &e.Amount, &status,
			&e.BillID, &e.BillName, &e.CreatorID, &e.ConversationID, &e.Currency); err != nil {
			return nil, fmt.Errorf("failed to scan unpaid participant: %w", err)
		}
		e.Status = models.PaymentStatus(status)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate unpaid participants: %w", err)
	}
	return entries, nil
}

func scanParticipant(row rowScanner) (*models.Participant, error) {
	var (
		p         models.Participant
		status    string
		paidAt    sql.NullInt64
		createdAt int64
	)
	if err := row.Scan(&p.ID, &p.BillID, &p.UserID, &p.Amount, &p.HasSelected, &status, &paidAt, &createdAt); err != nil {
		return nil, err
	}
	p.Status = models.PaymentStatus(status)
	p.PaidAt = timeOrNil(paidAt)
	p.CreatedAt = time.Unix(createdAt, 0)
	return &p, nil
}
