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

// UpsertPaymentMethod creates or replaces a user's payment method.
// PromptPay IDs and bank account numbers are sealed when a sealer is configured.
func (q *queries) UpsertPaymentMethod(ctx context.Context, pm *models.PaymentMethod) error {
	if pm.ID == "" {
		pm.ID = uuid.New().String()
	}
	now := q.now()
	if pm.CreatedAt.IsZero() {
		pm.CreatedAt = now
	}
	pm.UpdatedAt = now

	promptPayID, err := q.seal(pm.PromptPayID)
	if err != nil {
		return fmt.Errorf("failed to seal promptpay id: %w", err)
	}
	accountNumber, err := q.seal(pm.BankAccountNumber)
	if err != nil {
		return fmt.Errorf("failed to seal bank account number: %w", err)
	}

	_, err = q.conn.ExecContext(ctx,
		`INSERT INTO payment_methods (id, user_id, promptpay_type, promptpay_id, bank_name, bank_account_number, bank_account_name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
		     promptpay_type = excluded.promptpay_type,
		     promptpay_id = excluded.promptpay_id,
		     bank_name = excluded.bank_name,
		     bank_account_number = excluded.bank_account_number,
		     bank_account_name = excluded.bank_account_name,
		     updated_at = excluded.updated_at`,
		pm.ID, pm.UserID, nullString(string(pm.PromptPayType)), nullString(promptPayID),
		nullString(pm.BankName), nullString(accountNumber), nullString(pm.BankAccountName),
		pm.CreatedAt.Unix(), pm.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert payment method: %w", err)
	}

	// The row may predate this call; report the stored identity.
	return q.conn.QueryRowContext(ctx,
		"SELECT id, created_at FROM payment_methods WHERE user_id = ?", pm.UserID,
	).Scan(&pm.ID, unixScanner{&pm.CreatedAt})
}

// GetPaymentMethod retrieves a user's payment method.
func (q *queries) GetPaymentMethod(ctx context.Context, userID string) (*models.PaymentMethod, error) {
	var (
		pm                                   models.PaymentMethod
		ppType, ppID, bank, number, acctName sql.NullString
		createdAt, updatedAt                 int64
	)
	err := q.conn.QueryRowContext(ctx,
		`SELECT id, user_id, promptpay_type, promptpay_id, bank_name, bank_account_number, bank_account_name, created_at, updated_at
		 FROM payment_methods WHERE user_id = ?`,
		userID,
	).Scan(&pm.ID, &pm.UserID, &ppType, &ppID, &bank, &number, &acctName, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment method for %s: %w", userID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment method: %w", err)
	}

	if pm.PromptPayID, err = q.open(ppID.String); err != nil {
		return nil, fmt.Errorf("failed to open promptpay id: %w", err)
	}
	if pm.BankAccountNumber, err = q.open(number.String); err != nil {
		return nil, fmt.Errorf("failed to open bank account number: %w", err)
	}
	pm.PromptPayType = models.PromptPayType(ppType.String)
	pm.BankName = bank.String
	pm.BankAccountName = acctName.String
	pm.CreatedAt = time.Unix(createdAt, 0)
	pm.UpdatedAt = time.Unix(updatedAt, 0)
	return &pm, nil
}

// DeletePaymentMethod removes a user's payment method.
func (q *queries) DeletePaymentMethod(ctx context.Context, userID string) error {
	res, err := q.conn.ExecContext(ctx, "DELETE FROM payment_methods WHERE user_id = ?", userID)
	if err != nil {
		return fmt.Errorf("failed to delete payment method: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("payment method for %s: %w", userID, storage.ErrNotFound)
	}
	return nil
}

func (q *queries) seal(v string) (string, error) {
	if v == "" || q.sealer == nil {
		return v, nil
	}
	return q.sealer.Seal(v)
}

func (q *queries) open(v string) (string, error) {
	if v == "" || q.sealer == nil {
		return v, nil
	}
	return q.sealer.Open(v)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// unixScanner scans an INTEGER unix timestamp into a time.Time.
type unixScanner struct {
	t *time.Time
}

func (u unixScanner) Scan(src any) error {
	v, ok := src.(int64)
	if !ok {
		return fmt.Errorf("unexpected timestamp type %T", src)
	}
	*u.t = time.Unix(v, 0)
	return nil
}
