package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/copter/internal/models"
	"github.com/mmynk/copter/internal/storage"
)

// AddFile tracks an attachment against a bill.
func (q *queries) AddFile(ctx context.Context, file *models.BillFile) error {
	if file.ID == "" {
		file.ID = uuid.New().String()
	}
	if file.CreatedAt.IsZero() {
		file.CreatedAt = q.now()
	}

	_, err := q.conn.ExecContext(ctx,
		`INSERT INTO bill_files (id, bill_id, file_ref, file_type, uploaded_by, created_at, deleted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		file.ID, file.BillID, file.FileRef, string(file.FileType), file.UploadedBy,
		file.CreatedAt.Unix(), unixOrNull(file.DeletedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert file: %w", err)
	}
	return nil
}

// ListFilesForCleanup lists live files on bills that reached a terminal status at or before cutoff.
func (q *queries) ListFilesForCleanup(ctx context.Context, cutoff time.Time) ([]models.BillFile, error) {
	rows, err := q.conn.QueryContext(ctx,
		`SELECT f.id, f.bill_id, f.file_ref, f.file_type, f.uploaded_by, f.created_at
		 FROM bill_files f
		 JOIN bills b ON b.id = f.bill_id
		 WHERE f.deleted_at IS NULL
		   AND b.status IN ('completed', 'cancelled')
		   AND b.updated_at <= ?
		 ORDER BY f.created_at, f.id`,
		cutoff.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	var files []models.BillFile
	for rows.Next() {
		var (
			f         models.BillFile
			fileType  string
			createdAt int64
		)
		if err := rows.Scan(&f.ID, &f.BillID, &f.FileRef, &fileType, &f.UploadedBy, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		f.FileType = models.FileType(fileType)
		f.CreatedAt = time.Unix(createdAt, 0)
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate files: %w", err)
	}
	return files, nil
}

// MarkFileDeleted stamps a file as removed from the messaging platform.
func (q *queries) MarkFileDeleted(ctx context.Context, fileID string) error {
	res, err := q.conn.ExecContext(ctx,
		"UPDATE bill_files SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL",
		sql.NullInt64{Int64: q.now().Unix(), Valid: true}, fileID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark file deleted: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("file %s: %w", fileID, storage.ErrNotFound)
	}
	return nil
}
