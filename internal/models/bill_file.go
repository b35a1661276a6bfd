package models

import "time"

// FileType classifies attachments tracked against a bill.
type FileType string

const (
	FilePaymentSlip  FileType = "payment_slip"
	FileReceiptImage FileType = "receipt_image"
	FilePromptPayQR  FileType = "promptpay_qr"
)

// Valid reports whether t is a known file type.
func (t FileType) Valid() bool {
	switch t {
	case FilePaymentSlip, FileReceiptImage, FilePromptPayQR:
		return true
	}
	return false
}

// BillFile is an attachment uploaded to the messaging platform for a bill.
// Files on bills that stayed terminal long enough are swept by the cleanup job.
type BillFile struct {
	ID         string
	BillID     string
	FileRef    string
	FileType   FileType
	UploadedBy string
	CreatedAt  time.Time
	DeletedAt  *time.Time
}
