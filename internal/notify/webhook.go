package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// WebhookNotifier posts reminders and file deletions to the platform adapter.
type WebhookNotifier struct {
	client *resty.Client
}

var (
	_ Notifier    = (*WebhookNotifier)(nil)
	_ FileDeleter = (*WebhookNotifier)(nil)
)

// NewWebhookNotifier creates a notifier for the adapter listening at baseURL.
func NewWebhookNotifier(baseURL string, timeout time.Duration) *WebhookNotifier {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", "Copter/1.0").
		SetHeader("Content-Type", "application/json")

	return &WebhookNotifier{client: client}
}

// Remind posts r to /reminders.
func (n *WebhookNotifier) Remind(ctx context.Context, r Reminder) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(r).
		Post("/reminders")
	if err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("reminder webhook error (status %d): %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// DeleteFile posts fileRef to /files/delete.
func (n *WebhookNotifier) DeleteFile(ctx context.Context, fileRef string) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"file_ref": fileRef}).
		Post("/files/delete")
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusNotFound, http.StatusGone:
		return ErrFileGone
	case http.StatusForbidden:
		return ErrFileProtected
	}
	if resp.IsError() {
		return fmt.Errorf("file webhook error (status %d): %s", resp.StatusCode(), resp.String())
	}
	return nil
}
