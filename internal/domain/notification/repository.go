package notification

import "context"

// Repository persists notifications.
type Repository interface {
	Create(ctx context.Context, n Notification) error
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]Notification, error)
}

// Service delivers notifications. Implementations must bound their own
// timeouts; callers treat failures as log-and-continue.
type Service interface {
	Notify(ctx context.Context, n Notification) error
}
