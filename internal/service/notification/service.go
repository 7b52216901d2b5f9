package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/shiftwise/attendance-backend-go/internal/domain/notification"
	"github.com/shiftwise/attendance-backend-go/internal/pkg/sse"
)

const deliveryTimeout = 5 * time.Second

type service struct {
	repo notification.Repository
	hub  *sse.Hub
}

// NewNotificationService persists notifications and pushes them to any live
// SSE stream of the recipient. Persistence is bounded by its own timeout so a
// slow write never stalls the attendance pipeline that fired it.
func NewNotificationService(repo notification.Repository, hub *sse.Hub) notification.Service {
	return &service{repo: repo, hub: hub}
}

// Notify implements notification.Service.
func (s *service) Notify(ctx context.Context, n notification.Notification) error {
	nctx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()

	if err := s.repo.Create(nctx, n); err != nil {
		return fmt.Errorf("failed to persist notification: %w", err)
	}

	if s.hub != nil {
		s.hub.Publish(n.RecipientID, sse.Event{
			Event: string(n.Type),
			Data: map[string]interface{}{
				"title":   n.Title,
				"message": n.Message,
				"data":    n.Data,
			},
		})
	}

	return nil
}
