package notify

import (
	"context"
	"sync"

	"github.com/erp/backoffice/internal/domain/notification"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// InMemoryDispatcher provides an in-memory implementation for testing
// and single-instance development setups.
type InMemoryDispatcher struct {
	mu       sync.RWMutex
	messages map[uuid.UUID]*notification.Message
	queues   map[string][]uuid.UUID
}

// NewInMemoryDispatcher creates a new in-memory dispatcher
func NewInMemoryDispatcher() *InMemoryDispatcher {
	return &InMemoryDispatcher{
		messages: make(map[uuid.UUID]*notification.Message),
		queues:   make(map[string][]uuid.UUID),
	}
}

func queueKey(tenantID, recipientID uuid.UUID) string {
	return tenantID.String() + ":" + recipientID.String()
}

// Dispatch stores the message and appends it to the recipient's queue
func (d *InMemoryDispatcher) Dispatch(_ context.Context, msg *notification.Message) error {
	if msg == nil {
		return shared.ErrInvalidInput
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	stored := *msg
	d.messages[msg.ID] = &stored
	key := queueKey(msg.TenantID, msg.RecipientID)
	d.queues[key] = append(d.queues[key], msg.ID)
	return nil
}

// Retract removes still-pending todos carrying the correlation tag
func (d *InMemoryDispatcher) Retract(_ context.Context, tenantID uuid.UUID, correlationTag string) (int64, error) {
	if correlationTag == "" {
		return 0, shared.ErrInvalidInput
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	var retracted int64
	for id, msg := range d.messages {
		if msg.TenantID != tenantID ||
			msg.CorrelationTag != correlationTag ||
			msg.Type != notification.TypeTodo ||
			msg.Status != notification.StatusUnread {
			continue
		}
		delete(d.messages, id)
		key := queueKey(tenantID, msg.RecipientID)
		d.queues[key] = removeID(d.queues[key], id)
		retracted++
	}
	return retracted, nil
}

// Pending returns the recipient's queued messages, oldest first
func (d *InMemoryDispatcher) Pending(_ context.Context, tenantID, recipientID uuid.UUID, limit int) ([]notification.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	key := queueKey(tenantID, recipientID)
	var result []notification.Message
	for _, id := range d.queues[key] {
		if msg, ok := d.messages[id]; ok {
			result = append(result, *msg)
			if len(result) >= limit {
				break
			}
		}
	}
	return result, nil
}

// MarkRead marks a message as read and drops it from the queue
func (d *InMemoryDispatcher) MarkRead(_ context.Context, tenantID, recipientID, messageID uuid.UUID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	msg, ok := d.messages[messageID]
	if !ok || msg.TenantID != tenantID || msg.RecipientID != recipientID {
		return shared.ErrNotFound
	}
	msg.MarkRead()
	key := queueKey(tenantID, recipientID)
	d.queues[key] = removeID(d.queues[key], messageID)
	return nil
}

func removeID(ids []uuid.UUID, target uuid.UUID) []uuid.UUID {
	result := ids[:0]
	for _, id := range ids {
		if id != target {
			result = append(result, id)
		}
	}
	return result
}

// Ensure InMemoryDispatcher implements notification.Dispatcher
var _ notification.Dispatcher = (*InMemoryDispatcher)(nil)
