package notification

import (
	"context"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// MessageType distinguishes actionable todos from informational notices
type MessageType string

const (
	TypeTodo   MessageType = "TODO"
	TypeNotice MessageType = "NOTICE"
)

// IsValid checks if the type is a known MessageType
func (t MessageType) IsValid() bool {
	return t == TypeTodo || t == TypeNotice
}

// MessageStatus represents the read state of a message
type MessageStatus string

const (
	StatusUnread MessageStatus = "UNREAD"
	StatusRead   MessageStatus = "READ"
)

// Message is a per-user notification. The content is stored as a
// catalog key plus arguments and rendered in the recipient's locale
// when read. CorrelationTag carries the receipt number so pending
// todos can be retracted when the underlying document moves on.
type Message struct {
	shared.TenantEntity
	Type           MessageType   `gorm:"type:varchar(20);not null;index"`
	RecipientID    uuid.UUID     `gorm:"type:uuid;not null;index"`
	ContentKey     string        `gorm:"type:varchar(100);not null"`
	ContentArgs    string        `gorm:"type:varchar(500)"`
	CorrelationTag string        `gorm:"type:varchar(50);not null;index"`
	Status         MessageStatus `gorm:"type:varchar(20);not null;index"`
}

// TableName returns the table name for GORM
func (Message) TableName() string {
	return "messages"
}

// NewMessage creates an unread message
func NewMessage(tenantID, recipientID uuid.UUID, msgType MessageType, contentKey, contentArgs, correlationTag string) (*Message, error) {
	if !msgType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MESSAGE_TYPE", "Unknown message type")
	}
	if recipientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RECIPIENT", "Recipient ID cannot be empty")
	}
	if contentKey == "" {
		return nil, shared.NewDomainError("INVALID_CONTENT_KEY", "Content key cannot be empty")
	}
	return &Message{
		TenantEntity:   shared.NewTenantEntity(tenantID),
		Type:           msgType,
		RecipientID:    recipientID,
		ContentKey:     contentKey,
		ContentArgs:    contentArgs,
		CorrelationTag: correlationTag,
		Status:         StatusUnread,
	}, nil
}

// MarkRead flips the message to the read state
func (m *Message) MarkRead() {
	m.Status = StatusRead
}

// Dispatcher delivers messages to recipients and maintains the
// per-user pending queue
type Dispatcher interface {
	// Dispatch stores the message and pushes it onto the recipient's
	// pending queue.
	Dispatch(ctx context.Context, msg *Message) error
	// Retract removes still-pending todos that carry the given
	// correlation tag, across all recipients of the tenant. Returns
	// the number of messages retracted.
	Retract(ctx context.Context, tenantID uuid.UUID, correlationTag string) (int64, error)
	// Pending returns the recipient's queued messages, oldest first.
	Pending(ctx context.Context, tenantID, recipientID uuid.UUID, limit int) ([]Message, error)
	// MarkRead marks a message as read and drops it from the queue.
	MarkRead(ctx context.Context, tenantID, recipientID, messageID uuid.UUID) error
}
