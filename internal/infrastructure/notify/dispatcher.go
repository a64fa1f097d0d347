package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/backoffice/internal/domain/notification"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewRedisClient creates a Redis client from configuration and verifies
// the connection.
func NewRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 3,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// RedisDispatcher implements notification.Dispatcher. Messages are
// persisted as rows and their IDs pushed onto a per-recipient Redis
// list so readers can drain their queue without scanning the table.
type RedisDispatcher struct {
	db     *gorm.DB
	client *redis.Client
	logger *zap.Logger
}

// NewRedisDispatcher creates a new RedisDispatcher
func NewRedisDispatcher(db *gorm.DB, client *redis.Client, logger *zap.Logger) *RedisDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisDispatcher{db: db, client: client, logger: logger}
}

// pendingKey returns the Redis key for a recipient's pending queue
func (d *RedisDispatcher) pendingKey(tenantID, recipientID uuid.UUID) string {
	return "message:pending:" + tenantID.String() + ":" + recipientID.String()
}

// Dispatch stores the message and pushes it onto the recipient's queue.
// A failed queue push is logged but does not fail the dispatch; the row
// remains the source of truth.
func (d *RedisDispatcher) Dispatch(ctx context.Context, msg *notification.Message) error {
	if msg == nil {
		return shared.ErrInvalidInput
	}
	if err := d.db.WithContext(ctx).Create(msg).Error; err != nil {
		return err
	}
	key := d.pendingKey(msg.TenantID, msg.RecipientID)
	if err := d.client.RPush(ctx, key, msg.ID.String()).Err(); err != nil {
		d.logger.Warn("failed to push message onto pending queue",
			zap.String("message_id", msg.ID.String()),
			zap.String("recipient_id", msg.RecipientID.String()),
			zap.Error(err))
	}
	return nil
}

// Retract removes still-pending todos carrying the correlation tag. The
// rows are deleted and each recipient's queue entry removed.
func (d *RedisDispatcher) Retract(ctx context.Context, tenantID uuid.UUID, correlationTag string) (int64, error) {
	if correlationTag == "" {
		return 0, shared.ErrInvalidInput
	}
	var messages []notification.Message
	if err := d.db.WithContext(ctx).
		Where("tenant_id = ? AND correlation_tag = ? AND type = ? AND status = ?",
			tenantID, correlationTag, notification.TypeTodo, notification.StatusUnread).
		Find(&messages).Error; err != nil {
		return 0, err
	}
	if len(messages) == 0 {
		return 0, nil
	}

	ids := make([]uuid.UUID, 0, len(messages))
	for _, msg := range messages {
		ids = append(ids, msg.ID)
	}
	if err := d.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Delete(&notification.Message{}).Error; err != nil {
		return 0, err
	}

	for _, msg := range messages {
		key := d.pendingKey(tenantID, msg.RecipientID)
		if err := d.client.LRem(ctx, key, 0, msg.ID.String()).Err(); err != nil {
			d.logger.Warn("failed to remove retracted message from queue",
				zap.String("message_id", msg.ID.String()),
				zap.Error(err))
		}
	}
	return int64(len(messages)), nil
}

// Pending returns the recipient's queued messages, oldest first. The
// queue holds IDs only; rows that were deleted since queuing are
// dropped from the queue on read.
func (d *RedisDispatcher) Pending(ctx context.Context, tenantID, recipientID uuid.UUID, limit int) ([]notification.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	key := d.pendingKey(tenantID, recipientID)
	rawIDs, err := d.client.LRange(ctx, key, 0, int64(limit-1)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}
	if len(rawIDs) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			d.client.LRem(ctx, key, 0, raw)
			continue
		}
		ids = append(ids, id)
	}

	var messages []notification.Message
	if err := d.db.WithContext(ctx).
		Where("tenant_id = ? AND recipient_id = ? AND id IN ?", tenantID, recipientID, ids).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}

	found := make(map[uuid.UUID]bool, len(messages))
	for _, msg := range messages {
		found[msg.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			d.client.LRem(ctx, key, 0, id.String())
		}
	}
	return messages, nil
}

// MarkRead marks a message as read and drops it from the queue
func (d *RedisDispatcher) MarkRead(ctx context.Context, tenantID, recipientID, messageID uuid.UUID) error {
	result := d.db.WithContext(ctx).Model(&notification.Message{}).
		Where("tenant_id = ? AND recipient_id = ? AND id = ?", tenantID, recipientID, messageID).
		Update("status", notification.StatusRead)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	key := d.pendingKey(tenantID, recipientID)
	if err := d.client.LRem(ctx, key, 0, messageID.String()).Err(); err != nil {
		d.logger.Warn("failed to remove read message from queue",
			zap.String("message_id", messageID.String()),
			zap.Error(err))
	}
	return nil
}

// Ensure RedisDispatcher implements notification.Dispatcher
var _ notification.Dispatcher = (*RedisDispatcher)(nil)
