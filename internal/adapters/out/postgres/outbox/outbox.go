// Package outbox persists domain events in the same transaction as the
// state change that produced them. A relay job later reads unpublished
// rows and hands them to the message broker, giving at-least-once delivery
// without distributed transactions.
package outbox

import (
	"context"
	"time"

	"ordercore/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageDTO represents one staged domain event.
type MessageDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string
	StoreID     int64 `gorm:"index"`
	OrderID     int64
	Payload     []byte `gorm:"type:jsonb"`
	CreatedAt   time.Time
	PublishedAt *time.Time `gorm:"index"`
}

// TableName specifies the database table name for outbox messages.
func (MessageDTO) TableName() string {
	return "outbox_messages"
}

// FromPort converts a port-level outbox message to its database row.
func FromPort(message ports.OutboxMessage) MessageDTO {
	return MessageDTO{
		ID:        message.ID,
		Name:      message.Name,
		StoreID:   message.StoreID,
		OrderID:   message.OrderID,
		Payload:   message.Payload,
		CreatedAt: message.CreatedAt,
	}
}

// GormOutboxRepository implements ports.OutboxRepository using GORM.
type GormOutboxRepository struct {
	db *gorm.DB
}

// NewGormOutboxRepository creates a new GORM outbox repository.
func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// GetUnpublished retrieves up to limit staged messages that have not been
// handed to the broker yet, oldest first.
func (r *GormOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	var dtos []MessageDTO
	err := r.db.WithContext(ctx).
		Where("published_at IS NULL").
		Order("created_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	messages := make([]ports.OutboxMessage, 0, len(dtos))
	for _, dto := range dtos {
		messages = append(messages, ports.OutboxMessage{
			ID:        dto.ID,
			Name:      dto.Name,
			StoreID:   dto.StoreID,
			OrderID:   dto.OrderID,
			Payload:   dto.Payload,
			CreatedAt: dto.CreatedAt,
		})
	}
	return messages, nil
}

// MarkPublished stamps the given messages as handed to the broker.
func (r *GormOutboxRepository) MarkPublished(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&MessageDTO{}).
		Where("id IN ?", ids).
		Update("published_at", &now).Error
}
