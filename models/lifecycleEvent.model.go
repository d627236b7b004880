package models

import (
	"time"

	"gorm.io/datatypes"
)

// LifecycleEvent is an outbox row waiting for the notification dispatcher
type LifecycleEvent struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	EventType   string         `json:"event_type" gorm:"type:varchar(50);index;not null"`
	UserID      uint           `json:"user_id" gorm:"index"`
	Payload     datatypes.JSON `json:"payload"`
	OccurredAt  time.Time      `json:"occurred_at" gorm:"not null"`
	Delivered   bool           `json:"delivered" gorm:"index;default:false"`
	DeliveredAt *time.Time     `json:"delivered_at"`
	Attempts    int            `json:"attempts" gorm:"default:0"`
	LastError   string         `json:"last_error" gorm:"type:text"`

	// SentChannels lists channels that already accepted the event; retries skip them
	SentChannels datatypes.JSON `json:"sent_channels"`
}

func (LifecycleEvent) TableName() string {
	return "lifecycle_events"
}
