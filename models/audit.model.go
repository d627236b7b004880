package models

import "time"

// AuditEntry is an append-only record of one state transition
type AuditEntry struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	EntityType string    `json:"entity_type" gorm:"type:varchar(30);index:idx_audit_entity;not null"` // ENROLLMENT, APPLICATION
	EntityID   uint      `json:"entity_id" gorm:"index:idx_audit_entity;not null"`
	FromStatus string    `json:"from_status" gorm:"type:varchar(20)"`
	ToStatus   string    `json:"to_status" gorm:"type:varchar(20);not null"`
	ActorID    uint      `json:"actor_id"`
	ActorRole  string    `json:"actor_role" gorm:"type:varchar(20)"`
	Reason     string    `json:"reason" gorm:"type:text"`
	OccurredAt time.Time `json:"occurred_at" gorm:"not null"`
}

func (AuditEntry) TableName() string {
	return "audit_entries"
}
