// Package audit appends state transitions to the audit trail. Writes are
// best effort: a failure is logged and never surfaces to the transition.
package audit

import (
	"context"
	"learnhub/models"
	"log/slog"
	"time"

	"gorm.io/gorm"
)

const (
	EntityEnrollment  = "ENROLLMENT"
	EntityApplication = "APPLICATION"
)

// Actor identifies who caused a transition. ID 0 means the system.
type Actor struct {
	ID   uint
	Role string
}

var System = Actor{Role: "SYSTEM"}

type Trail struct {
	db *gorm.DB
}

func NewTrail(db *gorm.DB) *Trail {
	return &Trail{db: db}
}

// Append records one transition.
func (t *Trail) Append(ctx context.Context, entityType string, entityID uint, from, to string, actor Actor, reason string) {
	entry := models.AuditEntry{
		EntityType: entityType,
		EntityID:   entityID,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Reason:     reason,
		OccurredAt: time.Now(),
	}
	if err := t.db.WithContext(ctx).Create(&entry).Error; err != nil {
		slog.Warn("audit append failed",
			"entity", entityType, "entity_id", entityID, "from", from, "to", to, "error", err)
	}
}

// List returns the trail of one entity, oldest first.
func (t *Trail) List(ctx context.Context, entityType string, entityID uint) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	err := t.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("id asc").
		Find(&entries).Error
	return entries, err
}
