// Package events defines the lifecycle events the learning core emits and
// the publishers that carry them to the notification dispatcher.
package events

import (
	"context"
	"encoding/json"
	"learnhub/models"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"
)

// Type names a lifecycle event.
type Type string

const (
	EnrollmentRequested      Type = "enrollmentRequested"
	EnrollmentActivated      Type = "enrollmentActivated"
	EnrollmentPaymentPending Type = "enrollmentPaymentPending"
	PaymentEvidenceSubmitted Type = "paymentEvidenceSubmitted"
	EnrollmentApproved       Type = "enrollmentApproved"
	EnrollmentRejected       Type = "enrollmentRejected"
	EnrollmentRefunded       Type = "enrollmentRefunded"
	EnrollmentCancelled      Type = "enrollmentCancelled"
	CourseCompleted          Type = "courseCompleted"
	CertificateIssued        Type = "certificateIssued"
	ApplicationSubmitted     Type = "applicationSubmitted"
	ApplicationUnderReview   Type = "applicationUnderReview"
	ApplicationDecided       Type = "applicationDecided"
)

// Event is the payload handed to notification collaborators.
type Event struct {
	Type              Type      `json:"type"`
	UserID            uint      `json:"user_id"`
	CourseID          uint      `json:"course_id,omitempty"`
	EnrollmentID      uint      `json:"enrollment_id,omitempty"`
	InternshipID      uint      `json:"internship_id,omitempty"`
	ApplicationID     uint      `json:"application_id,omitempty"`
	Status            string    `json:"status,omitempty"`
	Reason            string    `json:"reason,omitempty"`
	CertificateNumber string    `json:"certificate_number,omitempty"`
	OccurredAt        time.Time `json:"occurred_at"`
}

// Publisher is fire-and-forget: it never reports failure to the caller.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// OutboxPublisher appends events to the lifecycle_events table.
type OutboxPublisher struct {
	db *gorm.DB
}

func NewOutboxPublisher(db *gorm.DB) *OutboxPublisher {
	return &OutboxPublisher{db: db}
}

func (p *OutboxPublisher) Publish(ctx context.Context, e Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	payload, err := json.Marshal(e)
	if err != nil {
		slog.Error("encode lifecycle event", "type", e.Type, "error", err)
		return
	}
	row := models.LifecycleEvent{
		EventType:  string(e.Type),
		UserID:     e.UserID,
		Payload:    payload,
		OccurredAt: e.OccurredAt,
	}
	if err := p.db.WithContext(ctx).Create(&row).Error; err != nil {
		slog.Error("store lifecycle event", "type", e.Type, "user_id", e.UserID, "error", err)
	}
}

// Recorder keeps events in memory. Useful as a Publisher in tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the published event types in order.
func (r *Recorder) Types() []Type {
	var types []Type
	for _, e := range r.Events() {
		types = append(types, e.Type)
	}
	return types
}
