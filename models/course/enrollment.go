package course

import (
	"time"

	"gorm.io/gorm"
)

// EnrollmentStatus is the lifecycle state of a student's claim on a course
type EnrollmentStatus string

const (
	EnrollmentRequested      EnrollmentStatus = "REQUESTED"
	EnrollmentPaymentPending EnrollmentStatus = "PAYMENT_PENDING"
	EnrollmentUnderReview    EnrollmentStatus = "UNDER_REVIEW"
	EnrollmentActive         EnrollmentStatus = "ACTIVE"
	EnrollmentRejected       EnrollmentStatus = "REJECTED"
	EnrollmentCompleted      EnrollmentStatus = "COMPLETED"
	EnrollmentRefunded       EnrollmentStatus = "REFUNDED"
	EnrollmentCancelled      EnrollmentStatus = "CANCELLED"
)

// ParseEnrollmentStatus rejects anything outside the closed set
func ParseEnrollmentStatus(s string) (EnrollmentStatus, bool) {
	status := EnrollmentStatus(s)
	switch status {
	case EnrollmentRequested, EnrollmentPaymentPending, EnrollmentUnderReview,
		EnrollmentActive, EnrollmentRejected, EnrollmentCompleted,
		EnrollmentRefunded, EnrollmentCancelled:
		return status, true
	}
	return "", false
}

// IsTerminal reports whether no further transition can leave the status
func (s EnrollmentStatus) IsTerminal() bool {
	switch s {
	case EnrollmentRejected, EnrollmentCompleted, EnrollmentRefunded, EnrollmentCancelled:
		return true
	}
	return false
}

// GrantsAccess reports whether course content may be opened
func (s EnrollmentStatus) GrantsAccess() bool {
	return s == EnrollmentActive || s == EnrollmentCompleted
}

// PaymentStatus tracks the money side of an enrollment
type PaymentStatus string

const (
	PaymentFree    PaymentStatus = "FREE"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentPending PaymentStatus = "PAYMENT_PENDING"
)

// Enrollment tracks a student's enrollment in a course
type Enrollment struct {
	gorm.Model
	UserID             uint             `json:"user_id" gorm:"index;not null"`
	CourseID           uint             `json:"course_id" gorm:"index;not null"`
	Status             EnrollmentStatus `json:"status" gorm:"type:varchar(20);index;not null"`
	PaymentStatus      PaymentStatus    `json:"payment_status" gorm:"type:varchar(20);not null"`
	AmountPaid         float64          `json:"amount_paid" gorm:"default:0"`
	PaymentEvidenceRef string           `json:"payment_evidence_ref"`
	EnrolledAt         time.Time        `json:"enrolled_at"`
	DecidedAt          *time.Time       `json:"decided_at"`
	DecidedBy          *uint            `json:"decided_by"`
	DecisionReason     string           `json:"decision_reason"`
	CompletedAt        *time.Time       `json:"completed_at"`

	// SeatKey is "user:course" while the enrollment holds the seat and NULL
	// afterwards; the unique index keeps one open enrollment per pair.
	SeatKey *string `json:"-" gorm:"type:varchar(64);uniqueIndex"`
	Version int     `json:"version" gorm:"not null;default:1"`
}
