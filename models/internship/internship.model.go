package internship

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Internship is a catalog listing students can apply to
type Internship struct {
	gorm.Model
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	Description string  `json:"description"`
	HasFee      bool    `json:"has_fee" gorm:"default:false"`
	Fee         float64 `json:"fee" gorm:"default:0"`
	IsPublished bool    `json:"is_published" gorm:"default:false"`
	IsDeleted   bool    `gorm:"default:false"`
}

// ApplicationStatus is the lifecycle state of an internship application
type ApplicationStatus string

const (
	ApplicationSubmitted   ApplicationStatus = "SUBMITTED"
	ApplicationUnderReview ApplicationStatus = "UNDER_REVIEW"
	ApplicationAccepted    ApplicationStatus = "ACCEPTED"
	ApplicationRejected    ApplicationStatus = "REJECTED"
)

// ParseApplicationStatus rejects anything outside the closed set
func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	status := ApplicationStatus(s)
	switch status {
	case ApplicationSubmitted, ApplicationUnderReview, ApplicationAccepted, ApplicationRejected:
		return status, true
	}
	return "", false
}

func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationAccepted || s == ApplicationRejected
}

// Application is a student's application to an internship
type Application struct {
	gorm.Model
	UserID             uint              `json:"user_id" gorm:"index;not null"`
	InternshipID       uint              `json:"internship_id" gorm:"index;not null"`
	Status             ApplicationStatus `json:"status" gorm:"type:varchar(20);index;not null"`
	SubmittedAt        time.Time         `json:"submitted_at"`
	DecidedAt          *time.Time        `json:"decided_at"`
	DecidedBy          *uint             `json:"decided_by"`
	DecisionReason     string            `json:"decision_reason"`
	PaymentEvidenceRef string            `json:"payment_evidence_ref"`
	ResumeRef          string            `json:"resume_ref"`
	ProfileLinks       datatypes.JSON    `json:"profile_links"`

	// SeatKey is cleared on rejection so the student may apply again.
	SeatKey *string `json:"-" gorm:"type:varchar(64);uniqueIndex"`
	Version int     `json:"version" gorm:"not null;default:1"`
}

func (Application) TableName() string {
	return "internship_applications"
}
