package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate represents an issued certificate for course completion
type Certificate struct {
	gorm.Model
	UserID            uint      `json:"user_id" gorm:"uniqueIndex:idx_certificate_user_course;not null"`
	CourseID          uint      `json:"course_id" gorm:"uniqueIndex:idx_certificate_user_course;not null"`
	EnrollmentID      uint      `json:"enrollment_id" gorm:"index"`
	CertificateURL    string    `json:"certificate_url"`
	CertificateNumber string    `json:"certificate_number" gorm:"type:varchar(32);uniqueIndex;not null"`
	IssuedAt          time.Time `json:"issued_at"`
}
