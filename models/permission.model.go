package models

import (
	"gorm.io/gorm"
)

// Permission grants a single capability to a user, e.g. "review-enrollments"
type Permission struct {
	gorm.Model
	UserID     uint   `gorm:"not null;index"`
	User       User   `gorm:"foreignKey:UserID" json:"-"`
	Role       string `gorm:"type:varchar(20)"`
	Permission string `gorm:"type:varchar(255)"`
	IsDeleted  bool   `gorm:"default:false"`
}

const (
	PermEnroll            = "enroll"
	PermLearn             = "learn"
	PermApplyInternship   = "apply-internship"
	PermReviewEnrollments = "review-enrollments"
	PermReviewApplication = "review-applications"
	PermManageCatalog     = "manage-catalog"
	PermViewDashboard     = "view-dashboard"
)

// DefaultPermissions returns the capability set seeded for a role
func DefaultPermissions(role string) []string {
	if role == RoleAdmin {
		return []string{
			PermReviewEnrollments,
			PermReviewApplication,
			PermManageCatalog,
			PermViewDashboard,
		}
	}
	return []string{
		PermEnroll,
		PermLearn,
		PermApplyInternship,
	}
}
