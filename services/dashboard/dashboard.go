// Package dashboard aggregates the numbers shown on the admin dashboard.
package dashboard

import (
	"context"
	"fmt"
	"learnhub/models"
	courseModels "learnhub/models/course"
	internshipModels "learnhub/models/internship"
	"time"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

type Stats struct {
	TotalStudents         int64            `json:"total_students"`
	PublishedCourses      int64            `json:"published_courses"`
	EnrollmentsByStatus   map[string]int64 `json:"enrollments_by_status"`
	ApplicationsByStatus  map[string]int64 `json:"applications_by_status"`
	EnrollmentsToday      int64            `json:"enrollments_today"`
	CertificatesThisMonth int64            `json:"certificates_this_month"`
	PendingEnrollments    int64            `json:"pending_enrollment_reviews"`
	PendingApplications   int64            `json:"pending_application_reviews"`
}

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

type statusCount struct {
	Status string
	Count  int64
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	db := s.db.WithContext(ctx)
	at := now.With(s.now())
	stats := &Stats{
		EnrollmentsByStatus:  map[string]int64{},
		ApplicationsByStatus: map[string]int64{},
	}

	if err := db.Model(&models.User{}).Where("role = ? AND is_deleted = ?", models.RoleStudent, false).Count(&stats.TotalStudents).Error; err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}
	if err := db.Model(&courseModels.Course{}).Where("is_published = ? AND is_deleted = ?", true, false).Count(&stats.PublishedCourses).Error; err != nil {
		return nil, fmt.Errorf("count courses: %w", err)
	}

	var rows []statusCount
	if err := db.Model(&courseModels.Enrollment{}).Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("group enrollments: %w", err)
	}
	for _, r := range rows {
		stats.EnrollmentsByStatus[r.Status] = r.Count
	}
	stats.PendingEnrollments = stats.EnrollmentsByStatus[string(courseModels.EnrollmentPaymentPending)] +
		stats.EnrollmentsByStatus[string(courseModels.EnrollmentUnderReview)]

	rows = nil
	if err := db.Model(&internshipModels.Application{}).Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("group applications: %w", err)
	}
	for _, r := range rows {
		stats.ApplicationsByStatus[r.Status] = r.Count
	}
	stats.PendingApplications = stats.ApplicationsByStatus[string(internshipModels.ApplicationSubmitted)] +
		stats.ApplicationsByStatus[string(internshipModels.ApplicationUnderReview)]

	if err := db.Model(&courseModels.Enrollment{}).
		Where("enrolled_at >= ? AND enrolled_at < ?", at.BeginningOfDay(), at.EndOfDay()).
		Count(&stats.EnrollmentsToday).Error; err != nil {
		return nil, fmt.Errorf("count today's enrollments: %w", err)
	}
	if err := db.Model(&courseModels.Certificate{}).
		Where("issued_at >= ? AND issued_at < ?", at.BeginningOfMonth(), at.EndOfMonth()).
		Count(&stats.CertificatesThisMonth).Error; err != nil {
		return nil, fmt.Errorf("count certificates: %w", err)
	}
	return stats, nil
}
