package enrollment

import (
	"context"
	"errors"
	"fmt"
	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/services/audit"
	"learnhub/services/shared"

	"gorm.io/gorm"
)

func (s *Service) Get(ctx context.Context, enrollmentID uint) (*courseModels.Enrollment, error) {
	var e courseModels.Enrollment
	if err := s.db.WithContext(ctx).First(&e, enrollmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewError(domain, "Get", shared.ErrNotFound, "enrollment %d not found", enrollmentID)
		}
		return nil, fmt.Errorf("load enrollment %d: %w", enrollmentID, err)
	}
	return &e, nil
}

// FindAccessible returns the enrollment that lets the student open the
// course's content, or ErrAccessDenied.
func (s *Service) FindAccessible(ctx context.Context, studentID, courseID uint) (*courseModels.Enrollment, error) {
	var e courseModels.Enrollment
	err := s.db.WithContext(ctx).Where("seat_key = ?", *seatKey(studentID, courseID)).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.NewError(domain, "FindAccessible", shared.ErrAccessDenied, "student %d is not enrolled in course %d", studentID, courseID)
	}
	if err != nil {
		return nil, fmt.Errorf("load enrollment of student %d: %w", studentID, err)
	}
	if !e.Status.GrantsAccess() {
		return nil, shared.NewError(domain, "FindAccessible", shared.ErrAccessDenied, "enrollment %d is %s", e.ID, e.Status)
	}
	return &e, nil
}

// ListFilter narrows the admin enrollment listing.
type ListFilter struct {
	Status   courseModels.EnrollmentStatus // empty for all
	CourseID uint                          // 0 for all
	Page     int
	Limit    int
}

func (s *Service) ListByStatus(ctx context.Context, f ListFilter) ([]courseModels.Enrollment, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}

	db := s.db.WithContext(ctx).Model(&courseModels.Enrollment{})
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if f.CourseID != 0 {
		db = db.Where("course_id = ?", f.CourseID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count enrollments: %w", err)
	}

	var enrollments []courseModels.Enrollment
	if err := db.Offset((f.Page - 1) * f.Limit).Limit(f.Limit).Order("created_at desc, id desc").Find(&enrollments).Error; err != nil {
		return nil, 0, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, total, nil
}

func (s *Service) ListForStudent(ctx context.Context, studentID uint) ([]courseModels.Enrollment, error) {
	var enrollments []courseModels.Enrollment
	err := s.db.WithContext(ctx).Where("user_id = ?", studentID).Order("created_at desc, id desc").Find(&enrollments).Error
	return enrollments, err
}

func (s *Service) AuditTrail(ctx context.Context, enrollmentID uint) ([]models.AuditEntry, error) {
	return s.trail.List(ctx, audit.EntityEnrollment, enrollmentID)
}
