package internship

import (
	"context"
	"errors"
	"fmt"
	"learnhub/models"
	internshipModels "learnhub/models/internship"
	"learnhub/services/audit"
	"learnhub/services/shared"

	"gorm.io/gorm"
)

func (s *Service) Get(ctx context.Context, applicationID uint) (*internshipModels.Application, error) {
	var app internshipModels.Application
	if err := s.db.WithContext(ctx).First(&app, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewError(domain, "Get", shared.ErrNotFound, "application %d not found", applicationID)
		}
		return nil, fmt.Errorf("load application %d: %w", applicationID, err)
	}
	return &app, nil
}

type ListFilter struct {
	Status       Status
	InternshipID uint
	Page         int
	Limit        int
}

func (s *Service) ListByStatus(ctx context.Context, f ListFilter) ([]internshipModels.Application, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}

	db := s.db.WithContext(ctx).Model(&internshipModels.Application{})
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if f.InternshipID != 0 {
		db = db.Where("internship_id = ?", f.InternshipID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}
	var apps []internshipModels.Application
	if err := db.Offset((f.Page - 1) * f.Limit).Limit(f.Limit).Order("submitted_at desc, id desc").Find(&apps).Error; err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}
	return apps, total, nil
}

func (s *Service) ListForStudent(ctx context.Context, studentID uint) ([]internshipModels.Application, error) {
	var apps []internshipModels.Application
	err := s.db.WithContext(ctx).Where("user_id = ?", studentID).Order("submitted_at desc, id desc").Find(&apps).Error
	return apps, err
}

func (s *Service) AuditTrail(ctx context.Context, applicationID uint) ([]models.AuditEntry, error) {
	return s.trail.List(ctx, audit.EntityApplication, applicationID)
}
