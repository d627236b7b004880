package catalog

import (
	"context"
	"errors"
	"fmt"
	courseModels "learnhub/models/course"
	internshipModels "learnhub/models/internship"
	"learnhub/services/shared"

	"gorm.io/gorm"
)

type CourseInput struct {
	Title                     string
	Description               string
	Author                    string
	Price                     float64
	ThumbnailURL              string
	RequireSequentialProgress bool
	RequireFinalAssessment    bool
}

type SessionInput struct {
	Title                   string
	Type                    courseModels.SessionType
	ContentURL              string
	OrderIndex              int
	DurationSeconds         int
	RequiredWatchPercentage int
	PassingScore            int
	IsFree                  bool
}

type OptionInput struct {
	Text      string
	IsCorrect bool
}

func (s *Service) CreateCourse(ctx context.Context, in CourseInput) (*courseModels.Course, error) {
	course := courseModels.Course{
		Title:                     in.Title,
		Description:               in.Description,
		Author:                    in.Author,
		Price:                     in.Price,
		ThumbnailURL:              in.ThumbnailURL,
		RequireSequentialProgress: in.RequireSequentialProgress,
		RequireFinalAssessment:    in.RequireFinalAssessment,
	}
	if err := s.db.WithContext(ctx).Create(&course).Error; err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	// gorm skips zero values that have a column default
	if !in.RequireSequentialProgress {
		if err := s.db.WithContext(ctx).Model(&course).Update("require_sequential_progress", false).Error; err != nil {
			return nil, fmt.Errorf("create course: %w", err)
		}
	}
	return &course, nil
}

func (s *Service) PublishCourse(ctx context.Context, courseID uint, publish bool) error {
	res := s.db.WithContext(ctx).Model(&courseModels.Course{}).
		Where("id = ? AND is_deleted = ?", courseID, false).
		Update("is_published", publish)
	if res.Error != nil {
		return fmt.Errorf("publish course %d: %w", courseID, res.Error)
	}
	if res.RowsAffected == 0 {
		return shared.NewError(domain, "PublishCourse", shared.ErrNotFound, "course %d not found", courseID)
	}
	return nil
}

// SetFinalAssessment designates a quiz or assignment session of the course
// as the one gating certificates.
func (s *Service) SetFinalAssessment(ctx context.Context, courseID, sessionID uint) error {
	var sess courseModels.Session
	if err := s.db.WithContext(ctx).Where("id = ? AND course_id = ? AND is_deleted = ?", sessionID, courseID, false).First(&sess).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.NewError(domain, "SetFinalAssessment", shared.ErrNotFound, "session %d not in course %d", sessionID, courseID)
		}
		return fmt.Errorf("load session %d: %w", sessionID, err)
	}
	if !sess.SessionType.IsAssessed() {
		return shared.NewError(domain, "SetFinalAssessment", shared.ErrInvalidInput, "session %d is %s, not an assessment", sessionID, sess.SessionType)
	}
	return s.db.WithContext(ctx).Model(&courseModels.Course{}).Where("id = ?", courseID).
		Updates(map[string]interface{}{
			"final_assessment_session_id": sessionID,
			"require_final_assessment":    true,
		}).Error
}

func (s *Service) CreateModule(ctx context.Context, courseID uint, title, description string, orderIndex int) (*courseModels.Module, error) {
	db := s.db.WithContext(ctx)
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&courseModels.Course{}).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewError(domain, "CreateModule", shared.ErrNotFound, "course %d not found", courseID)
		}
		return nil, fmt.Errorf("load course %d: %w", courseID, err)
	}

	// Get the next order index if not provided
	if orderIndex == 0 {
		var maxOrder int
		db.Model(&courseModels.Module{}).
			Where("course_id = ? AND is_deleted = ?", courseID, false).
			Select("COALESCE(MAX(order_index), 0)").Scan(&maxOrder)
		orderIndex = maxOrder + 1
	}

	module := courseModels.Module{
		CourseID:    courseID,
		Title:       title,
		Description: description,
		OrderIndex:  orderIndex,
	}
	if err := db.Create(&module).Error; err != nil {
		return nil, fmt.Errorf("create module: %w", err)
	}
	return &module, nil
}

func (s *Service) CreateSession(ctx context.Context, moduleID uint, in SessionInput) (*courseModels.Session, error) {
	if !in.Type.Valid() {
		return nil, shared.NewError(domain, "CreateSession", shared.ErrInvalidInput, "unknown session type %q", in.Type)
	}
	if in.Type.IsWatchable() && in.DurationSeconds <= 0 {
		return nil, shared.NewError(domain, "CreateSession", shared.ErrInvalidInput, "%s sessions need a duration", in.Type)
	}
	if in.RequiredWatchPercentage < 0 || in.RequiredWatchPercentage > 100 || in.PassingScore < 0 || in.PassingScore > 100 {
		return nil, shared.NewError(domain, "CreateSession", shared.ErrInvalidInput, "thresholds must be between 0 and 100")
	}

	db := s.db.WithContext(ctx)
	var module courseModels.Module
	if err := db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewError(domain, "CreateSession", shared.ErrNotFound, "module %d not found", moduleID)
		}
		return nil, fmt.Errorf("load module %d: %w", moduleID, err)
	}

	orderIndex := in.OrderIndex
	if orderIndex == 0 {
		var maxOrder int
		db.Model(&courseModels.Session{}).
			Where("module_id = ? AND is_deleted = ?", moduleID, false).
			Select("COALESCE(MAX(order_index), 0)").Scan(&maxOrder)
		orderIndex = maxOrder + 1
	}

	session := courseModels.Session{
		CourseID:                module.CourseID,
		ModuleID:                module.ID,
		Title:                   in.Title,
		SessionType:             in.Type,
		ContentURL:              in.ContentURL,
		OrderIndex:              orderIndex,
		DurationSeconds:         in.DurationSeconds,
		RequiredWatchPercentage: in.RequiredWatchPercentage,
		PassingScore:            in.PassingScore,
		IsFree:                  in.IsFree,
	}
	if err := db.Create(&session).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &session, nil
}

func (s *Service) AddQuizQuestion(ctx context.Context, sessionID uint, prompt string, points int, options []OptionInput) (*courseModels.QuizQuestion, error) {
	if points <= 0 {
		points = 1
	}
	hasCorrect := false
	for _, o := range options {
		hasCorrect = hasCorrect || o.IsCorrect
	}
	if len(options) < 2 || !hasCorrect {
		return nil, shared.NewError(domain, "AddQuizQuestion", shared.ErrInvalidInput, "a question needs at least two options and one correct answer")
	}

	var session courseModels.Session
	if err := s.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", sessionID, false).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewError(domain, "AddQuizQuestion", shared.ErrNotFound, "session %d not found", sessionID)
		}
		return nil, fmt.Errorf("load session %d: %w", sessionID, err)
	}
	if !session.SessionType.IsAssessed() {
		return nil, shared.NewError(domain, "AddQuizQuestion", shared.ErrInvalidInput, "session %d is %s, not an assessment", sessionID, session.SessionType)
	}

	question := courseModels.QuizQuestion{
		SessionID: sessionID,
		Prompt:    prompt,
		Points:    points,
	}
	for i, o := range options {
		question.Options = append(question.Options, courseModels.QuizOption{
			OptionText: o.Text,
			IsCorrect:  o.IsCorrect,
			OrderIndex: i + 1,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		tx.Model(&courseModels.QuizQuestion{}).Where("session_id = ? AND is_deleted = ?", sessionID, false).Count(&count)
		question.OrderIndex = int(count) + 1
		return tx.Create(&question).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create quiz question: %w", err)
	}
	return &question, nil
}

func (s *Service) CreateInternship(ctx context.Context, title, company, description string, fee float64) (*internshipModels.Internship, error) {
	in := internshipModels.Internship{
		Title:       title,
		Company:     company,
		Description: description,
		HasFee:      fee > 0,
		Fee:         fee,
	}
	if err := s.db.WithContext(ctx).Create(&in).Error; err != nil {
		return nil, fmt.Errorf("create internship: %w", err)
	}
	return &in, nil
}

func (s *Service) PublishInternship(ctx context.Context, internshipID uint, publish bool) error {
	res := s.db.WithContext(ctx).Model(&internshipModels.Internship{}).
		Where("id = ? AND is_deleted = ?", internshipID, false).
		Update("is_published", publish)
	if res.Error != nil {
		return fmt.Errorf("publish internship %d: %w", internshipID, res.Error)
	}
	if res.RowsAffected == 0 {
		return shared.NewError(domain, "PublishInternship", shared.ErrNotFound, "internship %d not found", internshipID)
	}
	return nil
}
