// Package assessment grades quiz attempts and feeds passes into progress.
package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	courseModels "learnhub/models/course"
	"learnhub/services/catalog"
	"learnhub/services/progress"
	"learnhub/services/shared"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const domain = "assessment"

// Engine is the progress surface an attempt goes through.
type Engine interface {
	CheckUnlocked(ctx context.Context, studentID, courseID, sessionID uint) (catalog.SessionInfo, error)
	RecordPassingAttempt(ctx context.Context, studentID, courseID, sessionID uint, score int) (*progress.CompletionResult, error)
}

type Service struct {
	db      *gorm.DB
	catalog catalog.Reader
	engine  Engine
	now     func() time.Time
}

func NewService(db *gorm.DB, reader catalog.Reader, engine Engine) *Service {
	return &Service{db: db, catalog: reader, engine: engine, now: time.Now}
}

type AttemptResult struct {
	Attempt    *courseModels.QuizAttempt  `json:"attempt"`
	Completion *progress.CompletionResult `json:"completion,omitempty"`
}

// SubmitQuizAttempt grades and stores one attempt on an open quiz or
// assignment. A passing attempt completes the session.
func (s *Service) SubmitQuizAttempt(ctx context.Context, studentID, courseID, sessionID uint, answers map[uint][]uint) (*AttemptResult, error) {
	sess, err := s.engine.CheckUnlocked(ctx, studentID, courseID, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Type.IsAssessed() {
		return nil, shared.NewError(domain, "Submit", shared.ErrInvalidInput, "session %d is not assessed", sessionID)
	}

	key, err := s.catalog.GetAnswerKey(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	score := Score(key, answers)

	raw, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("encode answers: %w", err)
	}

	var previous int64
	if err := s.db.WithContext(ctx).Model(&courseModels.QuizAttempt{}).
		Where("user_id = ? AND session_id = ?", studentID, sessionID).
		Count(&previous).Error; err != nil {
		return nil, fmt.Errorf("count attempts: %w", err)
	}

	attempt := courseModels.QuizAttempt{
		UserID:        studentID,
		SessionID:     sessionID,
		CourseID:      courseID,
		AttemptNumber: int(previous) + 1,
		Answers:       datatypes.JSON(raw),
		Score:         score,
		Passed:        score >= sess.PassingScore,
		SubmittedAt:   s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&attempt).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, shared.NewError(domain, "Submit", shared.ErrConcurrentModification,
				"attempt %d on session %d was submitted concurrently", attempt.AttemptNumber, sessionID)
		}
		return nil, fmt.Errorf("store attempt: %w", err)
	}

	result := &AttemptResult{Attempt: &attempt}
	if attempt.Passed {
		result.Completion, err = s.engine.RecordPassingAttempt(ctx, studentID, courseID, sessionID, score)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ListAttempts returns the student's attempts on a session, latest first.
func (s *Service) ListAttempts(ctx context.Context, studentID, sessionID uint) ([]courseModels.QuizAttempt, error) {
	var attempts []courseModels.QuizAttempt
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND session_id = ?", studentID, sessionID).
		Order("attempt_number desc").
		Find(&attempts).Error
	return attempts, err
}

// FinalAssessmentPassed reports whether the course's final assessment, if
// it has one, holds a passing attempt by the student.
func (s *Service) FinalAssessmentPassed(ctx context.Context, studentID, courseID uint) (bool, error) {
	structure, err := s.catalog.GetCourseStructure(ctx, courseID)
	if err != nil {
		return false, err
	}
	if !structure.RequireFinalAssessment {
		return true, nil
	}
	if structure.FinalAssessmentSessionID == 0 {
		return false, nil
	}

	var passed int64
	err = s.db.WithContext(ctx).Model(&courseModels.QuizAttempt{}).
		Where("user_id = ? AND session_id = ? AND passed = ?", studentID, structure.FinalAssessmentSessionID, true).
		Count(&passed).Error
	if err != nil {
		return false, fmt.Errorf("count passing attempts: %w", err)
	}
	return passed > 0, nil
}
