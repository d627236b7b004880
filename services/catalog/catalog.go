// Package catalog reads course and internship structure for the learning
// core and carries the admin authoring operations that populate it.
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

const domain = "catalog"

// SessionInfo is a session with its thresholds already resolved.
type SessionInfo struct {
	ID                      uint                     `json:"id"`
	ModuleID                uint                     `json:"module_id"`
	Title                   string                   `json:"title"`
	Type                    courseModels.SessionType `json:"type"`
	DurationSeconds         int                      `json:"duration_seconds"`
	RequiredWatchPercentage int                      `json:"required_watch_percentage"`
	PassingScore            int                      `json:"passing_score"`
	IsFree                  bool                     `json:"is_free"`
}

type ModuleInfo struct {
	ID       uint          `json:"id"`
	Title    string        `json:"title"`
	Sessions []SessionInfo `json:"sessions"`
}

// Structure is what the core needs to know about a course.
type Structure struct {
	CourseID                  uint         `json:"course_id"`
	Title                     string       `json:"title"`
	Price                     float64      `json:"price"`
	IsPublished               bool         `json:"is_published"`
	RequireSequentialProgress bool         `json:"require_sequential_progress"`
	RequireFinalAssessment    bool         `json:"require_final_assessment"`
	FinalAssessmentSessionID  uint         `json:"final_assessment_session_id,omitempty"`
	Modules                   []ModuleInfo `json:"modules"`
}

// Sessions flattens the course in module order, then session order.
func (s *Structure) Sessions() []SessionInfo {
	var out []SessionInfo
	for _, m := range s.Modules {
		out = append(out, m.Sessions...)
	}
	return out
}

// Session looks up one session of the course.
func (s *Structure) Session(id uint) (SessionInfo, bool) {
	for _, m := range s.Modules {
		for _, sess := range m.Sessions {
			if sess.ID == id {
				return sess, true
			}
		}
	}
	return SessionInfo{}, false
}

// KeyQuestion is one scored question with its correct option set.
type KeyQuestion struct {
	ID             uint   `json:"id"`
	Points         int    `json:"points"`
	CorrectOptions []uint `json:"-"`
}

type AnswerKey struct {
	SessionID uint          `json:"session_id"`
	Questions []KeyQuestion `json:"questions"`
}

// Reader is the read-only surface the learning services consume.
type Reader interface {
	GetCourseStructure(ctx context.Context, courseID uint) (*Structure, error)
	GetAnswerKey(ctx context.Context, sessionID uint) (*AnswerKey, error)
	GetInternship(ctx context.Context, internshipID uint) (*internshipModels.Internship, error)
}

// Defaults fill in thresholds a session leaves at zero.
type Defaults struct {
	WatchPercentage int
	PassingScore    int
}

type Service struct {
	db       *gorm.DB
	defaults Defaults
}

func NewService(db *gorm.DB, defaults Defaults) *Service {
	if defaults.WatchPercentage <= 0 {
		defaults.WatchPercentage = 80
	}
	if defaults.PassingScore <= 0 {
		defaults.PassingScore = 70
	}
	return &Service{db: db, defaults: defaults}
}

func (s *Service) GetCourseStructure(ctx context.Context, courseID uint) (*Structure, error) {
	db := s.db.WithContext(ctx)

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewError(domain, "GetCourseStructure", shared.ErrNotFound, "course %d not found", courseID)
		}
		return nil, fmt.Errorf("load course %d: %w", courseID, err)
	}

	var modules []courseModels.Module
	if err := db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc, id asc").Find(&modules).Error; err != nil {
		return nil, fmt.Errorf("load modules of course %d: %w", courseID, err)
	}

	var sessions []courseModels.Session
	if err := db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc, id asc").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("load sessions of course %d: %w", courseID, err)
	}

	byModule := make(map[uint][]SessionInfo, len(modules))
	for _, sess := range sessions {
		byModule[sess.ModuleID] = append(byModule[sess.ModuleID], s.sessionInfo(sess))
	}

	structure := &Structure{
		CourseID:                  course.ID,
		Title:                     course.Title,
		Price:                     course.Price,
		IsPublished:               course.IsPublished,
		RequireSequentialProgress: course.RequireSequentialProgress,
		RequireFinalAssessment:    course.RequireFinalAssessment,
	}
	if course.FinalAssessmentSessionID != nil {
		structure.FinalAssessmentSessionID = *course.FinalAssessmentSessionID
	}
	for _, m := range modules {
		structure.Modules = append(structure.Modules, ModuleInfo{
			ID:       m.ID,
			Title:    m.Title,
			Sessions: byModule[m.ID],
		})
	}
	return structure, nil
}

func (s *Service) sessionInfo(sess courseModels.Session) SessionInfo {
	info := SessionInfo{
		ID:                      sess.ID,
		ModuleID:                sess.ModuleID,
		Title:                   sess.Title,
		Type:                    sess.SessionType,
		DurationSeconds:         sess.DurationSeconds,
		RequiredWatchPercentage: sess.RequiredWatchPercentage,
		PassingScore:            sess.PassingScore,
		IsFree:                  sess.IsFree,
	}
	if info.RequiredWatchPercentage <= 0 {
		info.RequiredWatchPercentage = s.defaults.WatchPercentage
	}
	if info.PassingScore <= 0 {
		info.PassingScore = s.defaults.PassingScore
	}
	return info
}

func (s *Service) GetAnswerKey(ctx context.Context, sessionID uint) (*AnswerKey, error) {
	var questions []courseModels.QuizQuestion
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND is_deleted = ?", sessionID, false).
		Preload("Options", "is_deleted = ?", false).
		Order("order_index asc, id asc").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("load answer key of session %d: %w", sessionID, err)
	}

	key := &AnswerKey{SessionID: sessionID}
	for _, q := range questions {
		kq := KeyQuestion{ID: q.ID, Points: q.Points}
		for _, opt := range q.Options {
			if opt.IsCorrect {
				kq.CorrectOptions = append(kq.CorrectOptions, opt.ID)
			}
		}
		key.Questions = append(key.Questions, kq)
	}
	return key, nil
}

func (s *Service) GetInternship(ctx context.Context, internshipID uint) (*internshipModels.Internship, error) {
	var in internshipModels.Internship
	if err := s.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", internshipID, false).First(&in).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewError(domain, "GetInternship", shared.ErrNotFound, "internship %d not found", internshipID)
		}
		return nil, fmt.Errorf("load internship %d: %w", internshipID, err)
	}
	return &in, nil
}
