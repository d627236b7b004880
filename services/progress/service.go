// Package progress decides which sessions a student may open, when a session
// counts as complete, and when the whole course is done.
package progress

import (
	"context"
	"errors"
	"fmt"
	courseModels "learnhub/models/course"
	"learnhub/services/catalog"
	"learnhub/services/shared"
	"log/slog"
	"time"

	"gorm.io/gorm"
)

const domain = "progress"

// Gate is the slice of the enrollment service the engine depends on.
type Gate interface {
	FindAccessible(ctx context.Context, studentID, courseID uint) (*courseModels.Enrollment, error)
	Complete(ctx context.Context, enrollmentID uint) (*courseModels.Enrollment, bool, error)
}

// CompletionHook runs once when an enrollment moves to COMPLETED.
type CompletionHook func(ctx context.Context, studentID, courseID uint) error

type Options struct {
	MaxPlaybackRate float64
}

type Service struct {
	db      *gorm.DB
	catalog catalog.Reader
	gate    Gate
	maxRate float64
	hooks   []CompletionHook
	now     func() time.Time
}

func NewService(db *gorm.DB, reader catalog.Reader, gate Gate, opts Options) *Service {
	if opts.MaxPlaybackRate <= 0 {
		opts.MaxPlaybackRate = 2
	}
	return &Service{
		db:      db,
		catalog: reader,
		gate:    gate,
		maxRate: opts.MaxPlaybackRate,
		now:     time.Now,
	}
}

// OnCourseCompleted registers a hook for freshly completed enrollments.
func (s *Service) OnCourseCompleted(hook CompletionHook) {
	s.hooks = append(s.hooks, hook)
}

// courseView is everything one request needs about a student in a course.
type courseView struct {
	enrollment *courseModels.Enrollment
	structure  *catalog.Structure
	sessions   []catalog.SessionInfo
	records    map[uint]*courseModels.SessionProgress
	completed  map[uint]bool
	unlocked   map[uint]bool
}

func (v *courseView) completedCount() int {
	n := 0
	for _, sess := range v.sessions {
		if v.completed[sess.ID] {
			n++
		}
	}
	return n
}

func (v *courseView) percentage() int {
	return Percentage(v.completedCount(), len(v.sessions))
}

func (s *Service) load(ctx context.Context, studentID, courseID uint) (*courseView, error) {
	enrollment, err := s.gate.FindAccessible(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	structure, err := s.catalog.GetCourseStructure(ctx, courseID)
	if err != nil {
		return nil, err
	}

	var rows []courseModels.SessionProgress
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", studentID, courseID).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load progress of student %d: %w", studentID, err)
	}

	v := &courseView{
		enrollment: enrollment,
		structure:  structure,
		sessions:   structure.Sessions(),
		records:    make(map[uint]*courseModels.SessionProgress, len(rows)),
		completed:  make(map[uint]bool, len(rows)),
	}
	for i := range rows {
		v.records[rows[i].SessionID] = &rows[i]
		if rows[i].IsCompleted {
			v.completed[rows[i].SessionID] = true
		}
	}
	v.unlocked = Unlock(v.sessions, v.completed, structure.RequireSequentialProgress)
	return v, nil
}

// session resolves a session of the course and checks that it is open.
func (v *courseView) session(op string, sessionID uint) (catalog.SessionInfo, error) {
	sess, ok := v.structure.Session(sessionID)
	if !ok {
		return sess, shared.NewError(domain, op, shared.ErrNotFound, "session %d is not part of course %d", sessionID, v.structure.CourseID)
	}
	if !v.unlocked[sessionID] {
		return sess, shared.NewError(domain, op, shared.ErrNotUnlocked, "session %d is locked", sessionID)
	}
	return sess, nil
}

// CheckUnlocked fails with ErrNotUnlocked unless the student may open the
// session right now.
func (s *Service) CheckUnlocked(ctx context.Context, studentID, courseID, sessionID uint) (catalog.SessionInfo, error) {
	v, err := s.load(ctx, studentID, courseID)
	if err != nil {
		return catalog.SessionInfo{}, err
	}
	if err := requireActive("CheckUnlocked", v); err != nil {
		return catalog.SessionInfo{}, err
	}
	return v.session("CheckUnlocked", sessionID)
}

func requireActive(op string, v *courseView) error {
	if v.enrollment.Status != courseModels.EnrollmentActive {
		return shared.NewError(domain, op, shared.ErrAccessDenied, "enrollment %d is %s and read-only", v.enrollment.ID, v.enrollment.Status)
	}
	return nil
}

// RecordWatchHeartbeat credits the range [from, to) of a video the player
// reports, bounded by the time that passed since the previous heartbeat.
func (s *Service) RecordWatchHeartbeat(ctx context.Context, studentID, courseID, sessionID uint, from, to int) (*courseModels.SessionProgress, error) {
	v, err := s.load(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	sess, err := v.session("Heartbeat", sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Type.IsWatchable() {
		return nil, shared.NewError(domain, "Heartbeat", shared.ErrInvalidInput, "session %d is not a video", sessionID)
	}
	if v.enrollment.Status == courseModels.EnrollmentCompleted {
		if p, ok := v.records[sessionID]; ok {
			return p, nil
		}
		return &courseModels.SessionProgress{UserID: studentID, CourseID: courseID, SessionID: sessionID}, nil
	}

	p, err := s.loadOrCreate(ctx, studentID, courseID, sessionID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	updates := map[string]interface{}{"last_heartbeat_at": now}
	if p.LastHeartbeatAt != nil {
		if seg, ok := credit(from, to, sess.DurationSeconds, now.Sub(*p.LastHeartbeatAt), s.maxRate); ok {
			segs := merge(append(decodeSegments(p.WatchedSegments), seg))
			updates["watched_segments"] = encodeSegments(segs)
			if pct := watchedPercentage(segs, sess.DurationSeconds); pct > p.WatchedPercentage {
				updates["watched_percentage"] = pct
			}
		}
	}

	if err := s.update(ctx, p, updates); err != nil {
		return nil, err
	}
	return p, nil
}

// CompletionResult describes the effect of completing a session.
type CompletionResult struct {
	Progress        *courseModels.SessionProgress `json:"progress"`
	Percentage      int                           `json:"percentage"`
	CourseCompleted bool                          `json:"course_completed"`
}

// MarkSessionComplete marks an open session complete once its requirement is
// met: enough watched for videos, a passing score for quizzes and
// assignments, and the student's acknowledgement for reading material.
// Completing a completed session changes nothing.
func (s *Service) MarkSessionComplete(ctx context.Context, studentID, courseID, sessionID uint, acknowledged bool) (*CompletionResult, error) {
	v, err := s.load(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	sess, err := v.session("MarkComplete", sessionID)
	if err != nil {
		return nil, err
	}

	if p, ok := v.records[sessionID]; ok && p.IsCompleted {
		return s.settle(ctx, v, p)
	}
	if err := requireActive("MarkComplete", v); err != nil {
		return nil, err
	}

	p, err := s.loadOrCreate(ctx, studentID, courseID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := precondition(sess, p, acknowledged); err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.update(ctx, p, map[string]interface{}{
		"is_completed": true,
		"completed_at": now,
	}); err != nil {
		return nil, err
	}
	v.records[sessionID] = p
	v.completed[sessionID] = true
	return s.settle(ctx, v, p)
}

func precondition(sess catalog.SessionInfo, p *courseModels.SessionProgress, acknowledged bool) error {
	switch {
	case sess.Type.IsWatchable():
		if p.WatchedPercentage < sess.RequiredWatchPercentage {
			return shared.NewError(domain, "MarkComplete", shared.ErrPreconditionNotMet,
				"watched %d%% of session %d, %d%% required", p.WatchedPercentage, sess.ID, sess.RequiredWatchPercentage)
		}
	case sess.Type.IsAssessed():
		if p.AttemptScore == nil || *p.AttemptScore < sess.PassingScore {
			return shared.NewError(domain, "MarkComplete", shared.ErrPreconditionNotMet,
				"session %d needs a passing attempt (score >= %d)", sess.ID, sess.PassingScore)
		}
	default:
		if !acknowledged {
			return shared.NewError(domain, "MarkComplete", shared.ErrPreconditionNotMet,
				"session %d must be acknowledged as read", sess.ID)
		}
	}
	return nil
}

// RecordPassingAttempt stores a passing score for an assessed session and
// completes it.
func (s *Service) RecordPassingAttempt(ctx context.Context, studentID, courseID, sessionID uint, score int) (*CompletionResult, error) {
	p, err := s.loadOrCreate(ctx, studentID, courseID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.update(ctx, p, map[string]interface{}{"attempt_score": score}); err != nil {
		return nil, err
	}
	return s.MarkSessionComplete(ctx, studentID, courseID, sessionID, false)
}

// settle moves the enrollment to COMPLETED once every session is done and
// runs the completion hooks for a fresh completion.
func (s *Service) settle(ctx context.Context, v *courseView, p *courseModels.SessionProgress) (*CompletionResult, error) {
	if err := s.refreshCompleted(ctx, v); err != nil {
		return nil, err
	}
	result := &CompletionResult{Progress: p, Percentage: v.percentage()}
	if result.Percentage < 100 || v.enrollment.Status != courseModels.EnrollmentActive {
		return result, nil
	}

	_, changed, err := s.gate.Complete(ctx, v.enrollment.ID)
	if err != nil {
		return nil, err
	}
	result.CourseCompleted = changed
	if changed {
		for _, hook := range s.hooks {
			if err := hook(ctx, v.enrollment.UserID, v.enrollment.CourseID); err != nil {
				slog.Error("course completion hook failed",
					"student_id", v.enrollment.UserID, "course_id", v.enrollment.CourseID, "error", err)
			}
		}
	}
	return result, nil
}

// refreshCompleted re-reads the completed set after a write, so completions
// committed by concurrent requests count toward the percentage.
func (s *Service) refreshCompleted(ctx context.Context, v *courseView) error {
	var ids []uint
	if err := s.db.WithContext(ctx).Model(&courseModels.SessionProgress{}).
		Where("user_id = ? AND course_id = ? AND is_completed = ?", v.enrollment.UserID, v.enrollment.CourseID, true).
		Pluck("session_id", &ids).Error; err != nil {
		return fmt.Errorf("reload completed sessions of student %d: %w", v.enrollment.UserID, err)
	}
	for _, id := range ids {
		v.completed[id] = true
	}
	return nil
}

func (s *Service) loadOrCreate(ctx context.Context, studentID, courseID, sessionID uint) (*courseModels.SessionProgress, error) {
	var p courseModels.SessionProgress
	err := s.db.WithContext(ctx).Where("user_id = ? AND session_id = ?", studentID, sessionID).First(&p).Error
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load session progress: %w", err)
	}

	p = courseModels.SessionProgress{
		UserID:    studentID,
		SessionID: sessionID,
		CourseID:  courseID,
		Version:   1,
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race to the first write; use the winner's row.
			var winner courseModels.SessionProgress
			if err := s.db.WithContext(ctx).Where("user_id = ? AND session_id = ?", studentID, sessionID).First(&winner).Error; err != nil {
				return nil, fmt.Errorf("reload session progress: %w", err)
			}
			return &winner, nil
		}
		return nil, fmt.Errorf("create session progress: %w", err)
	}
	return &p, nil
}

// update writes p with a compare-and-swap on its version and reloads it.
func (s *Service) update(ctx context.Context, p *courseModels.SessionProgress, updates map[string]interface{}) error {
	updates["version"] = p.Version + 1
	res := s.db.WithContext(ctx).Model(&courseModels.SessionProgress{}).
		Where("id = ? AND version = ?", p.ID, p.Version).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update session progress %d: %w", p.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return shared.NewError(domain, "Update", shared.ErrConcurrentModification, "session progress %d changed concurrently", p.ID)
	}
	return s.db.WithContext(ctx).First(p, p.ID).Error
}
