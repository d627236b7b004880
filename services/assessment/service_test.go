package assessment

import (
	"context"
	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/services/catalog"
	"learnhub/services/enrollment"
	"learnhub/services/events"
	"learnhub/services/internal/fixture"
	"learnhub/services/progress"
	"learnhub/services/shared"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type harness struct {
	db          *gorm.DB
	cat         *catalog.Service
	svc         *Service
	enrollments *enrollment.Service
	student     models.User
	ctx         context.Context
}

func newHarness(t *testing.T) *harness {
	db := fixture.NewDB(t)
	cat := fixture.Catalog(db)
	enrollments := enrollment.NewService(db, cat, &events.Recorder{})
	engine := progress.NewService(db, cat, enrollments, progress.Options{})
	return &harness{
		db:          db,
		cat:         cat,
		svc:         NewService(db, cat, engine),
		enrollments: enrollments,
		student:     fixture.User(t, db, models.RoleStudent),
		ctx:         context.Background(),
	}
}

func TestSubmitQuizAttempt_FailThenPass(t *testing.T) {
	h := newHarness(t)
	b := fixture.NewCourse(t, h.cat, 0, true)
	quiz, questions := b.Quiz("final", 70)
	course := b.Publish()
	require.NoError(t, h.cat.SetFinalAssessment(h.ctx, course.ID, quiz))
	e, err := h.enrollments.RequestEnrollment(h.ctx, h.student.ID, course.ID, "")
	require.NoError(t, err)

	res, err := h.svc.SubmitQuizAttempt(h.ctx, h.student.ID, course.ID, quiz, fixture.Answers(questions, 0))
	require.NoError(t, err)
	assert.Equal(t, 60, res.Attempt.Score)
	assert.False(t, res.Attempt.Passed)
	assert.Equal(t, 1, res.Attempt.AttemptNumber)
	assert.Nil(t, res.Completion)

	passed, err := h.svc.FinalAssessmentPassed(h.ctx, h.student.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, passed)

	res, err = h.svc.SubmitQuizAttempt(h.ctx, h.student.ID, course.ID, quiz, fixture.Answers(questions, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 75, res.Attempt.Score)
	assert.True(t, res.Attempt.Passed)
	assert.Equal(t, 2, res.Attempt.AttemptNumber)
	require.NotNil(t, res.Completion)
	assert.True(t, res.Completion.Progress.IsCompleted)
	assert.True(t, res.Completion.CourseCompleted)

	passed, err = h.svc.FinalAssessmentPassed(h.ctx, h.student.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, passed)

	e, err = h.enrollments.Get(h.ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, courseModels.EnrollmentCompleted, e.Status)

	attempts, err := h.svc.ListAttempts(h.ctx, h.student.ID, quiz)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, 2, attempts[0].AttemptNumber)
}

func TestSubmitQuizAttempt_LockedSession(t *testing.T) {
	h := newHarness(t)
	b := fixture.NewCourse(t, h.cat, 0, true)
	b.Article("read first")
	quiz, questions := b.Quiz("check", 70)
	course := b.Publish()
	_, err := h.enrollments.RequestEnrollment(h.ctx, h.student.ID, course.ID, "")
	require.NoError(t, err)

	_, err = h.svc.SubmitQuizAttempt(h.ctx, h.student.ID, course.ID, quiz, fixture.Answers(questions, 0, 1, 2))
	assert.ErrorIs(t, err, shared.ErrNotUnlocked)

	attempts, err := h.svc.ListAttempts(h.ctx, h.student.ID, quiz)
	require.NoError(t, err)
	assert.Empty(t, attempts)
}

func TestSubmitQuizAttempt_RejectsNonAssessedSession(t *testing.T) {
	h := newHarness(t)
	b := fixture.NewCourse(t, h.cat, 0, true)
	article := b.Article("notes")
	course := b.Publish()
	_, err := h.enrollments.RequestEnrollment(h.ctx, h.student.ID, course.ID, "")
	require.NoError(t, err)

	_, err = h.svc.SubmitQuizAttempt(h.ctx, h.student.ID, course.ID, article, nil)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestFinalAssessmentPassed_NotRequired(t *testing.T) {
	h := newHarness(t)
	b := fixture.NewCourse(t, h.cat, 0, true)
	b.Article("notes")
	course := b.Publish()

	passed, err := h.svc.FinalAssessmentPassed(h.ctx, h.student.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, passed)
}
