package certificate

import (
	"context"
	"encoding/json"
	"learnhub/database"
	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/services/assessment"
	"learnhub/services/enrollment"
	"learnhub/services/events"
	"learnhub/services/internal/fixture"
	"learnhub/services/progress"
	"learnhub/services/shared"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memoryCache struct {
	items map[string][]byte
	hits  int
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	data, ok := c.items[key]
	if !ok {
		return database.ErrCacheMiss
	}
	c.hits++
	return json.Unmarshal(data, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = data
	return nil
}

type stack struct {
	db          *gorm.DB
	enrollments *enrollment.Service
	engine      *progress.Service
	certs       *Service
	events      *events.Recorder
	cache       *memoryCache
	student     models.User
}

func newStack(t *testing.T) *stack {
	db := fixture.NewDB(t)
	cat := fixture.Catalog(db)
	rec := &events.Recorder{}
	enrollments := enrollment.NewService(db, cat, rec)
	engine := progress.NewService(db, cat, enrollments, progress.Options{})
	cache := &memoryCache{items: map[string][]byte{}}
	certs := NewService(db, Deps{
		Enrollments: enrollments,
		Progress:    engine,
		Assessments: assessment.NewService(db, cat, engine),
		Publisher:   rec,
		Cache:       cache,
		BaseURL:     "https://learnhub.test/certificates/",
	})
	engine.OnCourseCompleted(certs.IssueOnCompletion)
	return &stack{
		db:          db,
		enrollments: enrollments,
		engine:      engine,
		certs:       certs,
		events:      rec,
		cache:       cache,
		student:     fixture.User(t, db, models.RoleStudent),
	}
}

func TestNewNumber(t *testing.T) {
	at := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	n := NewNumber(at)
	assert.Regexp(t, regexp.MustCompile(`^CERT-202403-[0-9A-F]{10}$`), n)
	assert.NotEqual(t, n, NewNumber(at))
}

func TestCompletionIssuesExactlyOneCertificate(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	b := fixture.NewCourse(t, fixture.Catalog(s.db), 0, true)
	a1 := b.Article("one")
	a2 := b.Article("two")
	course := b.Publish()
	_, err := s.enrollments.RequestEnrollment(ctx, s.student.ID, course.ID, "")
	require.NoError(t, err)

	_, err = s.engine.MarkSessionComplete(ctx, s.student.ID, course.ID, a1, true)
	require.NoError(t, err)
	cert, err := s.certs.IssueIfEligible(ctx, s.student.ID, course.ID)
	require.NoError(t, err)
	assert.Nil(t, cert, "half way through")

	_, err = s.engine.MarkSessionComplete(ctx, s.student.ID, course.ID, a2, true)
	require.NoError(t, err)

	cert, err = s.certs.GetByStudentCourse(ctx, s.student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://learnhub.test/certificates/"+cert.CertificateNumber, cert.CertificateURL)
	assert.Contains(t, s.events.Types(), events.CertificateIssued)

	again, err := s.certs.IssueIfEligible(ctx, s.student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, cert.CertificateNumber, again.CertificateNumber)

	list, err := s.certs.ListForStudent(ctx, s.student.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	e, err := s.enrollments.FindAccessible(ctx, s.student.ID, course.ID)
	require.NoError(t, err)
	_, err = s.certs.create(ctx, e)
	assert.ErrorIs(t, err, shared.ErrDuplicateCertificate)
}

func TestGetByStudentCourse_None(t *testing.T) {
	s := newStack(t)
	_, err := s.certs.GetByStudentCourse(context.Background(), s.student.ID, 99)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestVerifyByNumber(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	b := fixture.NewCourse(t, fixture.Catalog(s.db), 0, true)
	a := b.Article("only")
	course := b.Publish()
	_, err := s.enrollments.RequestEnrollment(ctx, s.student.ID, course.ID, "")
	require.NoError(t, err)
	_, err = s.engine.MarkSessionComplete(ctx, s.student.ID, course.ID, a, true)
	require.NoError(t, err)
	cert, err := s.certs.GetByStudentCourse(ctx, s.student.ID, course.ID)
	require.NoError(t, err)

	v, err := s.certs.VerifyByNumber(ctx, cert.CertificateNumber)
	require.NoError(t, err)
	assert.Equal(t, s.student.Name, v.StudentName)
	assert.Equal(t, course.Title, v.CourseTitle)
	assert.Equal(t, 0, s.cache.hits)

	v, err = s.certs.VerifyByNumber(ctx, cert.CertificateNumber)
	require.NoError(t, err)
	assert.Equal(t, cert.CertificateNumber, v.CertificateNumber)
	assert.Equal(t, 1, s.cache.hits)

	_, err = s.certs.VerifyByNumber(ctx, "CERT-000000-0000000000")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

type stubEnrollments struct{ e *courseModels.Enrollment }

func (s stubEnrollments) FindAccessible(context.Context, uint, uint) (*courseModels.Enrollment, error) {
	return s.e, nil
}

type stubProgress int

func (p stubProgress) ComputeProgress(context.Context, uint, uint) (int, error) { return int(p), nil }

type stubAssessments bool

func (a stubAssessments) FinalAssessmentPassed(context.Context, uint, uint) (bool, error) {
	return bool(a), nil
}

func TestIssueIfEligible_FinalAssessmentGate(t *testing.T) {
	ctx := context.Background()
	db := fixture.NewDB(t)
	e := &courseModels.Enrollment{UserID: 7, CourseID: 3}
	e.ID = 11

	blocked := NewService(db, Deps{
		Enrollments: stubEnrollments{e},
		Progress:    stubProgress(100),
		Assessments: stubAssessments(false),
		Publisher:   &events.Recorder{},
	})
	cert, err := blocked.IssueIfEligible(ctx, 7, 3)
	require.NoError(t, err)
	assert.Nil(t, cert)

	open := NewService(db, Deps{
		Enrollments: stubEnrollments{e},
		Progress:    stubProgress(100),
		Assessments: stubAssessments(true),
		Publisher:   &events.Recorder{},
	})
	cert, err = open.IssueIfEligible(ctx, 7, 3)
	require.NoError(t, err)
	require.NotNil(t, cert)
	assert.Equal(t, uint(11), cert.EnrollmentID)
}
