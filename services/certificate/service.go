// Package certificate issues course certificates and verifies them publicly.
package certificate

import (
	"context"
	"errors"
	"fmt"
	"learnhub/database"
	courseModels "learnhub/models/course"
	"learnhub/services/events"
	"learnhub/services/shared"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	domain = "certificate"

	verifyTTL   = 24 * time.Hour
	maxAttempts = 3
)

type Enrollments interface {
	FindAccessible(ctx context.Context, studentID, courseID uint) (*courseModels.Enrollment, error)
}

type Progress interface {
	ComputeProgress(ctx context.Context, studentID, courseID uint) (int, error)
}

type Assessments interface {
	FinalAssessmentPassed(ctx context.Context, studentID, courseID uint) (bool, error)
}

// Cache holds verification results. database.Cache satisfies it.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type Deps struct {
	Enrollments Enrollments
	Progress    Progress
	Assessments Assessments
	Publisher   events.Publisher
	Cache       Cache // optional
	BaseURL     string
}

type Service struct {
	db   *gorm.DB
	deps Deps
	now  func() time.Time
}

func NewService(db *gorm.DB, deps Deps) *Service {
	return &Service{db: db, deps: deps, now: time.Now}
}

// NewNumber returns a fresh public certificate number, CERT-YYYYMM-XXXXXXXXXX.
func NewNumber(at time.Time) string {
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("CERT-%s-%s", at.Format("200601"), random[:10])
}

// IssueIfEligible returns the student's certificate for the course, issuing
// it when the course is fully complete and any final assessment is passed.
// It returns nil without error while the student is not yet eligible.
func (s *Service) IssueIfEligible(ctx context.Context, studentID, courseID uint) (*courseModels.Certificate, error) {
	existing, err := s.find(ctx, studentID, courseID)
	if err != nil || existing != nil {
		return existing, err
	}

	enrollment, err := s.deps.Enrollments.FindAccessible(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	pct, err := s.deps.Progress.ComputeProgress(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	if pct < 100 {
		return nil, nil
	}
	passed, err := s.deps.Assessments.FinalAssessmentPassed(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	if !passed {
		return nil, nil
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		cert, err := s.create(ctx, enrollment)
		if err == nil {
			s.deps.Publisher.Publish(ctx, events.Event{
				Type:              events.CertificateIssued,
				UserID:            studentID,
				CourseID:          courseID,
				EnrollmentID:      enrollment.ID,
				CertificateNumber: cert.CertificateNumber,
				OccurredAt:        cert.IssuedAt,
			})
			return cert, nil
		}
		if !errors.Is(err, shared.ErrDuplicateCertificate) {
			return nil, err
		}
		// Either another request issued it first or the number collided.
		winner, err := s.find(ctx, studentID, courseID)
		if err != nil || winner != nil {
			return winner, err
		}
	}
	return nil, shared.NewError(domain, "Issue", shared.ErrDuplicateCertificate,
		"could not allocate a certificate number for student %d course %d", studentID, courseID)
}

func (s *Service) create(ctx context.Context, enrollment *courseModels.Enrollment) (*courseModels.Certificate, error) {
	now := s.now()
	number := NewNumber(now)
	cert := courseModels.Certificate{
		UserID:            enrollment.UserID,
		CourseID:          enrollment.CourseID,
		EnrollmentID:      enrollment.ID,
		CertificateNumber: number,
		CertificateURL:    fmt.Sprintf("%s/%s", strings.TrimRight(s.deps.BaseURL, "/"), number),
		IssuedAt:          now,
	}
	if err := s.db.WithContext(ctx).Create(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, shared.NewError(domain, "Issue", shared.ErrDuplicateCertificate,
				"certificate for student %d course %d already exists", enrollment.UserID, enrollment.CourseID)
		}
		return nil, fmt.Errorf("create certificate: %w", err)
	}
	return &cert, nil
}

func (s *Service) find(ctx context.Context, studentID, courseID uint) (*courseModels.Certificate, error) {
	var cert courseModels.Certificate
	err := s.db.WithContext(ctx).Where("user_id = ? AND course_id = ?", studentID, courseID).First(&cert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load certificate: %w", err)
	}
	return &cert, nil
}

// IssueOnCompletion is the progress completion hook.
func (s *Service) IssueOnCompletion(ctx context.Context, studentID, courseID uint) error {
	_, err := s.IssueIfEligible(ctx, studentID, courseID)
	return err
}

func (s *Service) GetByStudentCourse(ctx context.Context, studentID, courseID uint) (*courseModels.Certificate, error) {
	cert, err := s.find(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, shared.NewError(domain, "Get", shared.ErrNotFound, "no certificate for student %d course %d", studentID, courseID)
	}
	return cert, nil
}

func (s *Service) ListForStudent(ctx context.Context, studentID uint) ([]courseModels.Certificate, error) {
	var certs []courseModels.Certificate
	err := s.db.WithContext(ctx).Where("user_id = ?", studentID).Order("issued_at desc").Find(&certs).Error
	return certs, err
}

// Verification is the public view of a certificate.
type Verification struct {
	CertificateNumber string    `json:"certificate_number"`
	StudentName       string    `json:"student_name"`
	CourseTitle       string    `json:"course_title"`
	IssuedAt          time.Time `json:"issued_at"`
	CertificateURL    string    `json:"certificate_url"`
}

// VerifyByNumber looks up a certificate by its public number.
func (s *Service) VerifyByNumber(ctx context.Context, number string) (*Verification, error) {
	key := "cert:" + number
	if s.deps.Cache != nil {
		var cached Verification
		err := s.deps.Cache.Get(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, database.ErrCacheMiss) {
			slog.Warn("certificate cache read failed", "number", number, "error", err)
		}
	}

	var v Verification
	res := s.db.WithContext(ctx).Table("certificates").
		Select("certificates.certificate_number, certificates.issued_at, certificates.certificate_url, users.name AS student_name, courses.title AS course_title").
		Joins("JOIN users ON users.id = certificates.user_id").
		Joins("JOIN courses ON courses.id = certificates.course_id").
		Where("certificates.certificate_number = ? AND certificates.deleted_at IS NULL", number).
		Limit(1).
		Scan(&v)
	if res.Error != nil {
		return nil, fmt.Errorf("verify certificate: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, shared.NewError(domain, "Verify", shared.ErrNotFound, "certificate %s not found", number)
	}

	if s.deps.Cache != nil {
		if err := s.deps.Cache.Set(ctx, key, v, verifyTTL); err != nil {
			slog.Warn("certificate cache write failed", "number", number, "error", err)
		}
	}
	return &v, nil
}
