package dashboard

import (
	"context"
	"learnhub/models"
	courseModels "learnhub/models/course"
	internshipModels "learnhub/models/internship"
	"learnhub/services/internal/fixture"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	db := fixture.NewDB(t)
	s := NewService(db)
	today := time.Date(2024, 6, 12, 15, 0, 0, 0, time.Local)
	s.now = func() time.Time { return today }

	fixture.User(t, db, models.RoleStudent)
	fixture.User(t, db, models.RoleStudent)
	fixture.User(t, db, models.RoleAdmin)
	fixture.NewCourse(t, fixture.Catalog(db), 0, true).Publish()

	for i, st := range []courseModels.EnrollmentStatus{
		courseModels.EnrollmentActive,
		courseModels.EnrollmentUnderReview,
		courseModels.EnrollmentPaymentPending,
		courseModels.EnrollmentActive,
	} {
		enrolled := today
		if i == 3 {
			enrolled = today.AddDate(0, 0, -2)
		}
		require.NoError(t, db.Create(&courseModels.Enrollment{
			UserID: uint(i + 1), CourseID: 1, Status: st, EnrolledAt: enrolled, Version: 1,
		}).Error)
	}
	require.NoError(t, db.Create(&internshipModels.Application{
		UserID: 1, InternshipID: 1, Status: internshipModels.ApplicationSubmitted, SubmittedAt: today, Version: 1,
	}).Error)
	require.NoError(t, db.Create(&courseModels.Certificate{
		UserID: 1, CourseID: 1, CertificateNumber: "CERT-202406-0000000001", IssuedAt: today.AddDate(0, 0, -5),
	}).Error)
	require.NoError(t, db.Create(&courseModels.Certificate{
		UserID: 2, CourseID: 1, CertificateNumber: "CERT-202405-0000000002", IssuedAt: today.AddDate(0, -1, 0),
	}).Error)

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalStudents)
	assert.Equal(t, int64(1), stats.PublishedCourses)
	assert.Equal(t, int64(2), stats.EnrollmentsByStatus["ACTIVE"])
	assert.Equal(t, int64(2), stats.PendingEnrollments)
	assert.Equal(t, int64(1), stats.PendingApplications)
	assert.Equal(t, int64(3), stats.EnrollmentsToday)
	assert.Equal(t, int64(1), stats.CertificatesThisMonth)
}
