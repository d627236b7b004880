package notifications

import (
	"context"
	courseModels "learnhub/models/course"
	"learnhub/services/internal/fixture"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAlerter struct{ texts []string }

func (r *recordingAlerter) Alert(_ context.Context, text string) error {
	r.texts = append(r.texts, text)
	return nil
}

func TestReviewReminder(t *testing.T) {
	ctx := context.Background()
	db := fixture.NewDB(t)
	alerts := &recordingAlerter{}
	r := NewReviewReminder(db, alerts)
	today := time.Date(2024, 6, 12, 9, 0, 0, 0, time.Local)
	r.now = func() time.Time { return today }

	sent, err := r.Run(ctx)
	require.NoError(t, err)
	assert.False(t, sent)

	fresh := courseModels.Enrollment{UserID: 1, CourseID: 1, Status: courseModels.EnrollmentUnderReview, Version: 1}
	old := courseModels.Enrollment{UserID: 2, CourseID: 1, Status: courseModels.EnrollmentUnderReview, Version: 1}
	done := courseModels.Enrollment{UserID: 3, CourseID: 1, Status: courseModels.EnrollmentActive, Version: 1}
	require.NoError(t, db.Create(&fresh).Error)
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, db.Create(&done).Error)
	longAgo := today.AddDate(0, 0, -3)
	require.NoError(t, db.Model(&courseModels.Enrollment{}).Where("id IN ?", []uint{old.ID, done.ID}).UpdateColumn("updated_at", longAgo).Error)
	require.NoError(t, db.Model(&fresh).UpdateColumn("updated_at", today).Error)

	stale, err := r.Stale(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stale.Enrollments)
	assert.Zero(t, stale.Applications)

	sent, err = r.Run(ctx)
	require.NoError(t, err)
	assert.True(t, sent)
	require.Len(t, alerts.texts, 1)
	assert.Contains(t, alerts.texts[0], "1 enrollments")
}
