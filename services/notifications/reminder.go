package notifications

import (
	"context"
	"fmt"
	courseModels "learnhub/models/course"
	internshipModels "learnhub/models/internship"
	"log/slog"
	"time"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// ReviewReminder nags admins about reviews that have waited since before
// yesterday.
type ReviewReminder struct {
	db      *gorm.DB
	alerter Alerter
	now     func() time.Time
}

func NewReviewReminder(db *gorm.DB, alerter Alerter) *ReviewReminder {
	return &ReviewReminder{db: db, alerter: alerter, now: time.Now}
}

type StaleReviews struct {
	Enrollments  int64
	Applications int64
}

// Stale counts pending reviews last touched before the start of yesterday.
func (r *ReviewReminder) Stale(ctx context.Context) (StaleReviews, error) {
	cutoff := now.With(r.now()).BeginningOfDay().AddDate(0, 0, -1)

	var stale StaleReviews
	if err := r.db.WithContext(ctx).Model(&courseModels.Enrollment{}).
		Where("status IN ? AND updated_at < ?", []courseModels.EnrollmentStatus{
			courseModels.EnrollmentPaymentPending,
			courseModels.EnrollmentUnderReview,
		}, cutoff).
		Count(&stale.Enrollments).Error; err != nil {
		return stale, fmt.Errorf("count stale enrollments: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(&internshipModels.Application{}).
		Where("status IN ? AND updated_at < ?", []internshipModels.ApplicationStatus{
			internshipModels.ApplicationSubmitted,
			internshipModels.ApplicationUnderReview,
		}, cutoff).
		Count(&stale.Applications).Error; err != nil {
		return stale, fmt.Errorf("count stale applications: %w", err)
	}
	return stale, nil
}

// Run sends one reminder when anything is stale. It reports whether a
// reminder went out.
func (r *ReviewReminder) Run(ctx context.Context) (bool, error) {
	stale, err := r.Stale(ctx)
	if err != nil {
		return false, err
	}
	if stale.Enrollments == 0 && stale.Applications == 0 {
		return false, nil
	}

	text := fmt.Sprintf("⏰ Pending reviews older than a day: %d enrollments, %d internship applications.",
		stale.Enrollments, stale.Applications)
	if err := r.alerter.Alert(ctx, text); err != nil {
		return false, err
	}
	return true, nil
}

func (r *ReviewReminder) Schedule(c *cron.Cron, spec string) error {
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := r.Run(ctx); err != nil {
			slog.Error("review reminder failed", "error", err)
		}
	})
	return err
}
