// Package enrollment owns the lifecycle of a student's claim on a course.
package enrollment

import (
	"context"
	"errors"
	"fmt"
	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/services/audit"
	"learnhub/services/catalog"
	"learnhub/services/events"
	"learnhub/services/shared"
	"time"

	"gorm.io/gorm"
)

const domain = "enrollment"

// Decision is an admin's verdict on a pending enrollment.
type Decision string

const (
	Approve Decision = "APPROVE"
	Reject  Decision = "REJECT"
)

type Service struct {
	db        *gorm.DB
	catalog   catalog.Reader
	publisher events.Publisher
	trail     *audit.Trail
	now       func() time.Time
}

func NewService(db *gorm.DB, reader catalog.Reader, publisher events.Publisher) *Service {
	return &Service{
		db:        db,
		catalog:   reader,
		publisher: publisher,
		trail:     audit.NewTrail(db),
		now:       time.Now,
	}
}

func seatKey(studentID, courseID uint) *string {
	key := fmt.Sprintf("%d:%d", studentID, courseID)
	return &key
}

// step is one audited edge taken while creating an enrollment.
type step struct {
	from, to Status
	event    events.Type
}

// RequestEnrollment creates the student's enrollment. Free courses become
// active at once; paid courses wait for payment evidence and admin review.
func (s *Service) RequestEnrollment(ctx context.Context, studentID, courseID uint, evidenceRef string) (*courseModels.Enrollment, error) {
	structure, err := s.catalog.GetCourseStructure(ctx, courseID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewError(domain, "Request", shared.ErrCourseUnavailable, "course %d does not exist", courseID)
		}
		return nil, err
	}
	if !structure.IsPublished {
		return nil, shared.NewError(domain, "Request", shared.ErrCourseUnavailable, "course %d is not published", courseID)
	}

	key := seatKey(studentID, courseID)
	var existing courseModels.Enrollment
	err = s.db.WithContext(ctx).Where("seat_key = ?", *key).First(&existing).Error
	if err == nil && existing.Status == courseModels.EnrollmentCompleted {
		return nil, shared.NewError(domain, "Request", shared.ErrCourseAlreadyCompleted,
			"student %d already completed course %d (enrollment %d)", studentID, courseID, existing.ID)
	}
	if err == nil {
		return nil, shared.NewError(domain, "Request", shared.ErrAlreadyEnrolled,
			"student %d already holds enrollment %d (%s) for course %d", studentID, existing.ID, existing.Status, courseID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check existing enrollment: %w", err)
	}

	now := s.now()
	enrollment := courseModels.Enrollment{
		UserID:     studentID,
		CourseID:   courseID,
		EnrolledAt: now,
		SeatKey:    key,
		Version:    1,
	}

	steps := []step{{from: "", to: courseModels.EnrollmentRequested, event: events.EnrollmentRequested}}
	if structure.Price <= 0 {
		enrollment.Status = courseModels.EnrollmentActive
		enrollment.PaymentStatus = courseModels.PaymentFree
		steps = append(steps, step{courseModels.EnrollmentRequested, courseModels.EnrollmentActive, events.EnrollmentActivated})
	} else {
		enrollment.Status = courseModels.EnrollmentPaymentPending
		enrollment.PaymentStatus = courseModels.PaymentPending
		steps = append(steps, step{courseModels.EnrollmentRequested, courseModels.EnrollmentPaymentPending, events.EnrollmentPaymentPending})
		if evidenceRef != "" {
			enrollment.Status = courseModels.EnrollmentUnderReview
			enrollment.PaymentEvidenceRef = evidenceRef
			steps = append(steps, step{courseModels.EnrollmentPaymentPending, courseModels.EnrollmentUnderReview, events.PaymentEvidenceSubmitted})
		}
	}

	if err := s.db.WithContext(ctx).Create(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, shared.NewError(domain, "Request", shared.ErrAlreadyEnrolled,
				"student %d already holds an enrollment for course %d", studentID, courseID)
		}
		return nil, fmt.Errorf("create enrollment: %w", err)
	}

	student := audit.Actor{ID: studentID, Role: models.RoleStudent}
	for _, st := range steps {
		s.record(ctx, &enrollment, st.from, st.to, student, "", st.event)
	}
	return &enrollment, nil
}

// AttachPaymentEvidence stores the student's proof of payment and hands the
// enrollment to admin review.
func (s *Service) AttachPaymentEvidence(ctx context.Context, studentID, enrollmentID uint, evidenceRef string) (*courseModels.Enrollment, error) {
	if evidenceRef == "" {
		return nil, shared.NewError(domain, "AttachEvidence", shared.ErrInvalidInput, "evidence reference is required")
	}
	e, err := s.Get(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if e.UserID != studentID {
		return nil, shared.NewError(domain, "AttachEvidence", shared.ErrForbidden, "enrollment %d belongs to another student", enrollmentID)
	}
	if e.Status != courseModels.EnrollmentPaymentPending {
		return nil, invalidTransition("AttachEvidence", e, courseModels.EnrollmentUnderReview)
	}

	from := e.Status
	err = s.transition(ctx, e, courseModels.EnrollmentUnderReview, map[string]interface{}{
		"payment_evidence_ref": evidenceRef,
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, e, from, e.Status, audit.Actor{ID: studentID, Role: models.RoleStudent}, "", events.PaymentEvidenceSubmitted)
	return e, nil
}

// ReviewEnrollment approves or rejects an enrollment awaiting payment
// confirmation. A nil amountPaid on approval records the course price.
func (s *Service) ReviewEnrollment(ctx context.Context, admin audit.Actor, enrollmentID uint, decision Decision, amountPaid *float64, reason string) (*courseModels.Enrollment, error) {
	if admin.Role != models.RoleAdmin {
		return nil, shared.NewError(domain, "Review", shared.ErrForbidden, "only admins review enrollments")
	}
	e, err := s.Get(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	var to Status
	switch decision {
	case Approve:
		to = courseModels.EnrollmentActive
	case Reject:
		to = courseModels.EnrollmentRejected
	default:
		return nil, shared.NewError(domain, "Review", shared.ErrInvalidInput, "unknown decision %q", decision)
	}
	if e.Status != courseModels.EnrollmentPaymentPending && e.Status != courseModels.EnrollmentUnderReview {
		return nil, invalidTransition("Review", e, to)
	}

	now := s.now()
	updates := map[string]interface{}{
		"decided_at": now,
		"decided_by": admin.ID,
	}
	event := events.EnrollmentApproved
	if decision == Approve {
		amount, err := s.approvedAmount(ctx, e, amountPaid)
		if err != nil {
			return nil, err
		}
		updates["amount_paid"] = amount
		if amount > 0 {
			updates["payment_status"] = courseModels.PaymentPaid
		} else {
			updates["payment_status"] = courseModels.PaymentFree
		}
		updates["decision_reason"] = reason
	} else {
		if reason == "" {
			return nil, shared.NewError(domain, "Review", shared.ErrInvalidInput, "a rejection needs a reason")
		}
		updates["decision_reason"] = reason
		event = events.EnrollmentRejected
	}

	from := e.Status
	if err := s.transition(ctx, e, to, updates); err != nil {
		return nil, err
	}
	s.record(ctx, e, from, e.Status, admin, reason, event)
	return e, nil
}

func (s *Service) approvedAmount(ctx context.Context, e *courseModels.Enrollment, amountPaid *float64) (float64, error) {
	if amountPaid != nil {
		if *amountPaid < 0 {
			return 0, shared.NewError(domain, "Review", shared.ErrInvalidInput, "amount paid cannot be negative")
		}
		return *amountPaid, nil
	}
	structure, err := s.catalog.GetCourseStructure(ctx, e.CourseID)
	if err != nil {
		return 0, err
	}
	return structure.Price, nil
}

// Refund ends an active, paid enrollment.
func (s *Service) Refund(ctx context.Context, admin audit.Actor, enrollmentID uint, reason string) (*courseModels.Enrollment, error) {
	if admin.Role != models.RoleAdmin {
		return nil, shared.NewError(domain, "Refund", shared.ErrForbidden, "only admins issue refunds")
	}
	e, err := s.Get(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if e.Status != courseModels.EnrollmentActive {
		return nil, invalidTransition("Refund", e, courseModels.EnrollmentRefunded)
	}
	if e.AmountPaid <= 0 {
		return nil, shared.NewError(domain, "Refund", shared.ErrInvalidTransition, "enrollment %d has nothing to refund", e.ID)
	}

	from := e.Status
	err = s.transition(ctx, e, courseModels.EnrollmentRefunded, map[string]interface{}{
		"decided_at":      s.now(),
		"decided_by":      admin.ID,
		"decision_reason": reason,
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, e, from, e.Status, admin, reason, events.EnrollmentRefunded)
	return e, nil
}

// Cancel ends a non-terminal enrollment. Admins may cancel at any stage; a
// student may only withdraw their own enrollment before it is active.
func (s *Service) Cancel(ctx context.Context, actor audit.Actor, enrollmentID uint, reason string) (*courseModels.Enrollment, error) {
	e, err := s.Get(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin {
		if e.UserID != actor.ID {
			return nil, shared.NewError(domain, "Cancel", shared.ErrForbidden, "enrollment %d belongs to another student", enrollmentID)
		}
		if e.Status == courseModels.EnrollmentActive {
			return nil, shared.NewError(domain, "Cancel", shared.ErrForbidden, "active enrollments are cancelled by an admin")
		}
	}

	from := e.Status
	err = s.transition(ctx, e, courseModels.EnrollmentCancelled, map[string]interface{}{
		"decided_at":      s.now(),
		"decided_by":      actor.ID,
		"decision_reason": reason,
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, e, from, e.Status, actor, reason, events.EnrollmentCancelled)
	return e, nil
}

// Complete moves an active enrollment to COMPLETED. Completing an already
// completed enrollment is a no-op and reports changed=false.
func (s *Service) Complete(ctx context.Context, enrollmentID uint) (e *courseModels.Enrollment, changed bool, err error) {
	e, err = s.Get(ctx, enrollmentID)
	if err != nil {
		return nil, false, err
	}
	if e.Status == courseModels.EnrollmentCompleted {
		return e, false, nil
	}

	from := e.Status
	if err := s.transition(ctx, e, courseModels.EnrollmentCompleted, map[string]interface{}{
		"completed_at": s.now(),
	}); err != nil {
		return nil, false, err
	}
	s.record(ctx, e, from, e.Status, audit.System, "", events.CourseCompleted)
	return e, true, nil
}

// transition applies one edge with a compare-and-swap on the version column
// and reloads e on success.
func (s *Service) transition(ctx context.Context, e *courseModels.Enrollment, to Status, updates map[string]interface{}) error {
	if !CanTransition(e.Status, to) {
		return invalidTransition("Transition", e, to)
	}

	updates["status"] = to
	updates["version"] = e.Version + 1
	if releasesSeat(to) {
		updates["seat_key"] = nil
	}

	res := s.db.WithContext(ctx).Model(&courseModels.Enrollment{}).
		Where("id = ? AND version = ?", e.ID, e.Version).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update enrollment %d: %w", e.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return shared.NewError(domain, "Transition", shared.ErrConcurrentModification,
			"enrollment %d changed while moving %s -> %s", e.ID, e.Status, to)
	}

	return s.db.WithContext(ctx).First(e, e.ID).Error
}

func (s *Service) record(ctx context.Context, e *courseModels.Enrollment, from, to Status, actor audit.Actor, reason string, event events.Type) {
	s.trail.Append(ctx, audit.EntityEnrollment, e.ID, string(from), string(to), actor, reason)
	s.publisher.Publish(ctx, events.Event{
		Type:         event,
		UserID:       e.UserID,
		CourseID:     e.CourseID,
		EnrollmentID: e.ID,
		Status:       string(to),
		Reason:       reason,
		OccurredAt:   s.now(),
	})
}

func invalidTransition(op string, e *courseModels.Enrollment, to Status) error {
	return shared.NewError(domain, op, shared.ErrInvalidTransition, "enrollment %d cannot move %s -> %s", e.ID, e.Status, to)
}
