// Package internship runs internship applications from submission to an
// admin decision.
package internship

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"learnhub/models"
	internshipModels "learnhub/models/internship"
	"learnhub/services/audit"
	"learnhub/services/catalog"
	"learnhub/services/events"
	"learnhub/services/shared"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const domain = "internship"

type Status = internshipModels.ApplicationStatus

var transitions = map[Status][]Status{
	internshipModels.ApplicationSubmitted:   {internshipModels.ApplicationUnderReview},
	internshipModels.ApplicationUnderReview: {internshipModels.ApplicationAccepted, internshipModels.ApplicationRejected},
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Decision string

const (
	Accept Decision = "ACCEPT"
	Reject Decision = "REJECT"
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

// ApplyInput is what a student submits with an application.
type ApplyInput struct {
	ResumeRef    string
	ProfileLinks []string
	EvidenceRef  string
}

func seatKey(studentID, internshipID uint) *string {
	key := fmt.Sprintf("%d:%d", studentID, internshipID)
	return &key
}

// Apply files an application. A fee internship applied to with payment
// evidence goes straight to review.
func (s *Service) Apply(ctx context.Context, studentID, internshipID uint, in ApplyInput) (*internshipModels.Application, error) {
	if in.ResumeRef == "" {
		return nil, shared.NewError(domain, "Apply", shared.ErrInvalidInput, "a resume is required")
	}
	listing, err := s.catalog.GetInternship(ctx, internshipID)
	if err != nil {
		return nil, err
	}
	if !listing.IsPublished {
		return nil, shared.NewError(domain, "Apply", shared.ErrNotFound, "internship %d is not open for applications", internshipID)
	}

	links, err := json.Marshal(in.ProfileLinks)
	if err != nil {
		return nil, fmt.Errorf("encode profile links: %w", err)
	}

	app := internshipModels.Application{
		UserID:       studentID,
		InternshipID: internshipID,
		Status:       internshipModels.ApplicationSubmitted,
		SubmittedAt:  s.now(),
		ResumeRef:    in.ResumeRef,
		ProfileLinks: datatypes.JSON(links),
		SeatKey:      seatKey(studentID, internshipID),
		Version:      1,
	}
	toReview := listing.HasFee && in.EvidenceRef != ""
	if toReview {
		app.Status = internshipModels.ApplicationUnderReview
		app.PaymentEvidenceRef = in.EvidenceRef
	}

	if err := s.db.WithContext(ctx).Create(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, shared.NewError(domain, "Apply", shared.ErrAlreadyApplied,
				"student %d already has an open application to internship %d", studentID, internshipID)
		}
		return nil, fmt.Errorf("create application: %w", err)
	}

	student := audit.Actor{ID: studentID, Role: models.RoleStudent}
	s.record(ctx, &app, "", internshipModels.ApplicationSubmitted, student, "", events.ApplicationSubmitted)
	if toReview {
		s.record(ctx, &app, internshipModels.ApplicationSubmitted, internshipModels.ApplicationUnderReview, student, "", events.ApplicationUnderReview)
	}
	return &app, nil
}

// AttachPaymentEvidence moves a submitted fee-internship application to review.
func (s *Service) AttachPaymentEvidence(ctx context.Context, studentID, applicationID uint, evidenceRef string) (*internshipModels.Application, error) {
	if evidenceRef == "" {
		return nil, shared.NewError(domain, "AttachEvidence", shared.ErrInvalidInput, "evidence reference is required")
	}
	app, err := s.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.UserID != studentID {
		return nil, shared.NewError(domain, "AttachEvidence", shared.ErrForbidden, "application %d belongs to another student", applicationID)
	}
	listing, err := s.catalog.GetInternship(ctx, app.InternshipID)
	if err != nil {
		return nil, err
	}
	if !listing.HasFee {
		return nil, shared.NewError(domain, "AttachEvidence", shared.ErrInvalidInput, "internship %d has no fee", app.InternshipID)
	}

	from := app.Status
	if err := s.transition(ctx, app, internshipModels.ApplicationUnderReview, map[string]interface{}{
		"payment_evidence_ref": evidenceRef,
	}); err != nil {
		return nil, err
	}
	s.record(ctx, app, from, app.Status, audit.Actor{ID: studentID, Role: models.RoleStudent}, "", events.ApplicationUnderReview)
	return app, nil
}

// StartReview picks up a submitted application to a no-fee internship.
func (s *Service) StartReview(ctx context.Context, admin audit.Actor, applicationID uint) (*internshipModels.Application, error) {
	if admin.Role != models.RoleAdmin {
		return nil, shared.NewError(domain, "StartReview", shared.ErrForbidden, "only admins review applications")
	}
	app, err := s.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	listing, err := s.catalog.GetInternship(ctx, app.InternshipID)
	if err != nil {
		return nil, err
	}
	if listing.HasFee && app.PaymentEvidenceRef == "" {
		return nil, shared.NewError(domain, "StartReview", shared.ErrPreconditionNotMet,
			"application %d is waiting for payment evidence", applicationID)
	}

	from := app.Status
	if err := s.transition(ctx, app, internshipModels.ApplicationUnderReview, map[string]interface{}{}); err != nil {
		return nil, err
	}
	s.record(ctx, app, from, app.Status, admin, "", events.ApplicationUnderReview)
	return app, nil
}

// Decide accepts or rejects an application under review.
func (s *Service) Decide(ctx context.Context, admin audit.Actor, applicationID uint, decision Decision, reason string) (*internshipModels.Application, error) {
	if admin.Role != models.RoleAdmin {
		return nil, shared.NewError(domain, "Decide", shared.ErrForbidden, "only admins decide applications")
	}
	app, err := s.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	var to Status
	switch decision {
	case Accept:
		to = internshipModels.ApplicationAccepted
		listing, err := s.catalog.GetInternship(ctx, app.InternshipID)
		if err != nil {
			return nil, err
		}
		if listing.HasFee && app.PaymentEvidenceRef == "" {
			return nil, shared.NewError(domain, "Decide", shared.ErrPreconditionNotMet,
				"application %d has no payment evidence", applicationID)
		}
	case Reject:
		to = internshipModels.ApplicationRejected
		if reason == "" {
			return nil, shared.NewError(domain, "Decide", shared.ErrInvalidInput, "a rejection needs a reason")
		}
	default:
		return nil, shared.NewError(domain, "Decide", shared.ErrInvalidInput, "unknown decision %q", decision)
	}

	from := app.Status
	if err := s.transition(ctx, app, to, map[string]interface{}{
		"decided_at":      s.now(),
		"decided_by":      admin.ID,
		"decision_reason": reason,
	}); err != nil {
		return nil, err
	}
	s.record(ctx, app, from, app.Status, admin, reason, events.ApplicationDecided)
	return app, nil
}

func (s *Service) transition(ctx context.Context, app *internshipModels.Application, to Status, updates map[string]interface{}) error {
	if !CanTransition(app.Status, to) {
		return shared.NewError(domain, "Transition", shared.ErrInvalidTransition,
			"application %d cannot move %s -> %s", app.ID, app.Status, to)
	}

	updates["status"] = to
	updates["version"] = app.Version + 1
	if to == internshipModels.ApplicationRejected {
		updates["seat_key"] = nil
	}

	res := s.db.WithContext(ctx).Model(&internshipModels.Application{}).
		Where("id = ? AND version = ?", app.ID, app.Version).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update application %d: %w", app.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return shared.NewError(domain, "Transition", shared.ErrConcurrentModification,
			"application %d changed while moving %s -> %s", app.ID, app.Status, to)
	}
	return s.db.WithContext(ctx).First(app, app.ID).Error
}

func (s *Service) record(ctx context.Context, app *internshipModels.Application, from, to Status, actor audit.Actor, reason string, event events.Type) {
	s.trail.Append(ctx, audit.EntityApplication, app.ID, string(from), string(to), actor, reason)
	s.publisher.Publish(ctx, events.Event{
		Type:          event,
		UserID:        app.UserID,
		InternshipID:  app.InternshipID,
		ApplicationID: app.ID,
		Status:        string(to),
		Reason:        reason,
		OccurredAt:    s.now(),
	})
}
