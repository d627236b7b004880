package courseValidator

import (
	commonValidator "learnhub/validators/common"

	"github.com/gofiber/fiber/v2"
)

type EnrollRequest struct {
	EvidenceRef string `json:"evidence_ref" validate:"omitempty,max=512"`
}

type EvidenceRequest struct {
	EvidenceRef string `json:"evidence_ref" validate:"required,max=512"`
}

type ReasonRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type ReviewRequest struct {
	Decision   string   `json:"decision" validate:"required,oneof=APPROVE REJECT"`
	AmountPaid *float64 `json:"amount_paid" validate:"omitempty,min=0"`
	Reason     string   `json:"reason" validate:"max=500"`
}

type EnrollmentListQuery struct {
	Status   string `query:"status" validate:"omitempty,oneof=REQUESTED PAYMENT_PENDING UNDER_REVIEW ACTIVE REJECTED COMPLETED REFUNDED CANCELLED"`
	CourseID uint   `query:"course_id"`
	Page     int    `query:"page" validate:"omitempty,min=1"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

func EnrollCourse() fiber.Handler {
	return commonValidator.Body[EnrollRequest]("validatedEnroll")
}

func AttachEvidence() fiber.Handler {
	return commonValidator.Body[EvidenceRequest]("validatedEvidence")
}

func Reason() fiber.Handler {
	return commonValidator.Body[ReasonRequest]("validatedReason")
}

func ReviewEnrollment() fiber.Handler {
	return commonValidator.Body[ReviewRequest]("validatedReview")
}

func EnrollmentList() fiber.Handler {
	return commonValidator.Query[EnrollmentListQuery]("validatedEnrollmentList")
}
