package internshipValidator

import (
	commonValidator "learnhub/validators/common"

	"github.com/gofiber/fiber/v2"
)

type ApplyRequest struct {
	ResumeRef    string   `json:"resume_ref" validate:"required,max=512"`
	ProfileLinks []string `json:"profile_links" validate:"max=10,dive,url"`
	EvidenceRef  string   `json:"evidence_ref" validate:"omitempty,max=512"`
}

type DecideRequest struct {
	Decision string `json:"decision" validate:"required,oneof=ACCEPT REJECT"`
	Reason   string `json:"reason" validate:"max=500"`
}

type ApplicationListQuery struct {
	Status       string `query:"status" validate:"omitempty,oneof=SUBMITTED UNDER_REVIEW ACCEPTED REJECTED"`
	InternshipID uint   `query:"internship_id"`
	Page         int    `query:"page" validate:"omitempty,min=1"`
	Limit        int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

type InternshipRequest struct {
	Title       string  `json:"title" validate:"required,min=3,max=200"`
	Company     string  `json:"company" validate:"required,max=200"`
	Description string  `json:"description"`
	Fee         float64 `json:"fee" validate:"min=0"`
}

func Apply() fiber.Handler {
	return commonValidator.Body[ApplyRequest]("validatedApplication")
}

func Decide() fiber.Handler {
	return commonValidator.Body[DecideRequest]("validatedDecision")
}

func ApplicationList() fiber.Handler {
	return commonValidator.Query[ApplicationListQuery]("validatedApplicationList")
}

func CreateInternship() fiber.Handler {
	return commonValidator.Body[InternshipRequest]("validatedInternship")
}
