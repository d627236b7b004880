package internshipController

import (
	"learnhub/middleware"
	internshipModels "learnhub/models/internship"
	"learnhub/services"
	"learnhub/services/internship"
	"learnhub/services/shared"
	courseValidator "learnhub/validators/course"
	internshipValidator "learnhub/validators/internship"

	"github.com/gofiber/fiber/v2"
)

func ApplyToInternship(c *fiber.Ctx) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	internshipID := c.Locals("id").(uint)
	reqData := c.Locals("validatedApplication").(*internshipValidator.ApplyRequest)

	app, err := services.Services.Internships.Apply(c.UserContext(), actor.ID, internshipID, internship.ApplyInput{
		ResumeRef:    reqData.ResumeRef,
		ProfileLinks: reqData.ProfileLinks,
		EvidenceRef:  reqData.EvidenceRef,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to submit application!")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Application submitted successfully.", app)
}

func AttachApplicationEvidence(c *fiber.Ctx) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	applicationID := c.Locals("id").(uint)
	reqData := c.Locals("validatedEvidence").(*courseValidator.EvidenceRequest)

	var app *internshipModels.Application
	err := shared.RetryOnConflict(func() (err error) {
		app, err = services.Services.Internships.AttachPaymentEvidence(c.UserContext(), actor.ID, applicationID, reqData.EvidenceRef)
		return err
	})
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to attach payment evidence!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment evidence submitted for review.", app)
}

func GetUserApplications(c *fiber.Ctx) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	apps, err := services.Services.Internships.ListForStudent(c.UserContext(), actor.ID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch applications!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Applications fetched successfully.", apps)
}
