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

func AdminListApplications(c *fiber.Ctx) error {
	reqData := c.Locals("validatedApplicationList").(*internshipValidator.ApplicationListQuery)

	apps, total, err := services.Services.Internships.ListByStatus(c.UserContext(), internship.ListFilter{
		Status:       internshipModels.ApplicationStatus(reqData.Status),
		InternshipID: reqData.InternshipID,
		Page:         reqData.Page,
		Limit:        reqData.Limit,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch applications!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Applications fetched successfully.", fiber.Map{
		"applications": apps,
		"total":        total,
		"page":         max(reqData.Page, 1),
	})
}

func AdminStartReview(c *fiber.Ctx) error {
	admin, ok := middleware.Actor(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	applicationID := c.Locals("id").(uint)

	var app *internshipModels.Application
	err := shared.RetryOnConflict(func() (err error) {
		app, err = services.Services.Internships.StartReview(c.UserContext(), admin, applicationID)
		return err
	})
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to start review!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Application is under review.", app)
}

func AdminDecideApplication(c *fiber.Ctx) error {
	admin, ok := middleware.Actor(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	applicationID := c.Locals("id").(uint)
	reqData := c.Locals("validatedDecision").(*internshipValidator.DecideRequest)

	var app *internshipModels.Application
	err := shared.RetryOnConflict(func() (err error) {
		app, err = services.Services.Internships.Decide(c.UserContext(), admin, applicationID,
			internship.Decision(reqData.Decision), reqData.Reason)
		return err
	})
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to record decision!")
	}

	message := "Application accepted."
	if app.Status == internshipModels.ApplicationRejected {
		message = "Application rejected."
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, app)
}

func AdminApplicationAudit(c *fiber.Ctx) error {
	applicationID := c.Locals("id").(uint)

	if _, err := services.Services.Internships.Get(c.UserContext(), applicationID); err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch audit trail!")
	}
	entries, err := services.Services.Internships.AuditTrail(c.UserContext(), applicationID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch audit trail!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Audit trail fetched successfully.", entries)
}

func AdminCreateInternship(c *fiber.Ctx) error {
	reqData := c.Locals("validatedInternship").(*internshipValidator.InternshipRequest)

	listing, err := services.Services.Catalog.CreateInternship(c.UserContext(), reqData.Title, reqData.Company, reqData.Description, reqData.Fee)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to create internship!")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Internship created successfully.", listing)
}

func AdminPublishInternship(c *fiber.Ctx) error {
	internshipID := c.Locals("id").(uint)
	reqData := c.Locals("validatedPublish").(*courseValidator.PublishRequest)

	if err := services.Services.Catalog.PublishInternship(c.UserContext(), internshipID, reqData.Publish); err != nil {
		return middleware.ErrorResponse(c, err, "Failed to update internship!")
	}

	message := "Internship unpublished."
	if reqData.Publish {
		message = "Internship published."
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, nil)
}
