package courseController

import (
	"learnhub/middleware"
	courseModels "learnhub/models/course"
	"learnhub/services"
	"learnhub/services/shared"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

func EnrollInCourse(c *fiber.Ctx) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("id").(uint)
	reqData := c.Locals("validatedEnroll").(*courseValidator.EnrollRequest)

	enrollment, err := services.Services.Enrollments.RequestEnrollment(c.UserContext(), actor.ID, courseID, reqData.EvidenceRef)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to enroll in course!")
	}

	message := "Enrolled in course successfully!"
	if enrollment.Status != courseModels.EnrollmentActive {
		message = "Enrollment requested. Access is granted once payment is verified."
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, message, enrollment)
}

func AttachEnrollmentEvidence(c *fiber.Ctx) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	enrollmentID := c.Locals("id").(uint)
	reqData := c.Locals("validatedEvidence").(*courseValidator.EvidenceRequest)

	var enrollment *courseModels.Enrollment
	err := shared.RetryOnConflict(func() (err error) {
		enrollment, err = services.Services.Enrollments.AttachPaymentEvidence(c.UserContext(), actor.ID, enrollmentID, reqData.EvidenceRef)
		return err
	})
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to attach payment evidence!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment evidence submitted for review.", enrollment)
}

func CancelEnrollment(c *fiber.Ctx) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	enrollmentID := c.Locals("id").(uint)
	reqData := c.Locals("validatedReason").(*courseValidator.ReasonRequest)

	var enrollment *courseModels.Enrollment
	err := shared.RetryOnConflict(func() (err error) {
		enrollment, err = services.Services.Enrollments.Cancel(c.UserContext(), actor, enrollmentID, reqData.Reason)
		return err
	})
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to cancel enrollment!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment cancelled.", enrollment)
}

func GetUserEnrollments(c *fiber.Ctx) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollments, err := services.Services.Enrollments.ListForStudent(c.UserContext(), actor.ID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch enrollments!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully.", enrollments)
}
