package courseController

import (
	"learnhub/middleware"
	courseModels "learnhub/models/course"
	"learnhub/services"
	"learnhub/services/enrollment"
	"learnhub/services/shared"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

func AdminListEnrollments(c *fiber.Ctx) error {
	reqData := c.Locals("validatedEnrollmentList").(*courseValidator.EnrollmentListQuery)

	filter := enrollment.ListFilter{
		Status:   courseModels.EnrollmentStatus(reqData.Status),
		CourseID: reqData.CourseID,
		Page:     reqData.Page,
		Limit:    reqData.Limit,
	}
	enrollments, total, err := services.Services.Enrollments.ListByStatus(c.UserContext(), filter)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch enrollments!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully.", fiber.Map{
		"enrollments": enrollments,
		"total":       total,
		"page":        max(reqData.Page, 1),
	})
}

func AdminReviewEnrollment(c *fiber.Ctx) error {
	admin, ok := middleware.Actor(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	enrollmentID := c.Locals("id").(uint)
	reqData := c.Locals("validatedReview").(*courseValidator.ReviewRequest)

	var result *courseModels.Enrollment
	err := shared.RetryOnConflict(func() (err error) {
		result, err = services.Services.Enrollments.ReviewEnrollment(c.UserContext(), admin, enrollmentID,
			enrollment.Decision(reqData.Decision), reqData.AmountPaid, reqData.Reason)
		return err
	})
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to review enrollment!")
	}

	message := "Enrollment approved."
	if result.Status == courseModels.EnrollmentRejected {
		message = "Enrollment rejected."
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, result)
}

func AdminRefundEnrollment(c *fiber.Ctx) error {
	admin, ok := middleware.Actor(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	enrollmentID := c.Locals("id").(uint)
	reqData := c.Locals("validatedReason").(*courseValidator.ReasonRequest)

	var result *courseModels.Enrollment
	err := shared.RetryOnConflict(func() (err error) {
		result, err = services.Services.Enrollments.Refund(c.UserContext(), admin, enrollmentID, reqData.Reason)
		return err
	})
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to refund enrollment!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment refunded.", result)
}

func AdminCancelEnrollment(c *fiber.Ctx) error {
	admin, ok := middleware.Actor(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	enrollmentID := c.Locals("id").(uint)
	reqData := c.Locals("validatedReason").(*courseValidator.ReasonRequest)

	var result *courseModels.Enrollment
	err := shared.RetryOnConflict(func() (err error) {
		result, err = services.Services.Enrollments.Cancel(c.UserContext(), admin, enrollmentID, reqData.Reason)
		return err
	})
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to cancel enrollment!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment cancelled.", result)
}

func AdminEnrollmentAudit(c *fiber.Ctx) error {
	enrollmentID := c.Locals("id").(uint)

	if _, err := services.Services.Enrollments.Get(c.UserContext(), enrollmentID); err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch audit trail!")
	}
	entries, err := services.Services.Enrollments.AuditTrail(c.UserContext(), enrollmentID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch audit trail!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Audit trail fetched successfully.", entries)
}
