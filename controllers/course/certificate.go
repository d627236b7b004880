package courseController

import (
	"learnhub/middleware"
	"learnhub/services"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// GetCourseCertificate returns the student's certificate for the course,
// issuing it first when the course was finished before the certificate
// hook ran.
func GetCourseCertificate(c *fiber.Ctx) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("course_id").(uint)

	cert, err := services.Services.Certificates.IssueIfEligible(c.UserContext(), actor.ID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch certificate!")
	}
	if cert == nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not available yet. Complete the course first.", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate fetched successfully.", cert)
}

func GetUserCertificates(c *fiber.Ctx) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	certs, err := services.Services.Certificates.ListForStudent(c.UserContext(), actor.ID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch certificates!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully.", certs)
}

// VerifyCertificate is public: anyone holding a certificate number can
// check it.
func VerifyCertificate(c *fiber.Ctx) error {
	number := strings.ToUpper(strings.TrimSpace(c.Params("number")))
	if number == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Certificate number is required!", nil)
	}

	verification, err := services.Services.Certificates.VerifyByNumber(c.UserContext(), number)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to verify certificate!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate is valid.", verification)
}
