package middleware

import (
	"errors"
	"learnhub/services/shared"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

var errorStatus = []struct {
	kind   error
	status int
}{
	{shared.ErrNotFound, fiber.StatusNotFound},
	{shared.ErrInvalidInput, fiber.StatusBadRequest},
	{shared.ErrForbidden, fiber.StatusForbidden},
	{shared.ErrAccessDenied, fiber.StatusForbidden},
	{shared.ErrNotUnlocked, fiber.StatusForbidden},
	{shared.ErrCourseUnavailable, fiber.StatusUnprocessableEntity},
	{shared.ErrPreconditionNotMet, fiber.StatusUnprocessableEntity},
	{shared.ErrInvalidTransition, fiber.StatusConflict},
	{shared.ErrAlreadyEnrolled, fiber.StatusConflict},
	{shared.ErrCourseAlreadyCompleted, fiber.StatusConflict},
	{shared.ErrAlreadyApplied, fiber.StatusConflict},
	{shared.ErrDuplicateCertificate, fiber.StatusConflict},
	{shared.ErrConcurrentModification, fiber.StatusConflict},
}

// StatusFor maps a service error to its HTTP status.
func StatusFor(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.kind) {
			return e.status
		}
	}
	return fiber.StatusInternalServerError
}

// ErrorResponse writes a service error in the standard envelope. Unknown
// errors are logged and hidden behind fallback.
func ErrorResponse(c *fiber.Ctx, err error, fallback string) error {
	status := StatusFor(err)
	if status == fiber.StatusInternalServerError {
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		return JsonResponse(c, status, false, fallback, nil)
	}

	var de *shared.DomainError
	if errors.As(err, &de) {
		return JsonResponse(c, status, false, de.Message, fiber.Map{"code": de.Kind.Error()})
	}
	return JsonResponse(c, status, false, err.Error(), nil)
}
