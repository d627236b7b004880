package evidenceController

import (
	"errors"
	"learnhub/middleware"
	"learnhub/utils"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Store is replaced in tests.
var Store utils.EvidenceStore

// UploadEvidence stores a payment screenshot or resume and returns the
// reference to submit with an enrollment or application.
func UploadEvidence(c *fiber.Ctx) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "File is required!", nil)
	}

	ref, err := Store.Upload(c.UserContext(), file)
	if errors.Is(err, utils.ErrUnsupportedEvidence) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
	}
	if err != nil {
		slog.Error("upload evidence", "user_id", actor.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to upload file!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "File uploaded successfully.", fiber.Map{
		"evidence_ref": ref,
	})
}
