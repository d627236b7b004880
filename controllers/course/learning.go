package courseController

import (
	"learnhub/middleware"
	"learnhub/services"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

func GetCourseSessions(c *fiber.Ctx) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("course_id").(uint)

	sessions, err := services.Services.Progress.GetUnlockedSessions(c.UserContext(), actor.ID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch sessions!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Sessions fetched successfully.", sessions)
}

func GetCourseProgress(c *fiber.Ctx) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("course_id").(uint)

	report, err := services.Services.Progress.GetProgressReport(c.UserContext(), actor.ID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch progress!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully.", report)
}

func RecordHeartbeat(c *fiber.Ctx) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("course_id").(uint)
	sessionID := c.Locals("session_id").(uint)
	reqData := c.Locals("validatedHeartbeat").(*courseValidator.HeartbeatRequest)

	progress, err := services.Services.Progress.RecordWatchHeartbeat(c.UserContext(), actor.ID, courseID, sessionID, reqData.From, reqData.To)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to record watch time!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Watch time recorded.", progress)
}

func MarkSessionComplete(c *fiber.Ctx) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("course_id").(uint)
	sessionID := c.Locals("session_id").(uint)
	reqData := c.Locals("validatedComplete").(*courseValidator.CompleteSessionRequest)

	result, err := services.Services.Progress.MarkSessionComplete(c.UserContext(), actor.ID, courseID, sessionID, reqData.Acknowledged)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to complete session!")
	}

	message := "Session completed."
	if result.CourseCompleted {
		message = "Session completed. Congratulations, you finished the course!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, result)
}

func SubmitQuiz(c *fiber.Ctx) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("course_id").(uint)
	sessionID := c.Locals("session_id").(uint)
	answers := c.Locals("validatedAnswers").(map[uint][]uint)

	result, err := services.Services.Assessments.SubmitQuizAttempt(c.UserContext(), actor.ID, courseID, sessionID, answers)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to submit quiz!")
	}

	message := "Quiz not passed. You can try again."
	if result.Attempt.Passed {
		message = "Quiz passed!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, result)
}

func GetQuizAttempts(c *fiber.Ctx) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("course_id").(uint)
	sessionID := c.Locals("session_id").(uint)

	if _, err := services.Services.Enrollments.FindAccessible(c.UserContext(), actor.ID, courseID); err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch attempts!")
	}
	attempts, err := services.Services.Assessments.ListAttempts(c.UserContext(), actor.ID, sessionID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch attempts!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempts fetched successfully.", attempts)
}
