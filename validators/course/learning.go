package courseValidator

import (
	"learnhub/middleware"
	commonValidator "learnhub/validators/common"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type HeartbeatRequest struct {
	From int `json:"from" validate:"min=0"`
	To   int `json:"to" validate:"min=0"`
}

type CompleteSessionRequest struct {
	Acknowledged bool `json:"acknowledged"`
}

type QuizSubmitRequest struct {
	Answers map[string][]uint `json:"answers" validate:"required"`
}

func Heartbeat() fiber.Handler {
	return commonValidator.Body[HeartbeatRequest]("validatedHeartbeat")
}

func CompleteSession() fiber.Handler {
	return commonValidator.Body[CompleteSessionRequest]("validatedComplete")
}

// SubmitQuiz parses the answer sheet and stores it keyed by question id.
func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(QuizSubmitRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if errs := commonValidator.Struct(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		answers := make(map[uint][]uint, len(reqData.Answers))
		for key, options := range reqData.Answers {
			questionID, err := strconv.ParseUint(key, 10, 64)
			if err != nil || questionID == 0 {
				return middleware.ValidationErrorResponse(c, map[string]string{"answers": "Question ids must be positive integers!"})
			}
			answers[uint(questionID)] = options
		}
		c.Locals("validatedAnswers", answers)
		return c.Next()
	}
}
