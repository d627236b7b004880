package courseValidator

import (
	commonValidator "learnhub/validators/common"

	"github.com/gofiber/fiber/v2"
)

type CourseRequest struct {
	Title                     string  `json:"title" validate:"required,min=3,max=200"`
	Description               string  `json:"description"`
	Author                    string  `json:"author" validate:"max=100"`
	Price                     float64 `json:"price" validate:"min=0"`
	ThumbnailURL              string  `json:"thumbnail_url" validate:"omitempty,url"`
	RequireSequentialProgress *bool   `json:"require_sequential_progress"`
}

type PublishRequest struct {
	Publish bool `json:"publish"`
}

type ModuleRequest struct {
	Title       string `json:"title" validate:"required,min=2,max=200"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index" validate:"min=0"`
}

type SessionRequest struct {
	Title                   string `json:"title" validate:"required,min=2,max=200"`
	SessionType             string `json:"session_type" validate:"required,oneof=VIDEO LIVE RECORDED ARTICLE PDF QUIZ ASSIGNMENT"`
	ContentURL              string `json:"content_url" validate:"max=1024"`
	OrderIndex              int    `json:"order_index" validate:"min=0"`
	DurationSeconds         int    `json:"duration_seconds" validate:"min=0"`
	RequiredWatchPercentage int    `json:"required_watch_percentage" validate:"min=0,max=100"`
	PassingScore            int    `json:"passing_score" validate:"min=0,max=100"`
	IsFree                  bool   `json:"is_free"`
}

type OptionRequest struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionRequest struct {
	Prompt  string          `json:"prompt" validate:"required"`
	Points  int             `json:"points" validate:"min=0"`
	Options []OptionRequest `json:"options" validate:"required,min=2,dive"`
}

type FinalAssessmentRequest struct {
	SessionID uint `json:"session_id" validate:"required"`
}

func CreateCourse() fiber.Handler {
	return commonValidator.Body[CourseRequest]("validatedCourse")
}

func PublishCourse() fiber.Handler {
	return commonValidator.Body[PublishRequest]("validatedPublish")
}

func CreateModule() fiber.Handler {
	return commonValidator.Body[ModuleRequest]("validatedModule")
}

func CreateSession() fiber.Handler {
	return commonValidator.Body[SessionRequest]("validatedSession")
}

func AddQuestion() fiber.Handler {
	return commonValidator.Body[QuestionRequest]("validatedQuestion")
}

func SetFinalAssessment() fiber.Handler {
	return commonValidator.Body[FinalAssessmentRequest]("validatedFinalAssessment")
}
