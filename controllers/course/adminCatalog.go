package courseController

import (
	"learnhub/middleware"
	courseModels "learnhub/models/course"
	"learnhub/services"
	"learnhub/services/catalog"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

func AdminCreateCourse(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCourse").(*courseValidator.CourseRequest)

	in := catalog.CourseInput{
		Title:                     reqData.Title,
		Description:               reqData.Description,
		Author:                    reqData.Author,
		Price:                     reqData.Price,
		ThumbnailURL:              reqData.ThumbnailURL,
		RequireSequentialProgress: true,
	}
	if reqData.RequireSequentialProgress != nil {
		in.RequireSequentialProgress = *reqData.RequireSequentialProgress
	}

	course, err := services.Services.Catalog.CreateCourse(c.UserContext(), in)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to create course!")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully.", course)
}

func AdminPublishCourse(c *fiber.Ctx) error {
	courseID := c.Locals("course_id").(uint)
	reqData := c.Locals("validatedPublish").(*courseValidator.PublishRequest)

	if err := services.Services.Catalog.PublishCourse(c.UserContext(), courseID, reqData.Publish); err != nil {
		return middleware.ErrorResponse(c, err, "Failed to update course!")
	}

	message := "Course unpublished."
	if reqData.Publish {
		message = "Course published."
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, nil)
}

func AdminSetFinalAssessment(c *fiber.Ctx) error {
	courseID := c.Locals("course_id").(uint)
	reqData := c.Locals("validatedFinalAssessment").(*courseValidator.FinalAssessmentRequest)

	if err := services.Services.Catalog.SetFinalAssessment(c.UserContext(), courseID, reqData.SessionID); err != nil {
		return middleware.ErrorResponse(c, err, "Failed to set final assessment!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Final assessment set.", nil)
}

func AdminCreateModule(c *fiber.Ctx) error {
	courseID := c.Locals("course_id").(uint)
	reqData := c.Locals("validatedModule").(*courseValidator.ModuleRequest)

	module, err := services.Services.Catalog.CreateModule(c.UserContext(), courseID, reqData.Title, reqData.Description, reqData.OrderIndex)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to create module!")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully.", module)
}

func AdminCreateSession(c *fiber.Ctx) error {
	moduleID := c.Locals("module_id").(uint)
	reqData := c.Locals("validatedSession").(*courseValidator.SessionRequest)

	session, err := services.Services.Catalog.CreateSession(c.UserContext(), moduleID, catalog.SessionInput{
		Title:                   reqData.Title,
		Type:                    courseModels.SessionType(reqData.SessionType),
		ContentURL:              reqData.ContentURL,
		OrderIndex:              reqData.OrderIndex,
		DurationSeconds:         reqData.DurationSeconds,
		RequiredWatchPercentage: reqData.RequiredWatchPercentage,
		PassingScore:            reqData.PassingScore,
		IsFree:                  reqData.IsFree,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to create session!")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Session created successfully.", session)
}

func AdminAddQuizQuestion(c *fiber.Ctx) error {
	sessionID := c.Locals("session_id").(uint)
	reqData := c.Locals("validatedQuestion").(*courseValidator.QuestionRequest)

	options := make([]catalog.OptionInput, 0, len(reqData.Options))
	for _, o := range reqData.Options {
		options = append(options, catalog.OptionInput{Text: o.Text, IsCorrect: o.IsCorrect})
	}

	question, err := services.Services.Catalog.AddQuizQuestion(c.UserContext(), sessionID, reqData.Prompt, reqData.Points, options)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to add question!")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Question added successfully.", question)
}

func AdminGetCourseStructure(c *fiber.Ctx) error {
	courseID := c.Locals("course_id").(uint)

	structure, err := services.Services.Catalog.GetCourseStructure(c.UserContext(), courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch course!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully.", structure)
}

func AdminDashboardStats(c *fiber.Ctx) error {
	stats, err := services.Services.Dashboard.Stats(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch dashboard stats!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully.", stats)
}
