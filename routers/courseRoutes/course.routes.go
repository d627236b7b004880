package courseRoutes

import (
	controllers "learnhub/controllers/course"
	evidenceControllers "learnhub/controllers/evidence"
	"learnhub/middleware"
	"learnhub/models"
	commonValidator "learnhub/validators/common"
	validators "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	auth := middleware.JWTMiddleware
	enroll := middleware.CheckPermissionMiddleware(models.PermEnroll)
	learn := middleware.CheckPermissionMiddleware(models.PermLearn)

	app.Post("/evidence/upload", auth, evidenceControllers.UploadEvidence)

	userGroup := app.Group("/course")

	// Enrollment
	userGroup.Post("/:id/enroll", auth, enroll, commonValidator.Params("id"), validators.EnrollCourse(), controllers.EnrollInCourse)

	// Learning (for enrolled users)
	courseParams := commonValidator.Params("course_id")
	sessionParams := commonValidator.Params("course_id", "session_id")
	userGroup.Get("/:course_id/sessions", auth, learn, courseParams, controllers.GetCourseSessions)
	userGroup.Get("/:course_id/progress", auth, learn, courseParams, controllers.GetCourseProgress)
	userGroup.Post("/:course_id/session/:session_id/heartbeat", auth, learn, sessionParams, validators.Heartbeat(), controllers.RecordHeartbeat)
	userGroup.Post("/:course_id/session/:session_id/complete", auth, learn, sessionParams, validators.CompleteSession(), controllers.MarkSessionComplete)
	userGroup.Post("/:course_id/session/:session_id/quiz/submit", auth, learn, sessionParams, validators.SubmitQuiz(), controllers.SubmitQuiz)
	userGroup.Get("/:course_id/session/:session_id/quiz/attempts", auth, learn, sessionParams, controllers.GetQuizAttempts)
	userGroup.Get("/:course_id/certificate", auth, learn, courseParams, controllers.GetCourseCertificate)

	enrollmentGroup := app.Group("/enrollment")
	enrollmentGroup.Post("/:id/evidence", auth, enroll, commonValidator.Params("id"), validators.AttachEvidence(), controllers.AttachEnrollmentEvidence)
	enrollmentGroup.Post("/:id/cancel", auth, enroll, commonValidator.Params("id"), validators.Reason(), controllers.CancelEnrollment)

	// User enrollments and certificates
	userEnrollGroup := app.Group("/user")
	userEnrollGroup.Get("/enrollments", auth, controllers.GetUserEnrollments)
	userEnrollGroup.Get("/certificates", auth, controllers.GetUserCertificates)

	// Public certificate verification
	app.Get("/certificates/verify/:number", controllers.VerifyCertificate)
}
