package courseRoutes

import (
	controllers "learnhub/controllers/course"
	"learnhub/middleware"
	"learnhub/models"
	commonValidator "learnhub/validators/common"
	validators "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up all admin course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	review := middleware.CheckPermissionMiddleware(models.PermReviewEnrollments)
	manage := middleware.CheckPermissionMiddleware(models.PermManageCatalog)
	dashboard := middleware.CheckPermissionMiddleware(models.PermViewDashboard)

	adminGroup := app.Group("/admin")

	// Enrollment review
	adminGroup.Get("/enrollments", middleware.JWTMiddleware, review, validators.EnrollmentList(), controllers.AdminListEnrollments)
	adminGroup.Post("/enrollment/:id/review", middleware.JWTMiddleware, review, commonValidator.Params("id"), validators.ReviewEnrollment(), controllers.AdminReviewEnrollment)
	adminGroup.Post("/enrollment/:id/refund", middleware.JWTMiddleware, review, commonValidator.Params("id"), validators.Reason(), controllers.AdminRefundEnrollment)
	adminGroup.Post("/enrollment/:id/cancel", middleware.JWTMiddleware, review, commonValidator.Params("id"), validators.Reason(), controllers.AdminCancelEnrollment)
	adminGroup.Get("/enrollment/:id/audit", middleware.JWTMiddleware, review, commonValidator.Params("id"), controllers.AdminEnrollmentAudit)

	// Catalog authoring
	adminGroup.Post("/course/create", middleware.JWTMiddleware, manage, validators.CreateCourse(), controllers.AdminCreateCourse)
	adminGroup.Get("/course/:course_id", middleware.JWTMiddleware, manage, commonValidator.Params("course_id"), controllers.AdminGetCourseStructure)
	adminGroup.Post("/course/:course_id/publish", middleware.JWTMiddleware, manage, commonValidator.Params("course_id"), validators.PublishCourse(), controllers.AdminPublishCourse)
	adminGroup.Post("/course/:course_id/final-assessment", middleware.JWTMiddleware, manage, commonValidator.Params("course_id"), validators.SetFinalAssessment(), controllers.AdminSetFinalAssessment)
	adminGroup.Post("/course/:course_id/module", middleware.JWTMiddleware, manage, commonValidator.Params("course_id"), validators.CreateModule(), controllers.AdminCreateModule)
	adminGroup.Post("/module/:module_id/session", middleware.JWTMiddleware, manage, commonValidator.Params("module_id"), validators.CreateSession(), controllers.AdminCreateSession)
	adminGroup.Post("/session/:session_id/question", middleware.JWTMiddleware, manage, commonValidator.Params("session_id"), validators.AddQuestion(), controllers.AdminAddQuizQuestion)

	adminGroup.Get("/dashboard/stats", middleware.JWTMiddleware, dashboard, controllers.AdminDashboardStats)
}
