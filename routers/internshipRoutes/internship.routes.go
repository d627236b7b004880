package internshipRoutes

import (
	controllers "learnhub/controllers/internship"
	"learnhub/middleware"
	"learnhub/models"
	commonValidator "learnhub/validators/common"
	courseValidator "learnhub/validators/course"
	validators "learnhub/validators/internship"

	"github.com/gofiber/fiber/v2"
)

func SetupInternshipRoutes(app *fiber.App) {
	apply := middleware.CheckPermissionMiddleware(models.PermApplyInternship)

	app.Post("/internship/:id/apply", middleware.JWTMiddleware, apply, commonValidator.Params("id"), validators.Apply(), controllers.ApplyToInternship)
	app.Post("/application/:id/evidence", middleware.JWTMiddleware, apply, commonValidator.Params("id"), courseValidator.AttachEvidence(), controllers.AttachApplicationEvidence)
	app.Get("/user/applications", middleware.JWTMiddleware, controllers.GetUserApplications)
}

func SetupAdminInternshipRoutes(app *fiber.App) {
	review := middleware.CheckPermissionMiddleware(models.PermReviewApplication)
	manage := middleware.CheckPermissionMiddleware(models.PermManageCatalog)

	adminGroup := app.Group("/admin")

	adminGroup.Get("/applications", middleware.JWTMiddleware, review, validators.ApplicationList(), controllers.AdminListApplications)
	adminGroup.Post("/application/:id/start-review", middleware.JWTMiddleware, review, commonValidator.Params("id"), controllers.AdminStartReview)
	adminGroup.Post("/application/:id/decide", middleware.JWTMiddleware, review, commonValidator.Params("id"), validators.Decide(), controllers.AdminDecideApplication)
	adminGroup.Get("/application/:id/audit", middleware.JWTMiddleware, review, commonValidator.Params("id"), controllers.AdminApplicationAudit)

	adminGroup.Post("/internship/create", middleware.JWTMiddleware, manage, validators.CreateInternship(), controllers.AdminCreateInternship)
	adminGroup.Post("/internship/:id/publish", middleware.JWTMiddleware, manage, commonValidator.Params("id"), courseValidator.PublishCourse(), controllers.AdminPublishInternship)
}
