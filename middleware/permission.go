package middleware

import (
	"errors"
	"learnhub/database"
	"learnhub/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CheckPermissionMiddleware returns a middleware that checks if the user has the required permission
func CheckPermissionMiddleware(requiredPermission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
		}

		var permission models.Permission
		err := database.Database.Db.Where("user_id = ? AND permission = ? AND is_deleted = ?",
			userID, requiredPermission, false).First(&permission).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
			}
			return JsonResponse(c, fiber.StatusInternalServerError, false, "Server error while checking permissions!", nil)
		}

		// Admin permissions only count for admin tokens
		if permission.Role == models.RoleAdmin && c.Locals("role") != models.RoleAdmin {
			return JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
		}
		return c.Next()
	}
}
