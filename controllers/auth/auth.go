package authController

import (
	"errors"
	"learnhub/config"
	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	authValidator "learnhub/validators/auth"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Signup(c *fiber.Ctx) error {
	reqData := c.Locals("validatedUser").(*authValidator.SignupRequest)
	db := database.Database.Db
	email := strings.ToLower(strings.TrimSpace(reqData.Email))

	// Check if email already exists
	if err := db.Where("email = ?", email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		slog.Error("hash password", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Name:     reqData.Name,
		Email:    email,
		Mobile:   reqData.Mobile,
		Role:     models.RoleStudent,
		Password: string(hashedPassword),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newUser).Error; err != nil {
			return err
		}
		return SeedPermissions(tx, newUser.Role, newUser.ID)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}
	if err != nil {
		slog.Error("signup", "email", email, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to Signup user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", newUser)
}

// SeedPermissions seeds default permissions for a given role and user ID
func SeedPermissions(db *gorm.DB, role string, userID uint) error {
	var permissionRecords []models.Permission
	for _, p := range models.DefaultPermissions(role) {
		permissionRecords = append(permissionRecords, models.Permission{
			UserID:     userID,
			Role:       role,
			Permission: p,
		})
	}
	return db.Create(&permissionRecords).Error
}

func Login(c *fiber.Ctx) error {
	reqData := c.Locals("validatedUser").(*authValidator.LoginRequest)
	db := database.Database.Db

	var user models.User
	err := db.Where("email = ? AND is_deleted = ?", strings.ToLower(strings.TrimSpace(reqData.Email)), false).First(&user).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	if user.IsBlocked {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Your account is blocked.", nil)
	}

	// Validate password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	// Update last login time
	now := time.Now()
	if err := db.Model(&user).Update("last_login", now).Error; err != nil {
		slog.Warn("save last login", "user_id", user.ID, "error", err)
	}
	user.LastLogin = &now

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"user":  user,
		"token": token,
	})
}
