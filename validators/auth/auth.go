package authValidator

import (
	commonValidator "learnhub/validators/common"

	"github.com/gofiber/fiber/v2"
)

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile" validate:"omitempty,numeric,len=10"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Signup validator middleware
func Signup() fiber.Handler {
	return commonValidator.Body[SignupRequest]("validatedUser")
}

// Login validator middleware
func Login() fiber.Handler {
	return commonValidator.Body[LoginRequest]("validatedUser")
}
