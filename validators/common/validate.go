package commonValidator

import (
	"errors"
	"fmt"
	"learnhub/middleware"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

// newValidator reports fields by their json or query name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = fld.Tag.Get("query")
		}
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct validates v against its `validate` tags and returns one message per
// failing json field.
func Struct(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{"request": err.Error()}
	}

	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required!"
	case "email":
		return "Invalid email!"
	case "min":
		return fmt.Sprintf("Must be at least %s!", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s!", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s!", fe.Param())
	case "url":
		return "Must be a valid URL!"
	}
	return fmt.Sprintf("Failed on %s!", fe.Tag())
}

// Body parses the request body into a new T, validates it and stores it in
// c.Locals under key.
func Body[T any](key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(T)
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}
		if errs := Struct(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}
		c.Locals(key, reqData)
		return c.Next()
	}
}

// Query is Body for query strings.
func Query[T any](key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(T)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		if errs := Struct(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}
		c.Locals(key, reqData)
		return c.Next()
	}
}

// Params checks that every named route parameter is a positive integer and
// stores it in c.Locals under the same name.
func Params(names ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, name := range names {
			raw := strings.TrimSpace(c.Params(name))
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || id == 0 {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, fmt.Sprintf("Invalid %s!", name), nil)
			}
			c.Locals(name, uint(id))
		}
		return c.Next()
	}
}
