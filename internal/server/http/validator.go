package http

import (
	"fmt"
	"strings"

	"snake/internal/server/core"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// validationMiddleware parses and validates request bodies for game routes,
// stashing the validated struct for the handler
func validationMiddleware(c *fiber.Ctx) error {
	// Skip validation for GET, DELETE, OPTIONS
	method := c.Method()
	if method == fiber.MethodGet || method == fiber.MethodDelete || method == fiber.MethodOptions {
		return c.Next()
	}

	// Determine request type based on path
	path := c.Path()
	var requestType interface{}

	switch {
	case strings.HasSuffix(path, "/scores") && method == fiber.MethodPost:
		requestType = &core.ScoreRequest{}
	case strings.HasSuffix(path, "/heartbeat") && method == fiber.MethodPost:
		requestType = &core.HeartbeatRequest{}
	default:
		return c.Next() // No validation for unknown endpoints
	}

	// Parse body
	if err := c.BodyParser(requestType); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid request body",
			Code:    core.ErrInvalidRequest,
			Details: err.Error(),
		})
	}

	// Validate
	if errs := validate.Struct(requestType); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "validation failed",
			Code:    core.ErrInvalidRequest,
			Details: validationDetails(errs),
		})
	}

	// Store validated body for handler use
	c.Locals("validatedBody", requestType)
	c.Locals("validated", true)

	return c.Next()
}

// validationDetails builds a readable summary of field-level failures
func validationDetails(errs error) string {
	var parts []string
	for _, err := range errs.(validator.ValidationErrors) {
		switch err.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", err.Field()))
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be at least %s", err.Field(), err.Param()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s", err.Field(), err.Param()))
		case "omitempty": // Skip, a control tag that doesn't error
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s validation", err.Field(), err.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
