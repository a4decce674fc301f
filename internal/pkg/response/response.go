package response

import "github.com/gofiber/fiber/v2"

// Response is the envelope every endpoint answers with:
// {ok: true, payLoad: ...} on success, {ok: false, message: ...} on failure.
type Response struct {
	OK      bool        `json:"ok"`
	Message string      `json:"message,omitempty"`
	PayLoad interface{} `json:"payLoad,omitempty"`
}

// Success sends a success response
func Success(c *fiber.Ctx, payload interface{}) error {
	return c.JSON(Response{
		OK:      true,
		PayLoad: payload,
	})
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, payload interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		OK:      true,
		PayLoad: payload,
	})
}

// Error sends an error response
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		OK:      false,
		Message: message,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}

// Forbidden sends a 403 forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message)
}

// NotFound sends a 404 not found response
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

// Conflict sends a 409 conflict response
func Conflict(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusConflict, message)
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}
