package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ghgdeck/internal/core/domain"
)

// APIError is a structured error response for request-level problems.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, 400, "bad_request", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, 500, "internal_error", msg)
}

// errorSurface degrades to a plain-text error document: the frontend
// replaces any partial render with this body verbatim. Used for every
// load-cycle failure; a broken cycle never produces a partial map.
func errorSurface(c *fiber.Ctx, status int, msg string) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(status).SendString(msg)
}

// errLoadCycle maps the load-cycle taxonomy onto statuses: upstream
// fetch/parse failures are gateway errors, a bad manifest is ours.
func errLoadCycle(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrLoad), errors.Is(err, domain.ErrParse):
		status = fiber.StatusBadGateway
	case errors.Is(err, domain.ErrConfig):
		status = fiber.StatusInternalServerError
	}
	return errorSurface(c, status, err.Error())
}
