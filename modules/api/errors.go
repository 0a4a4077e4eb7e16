package api

import (
	"errors"
	"log"

	"github.com/abhishek-2k23/Todo-RN/domain/apperr"
	"github.com/gofiber/fiber/v2"
)

func errorCode(k apperr.Kind) string {
	switch k {
	case apperr.KindValidation:
		return "bad_request"
	case apperr.KindNotFound:
		return "not_found"
	case apperr.KindUnauthorized:
		return "unauthorized"
	case apperr.KindConflict:
		return "conflict"
	default:
		return "internal_error"
	}
}

// writeError maps an application error onto its HTTP response. Internal
// errors are logged and only described to the client in development.
func writeError(c *fiber.Ctx, err error, development bool) error {
	e := apperr.Parse(err)
	resp := ErrorResponse{
		Error:   errorCode(e.Kind),
		Message: e.Message,
		Fields:  e.Fields,
	}
	if e.Kind == apperr.KindInternal {
		log.Printf("[api] Internal error: %v", err)
		resp.Message = "An internal error occurred"
		if development {
			resp.Detail = err.Error()
		}
	}
	return c.Status(apperr.HTTPStatus(e.Kind)).JSON(resp)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

// newErrorHandler handles errors returned from fiber itself, such as
// unknown routes and panics caught by the recover middleware.
func newErrorHandler(development bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := "server_error"
			if fe.Code == fiber.StatusNotFound {
				code = "not_found"
			}
			return c.Status(fe.Code).JSON(ErrorResponse{
				Error:   code,
				Message: fe.Message,
			})
		}
		return writeError(c, err, development)
	}
}
