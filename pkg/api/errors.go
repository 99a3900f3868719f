package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sortasecret/sortasecret/pkg/gate"
	"github.com/sortasecret/sortasecret/pkg/verifier"
)

// errorStatus maps an error to the status and message sent to the client.
// Anything unrecognised becomes a bare 500.
func errorStatus(err error) (int, string) {
	var e *fiber.Error

	switch {
	case errors.As(err, &e):
		return e.Code, e.Message
	case errors.Is(err, gate.ErrMalformedRequest):
		return fiber.StatusBadRequest, "malformed request body"
	case errors.Is(err, gate.ErrRejected):
		return fiber.StatusBadRequest, "human verification failed, please reload the page and try again"
	case errors.Is(err, verifier.ErrVerifierUnavailable):
		return fiber.StatusInternalServerError, "human verification is unavailable"
	default:
		log.Errorf("unhandled error: %v", err)
		return fiber.StatusInternalServerError, "internal server error"
	}
}
