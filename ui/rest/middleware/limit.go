package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wanderly/concierge/pkg/apperror"
	"github.com/wanderly/concierge/pkg/utils"
)

// LimitReached answers requests rejected by the edge rate limiter.
func LimitReached(c *fiber.Ctx) error {
	err := apperror.RateLimitedError("too many requests, slow down")
	return c.Status(err.StatusCode()).JSON(utils.ResponseData{
		Status:  err.StatusCode(),
		Code:    err.ErrCode(),
		Message: err.Error(),
	})
}
