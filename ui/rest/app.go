package rest

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wanderly/concierge/core/config"
	"github.com/wanderly/concierge/pkg/apperror"
	"github.com/wanderly/concierge/pkg/utils"
)

type App struct{}

func InitRestApp(app fiber.Router) App {
	handler := App{}
	app.Get("/settings", handler.GetSettings)
	return handler
}

func (h *App) GetSettings(c *fiber.Ctx) error {
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Settings retrieved",
		Results: config.GetAllSettings(),
	})
}

// NotFoundHandler terminates the API group for unknown paths.
func NotFoundHandler(c *fiber.Ctx) error {
	err := apperror.NotFoundError("endpoint not found: " + c.Path())
	return c.Status(err.StatusCode()).JSON(utils.ResponseData{
		Status:  err.StatusCode(),
		Code:    err.ErrCode(),
		Message: err.Error(),
	})
}
