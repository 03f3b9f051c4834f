package rest

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/wanderly/concierge/core/config"
	"github.com/wanderly/concierge/infrastructure/valkey"
	"github.com/wanderly/concierge/pkg/utils"
)

type Health struct {
	DB     *gorm.DB
	Valkey *valkey.Client // nil when Valkey is disabled
}

func InitRestHealth(app fiber.Router, db *gorm.DB, vk *valkey.Client) Health {
	handler := Health{DB: db, Valkey: vk}

	group := app.Group("/health")
	group.Get("/status", handler.GetStatus)

	return handler
}

func (h *Health) GetStatus(c *fiber.Ctx) error {
	status := fiber.Map{
		"uptime_check": time.Now().UTC().Format(time.RFC3339),
		"version":      config.Global.App.Version,
	}

	dbStatus := "ok"
	if h.DB != nil {
		if sqlDB, err := h.DB.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			dbStatus = "down"
		}
	} else {
		dbStatus = "disabled"
	}
	status["database"] = dbStatus

	valkeyStatus := "disabled"
	if h.Valkey != nil {
		valkeyStatus = "ok"
		if !h.Valkey.IsConnected() {
			valkeyStatus = "down"
		}
	}
	status["valkey"] = valkeyStatus

	httpStatus := 200
	if dbStatus == "down" || valkeyStatus == "down" {
		httpStatus = 503
	}

	return c.Status(httpStatus).JSON(utils.ResponseData{
		Status:  httpStatus,
		Code:    "SUCCESS",
		Message: "Health status retrieved",
		Results: status,
	})
}
