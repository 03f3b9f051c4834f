package rest

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wanderly/concierge/concierge/application"
	"github.com/wanderly/concierge/concierge/domain"
	"github.com/wanderly/concierge/pkg/apperror"
	"github.com/wanderly/concierge/pkg/utils"
)

type Chat struct {
	Service *application.ChatService
}

func InitRestChat(app fiber.Router, service *application.ChatService) Chat {
	handler := Chat{Service: service}
	app.Post("/chat", handler.SendMessage)
	return handler
}

func (h *Chat) SendMessage(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "BAD_REQUEST",
			Message: err.Error(),
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(400).JSON(utils.ResponseData{
			Status:  400,
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		})
	}

	conv := &domain.ConversationContext{UserID: req.UserID}
	if req.Context != nil {
		conv.Destination = req.Context.Destination
		conv.TravelDates = req.Context.TravelDates
		conv.TripPurpose = req.Context.TripPurpose
		conv.StylePrefs = req.Context.StylePrefs
	}

	resp, err := h.Service.Chat(c.UserContext(), req.ConversationID, req.Message, conv, req.Profile)
	if err != nil {
		status, code := 500, "INTERNAL_SERVER_ERROR"
		if genericErr, ok := err.(apperror.GenericError); ok {
			status, code = genericErr.StatusCode(), genericErr.ErrCode()
		}
		return c.Status(status).JSON(utils.ResponseData{
			Status:  status,
			Code:    code,
			Message: err.Error(),
		})
	}

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Message processed",
		Results: ChatResponse{
			Message:         resp.Message,
			QuickReplies:    resp.QuickReplies,
			Suggestions:     resp.Suggestions,
			ConfidenceScore: resp.ConfidenceScore,
			Context: &ChatContext{
				Destination: conv.Destination,
				TravelDates: conv.TravelDates,
				TripPurpose: conv.TripPurpose,
				StylePrefs:  conv.StylePrefs,
			},
		},
	})
}
