package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/wanderly/concierge/concierge/application"
	"github.com/wanderly/concierge/concierge/domain"
	"github.com/wanderly/concierge/pkg/utils"
)

func newChatApp(t *testing.T) *fiber.App {
	t.Helper()

	handlers := map[domain.Intent]domain.Handler{
		domain.IntentGeneral: func(ctx context.Context, message string, conv *domain.ConversationContext, history []domain.ChatTurn, profile domain.UserProfile) (domain.Response, error) {
			return domain.Response{Message: "echo: " + message, ConfidenceScore: 0.5}, nil
		},
	}
	router, err := application.NewRouter(application.NewClassifier(nil), handlers)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	service := application.NewChatService(router, nil, 10)

	app := fiber.New()
	api := app.Group("/api")
	InitRestChat(api, service)
	return app
}

func postChat(t *testing.T, app *fiber.App, body string) (int, utils.ResponseData) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var data utils.ResponseData
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("unmarshal response %q: %v", raw, err)
	}
	return resp.StatusCode, data
}

func TestSendMessage(t *testing.T) {
	app := newChatApp(t)

	status, data := postChat(t, app, `{"user_id":"u1","conversation_id":"c1","message":"hello"}`)
	if status != 200 {
		t.Fatalf("status = %d, body %+v", status, data)
	}
	if data.Code != "SUCCESS" {
		t.Errorf("code = %q", data.Code)
	}

	results, ok := data.Results.(map[string]interface{})
	if !ok {
		t.Fatalf("results type %T", data.Results)
	}
	if results["message"] != "echo: hello" {
		t.Errorf("message = %v", results["message"])
	}
}

func TestSendMessage_MissingFields(t *testing.T) {
	app := newChatApp(t)

	cases := []struct {
		name string
		body string
	}{
		{"no user id", `{"message":"hello"}`},
		{"no message", `{"user_id":"u1"}`},
		{"malformed json", `{`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, _ := postChat(t, app, tc.body)
			if status != 400 {
				t.Fatalf("status = %d, want 400", status)
			}
		})
	}
}

func TestSendMessage_ContextEchoedBack(t *testing.T) {
	app := newChatApp(t)

	status, data := postChat(t, app, `{"user_id":"u1","message":"hello","context":{"destination":"Paris"}}`)
	if status != 200 {
		t.Fatalf("status = %d", status)
	}
	results := data.Results.(map[string]interface{})
	ctxMap, ok := results["context"].(map[string]interface{})
	if !ok {
		t.Fatalf("context missing from results: %v", results)
	}
	if ctxMap["destination"] != "Paris" {
		t.Errorf("destination = %v", ctxMap["destination"])
	}
}
