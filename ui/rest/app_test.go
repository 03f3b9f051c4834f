package rest

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/wanderly/concierge/pkg/utils"
)

func TestNotFoundHandler(t *testing.T) {
	app := fiber.New()
	api := app.Group("/api")
	api.All("/*", NotFoundHandler)

	req := httptest.NewRequest("GET", "/api/nope", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 404 {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}

	raw, _ := io.ReadAll(resp.Body)
	var data utils.ResponseData
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("unmarshal response %q: %v", raw, err)
	}
	if data.Code != "NOT_FOUND_ERROR" {
		t.Errorf("code = %q", data.Code)
	}
	if data.Message == "" {
		t.Error("message is empty")
	}
}
