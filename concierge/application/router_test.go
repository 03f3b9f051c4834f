package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/wanderly/concierge/concierge/domain"
	"github.com/wanderly/concierge/pkg/apperror"
	"github.com/wanderly/concierge/pkg/ratelimit"
)

type failingWeather struct{}

func (failingWeather) FetchWeather(ctx context.Context, city string) (*domain.WeatherReport, error) {
	return nil, errors.New("weather upstream down")
}
func (failingWeather) Name() string { return "failing" }

type failingRates struct{}

func (failingRates) FetchRates(ctx context.Context, base string) (*domain.ExchangeRates, error) {
	return nil, errors.New("rates upstream down")
}
func (failingRates) Name() string { return "failing" }

type failingCulture struct{}

func (failingCulture) FetchGuide(ctx context.Context, destination string) (*domain.CultureGuide, error) {
	return nil, errors.New("culture upstream down")
}
func (failingCulture) Name() string { return "failing" }

type fixedRates struct {
	rates *domain.ExchangeRates
}

func (f fixedRates) FetchRates(ctx context.Context, base string) (*domain.ExchangeRates, error) {
	return f.rates, nil
}
func (fixedRates) Name() string { return "fixed" }

func newTestRouter(t *testing.T, h *Handlers) *Router {
	t.Helper()
	r, err := NewRouter(NewClassifier(nil), h.DispatchTable())
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	return r
}

func TestRouteMessage_CurrencyConversion(t *testing.T) {
	h := &Handlers{
		Rates: fixedRates{rates: &domain.ExchangeRates{
			Base:      "USD",
			Rates:     map[string]float64{"EUR": 0.92, "GBP": 0.79},
			FetchedAt: time.Now(),
		}},
	}
	r := newTestRouter(t, h)

	resp, err := r.RouteMessage(context.Background(), "Convert 100 USD to EUR", &domain.ConversationContext{UserID: "u1"}, nil, domain.UserProfile{})
	if err != nil {
		t.Fatalf("RouteMessage: %v", err)
	}

	for _, want := range []string{"100.00 USD", "92.00 EUR", "1 USD = 0.9200 EUR"} {
		if !strings.Contains(resp.Message, want) {
			t.Errorf("message %q missing %q", resp.Message, want)
		}
	}
	if resp.ConfidenceScore <= 0.5 {
		t.Errorf("confidence = %v, want a confident answer", resp.ConfidenceScore)
	}
}

func TestRouteMessage_ValidationErrorPropagates(t *testing.T) {
	h := &Handlers{
		Rates: fixedRates{rates: &domain.ExchangeRates{
			Base:  "USD",
			Rates: map[string]float64{"EUR": 0.92},
		}},
	}
	r := newTestRouter(t, h)

	resp, err := r.RouteMessage(context.Background(), "Convert 100 USD to XYZ", &domain.ConversationContext{}, nil, domain.UserProfile{})
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if !apperror.IsValidation(err) {
		t.Fatalf("error %v is not a validation error", err)
	}
	if !strings.Contains(err.Error(), "XYZ") {
		t.Errorf("error %q should name the rejected code", err.Error())
	}
	if resp.Message == "" {
		t.Error("validation rejections still need a usable message")
	}
	if resp.ConfidenceScore != 0 {
		t.Errorf("confidence = %v, want 0", resp.ConfidenceScore)
	}
}

func TestRouteMessage_CollaboratorFailureDegrades(t *testing.T) {
	h := &Handlers{
		Weather: failingWeather{},
		Rates:   failingRates{},
		Culture: failingCulture{},
	}
	r := newTestRouter(t, h)
	conv := &domain.ConversationContext{UserID: "u1", Destination: "Paris"}

	for _, msg := range []string{
		"What's the weather like?",
		"Convert 100 USD to EUR",
		"What's the tipping etiquette?",
		"What should I pack?",
	} {
		resp, err := r.RouteMessage(context.Background(), msg, conv, nil, domain.UserProfile{})
		if err != nil {
			t.Errorf("RouteMessage(%q): unexpected error %v", msg, err)
		}
		if resp.Message == "" {
			t.Errorf("RouteMessage(%q): empty message", msg)
		}
		if resp.ConfidenceScore != 0 {
			t.Errorf("RouteMessage(%q): confidence = %v, want 0 for degraded reply", msg, resp.ConfidenceScore)
		}
	}
}

func TestRouteMessage_HandlerPanicDegrades(t *testing.T) {
	handlers := map[domain.Intent]domain.Handler{
		domain.IntentGeneral: func(ctx context.Context, message string, conv *domain.ConversationContext, history []domain.ChatTurn, profile domain.UserProfile) (domain.Response, error) {
			panic("boom")
		},
	}
	r, err := NewRouter(NewClassifier(nil), handlers)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	resp, err := r.RouteMessage(context.Background(), "hello", nil, nil, domain.UserProfile{})
	if err != nil {
		t.Fatalf("panic must not surface as an error, got %v", err)
	}
	if resp.Message != apologyMessage {
		t.Fatalf("message = %q, want the apology", resp.Message)
	}
	if resp.ConfidenceScore != 0 {
		t.Fatalf("confidence = %v, want 0", resp.ConfidenceScore)
	}
}

func TestRouteMessage_UnregisteredIntentFallsBackToGeneral(t *testing.T) {
	called := false
	handlers := map[domain.Intent]domain.Handler{
		domain.IntentGeneral: func(ctx context.Context, message string, conv *domain.ConversationContext, history []domain.ChatTurn, profile domain.UserProfile) (domain.Response, error) {
			called = true
			return domain.Response{Message: "general here", ConfidenceScore: 0.5}, nil
		},
	}
	r, err := NewRouter(NewClassifier(nil), handlers)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	// Classifies as weather, which has no handler registered.
	resp, err := r.RouteMessage(context.Background(), "Will it rain tomorrow?", nil, nil, domain.UserProfile{})
	if err != nil {
		t.Fatalf("RouteMessage: %v", err)
	}
	if !called {
		t.Fatal("expected fallback to the general handler")
	}
	if resp.Message != "general here" {
		t.Fatalf("message = %q", resp.Message)
	}
}

func TestNewRouter_RequiresGeneralHandler(t *testing.T) {
	if _, err := NewRouter(NewClassifier(nil), map[domain.Intent]domain.Handler{}); err == nil {
		t.Fatal("expected an error without a general handler")
	}
}

func TestRouteMessage_NormalizesConfidence(t *testing.T) {
	handlers := map[domain.Intent]domain.Handler{
		domain.IntentGeneral: func(ctx context.Context, message string, conv *domain.ConversationContext, history []domain.ChatTurn, profile domain.UserProfile) (domain.Response, error) {
			return domain.Response{Message: "sure", ConfidenceScore: 3.5}, nil
		},
	}
	r, err := NewRouter(NewClassifier(nil), handlers)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	resp, _ := r.RouteMessage(context.Background(), "hi", nil, nil, domain.UserProfile{})
	if resp.ConfidenceScore != 1 {
		t.Fatalf("confidence = %v, want clamped to 1", resp.ConfidenceScore)
	}
}

func TestWithRateLimit(t *testing.T) {
	limiter := ratelimit.NewLimiter(1, 100)
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	now := base
	limiter.SetClock(func() time.Time { return now })

	calls := 0
	inner := func(ctx context.Context, message string, conv *domain.ConversationContext, history []domain.ChatTurn, profile domain.UserProfile) (domain.Response, error) {
		calls++
		return domain.Response{Message: "served", ConfidenceScore: 0.9}, nil
	}
	limited := WithRateLimit(limiter, "chat", inner)

	conv := &domain.ConversationContext{UserID: "u1"}
	ctx := context.Background()

	if resp, _ := limited(ctx, "hi", conv, nil, domain.UserProfile{}); resp.Message != "served" {
		t.Fatalf("first call should pass, got %q", resp.Message)
	}
	resp, err := limited(ctx, "hi again", conv, nil, domain.UserProfile{})
	if err != nil {
		t.Fatalf("rate limiting must not error: %v", err)
	}
	if resp.Message == "served" {
		t.Fatal("second call within the window should be rejected")
	}
	if calls != 1 {
		t.Fatalf("inner handler called %d times, want 1", calls)
	}

	// A different caller has an independent window.
	other := &domain.ConversationContext{UserID: "u2"}
	if resp, _ := limited(ctx, "hi", other, nil, domain.UserProfile{}); resp.Message != "served" {
		t.Fatalf("other identity should pass, got %q", resp.Message)
	}

	// The window slides.
	now = base.Add(1100 * time.Millisecond)
	if resp, _ := limited(ctx, "later", conv, nil, domain.UserProfile{}); resp.Message != "served" {
		t.Fatalf("call after window should pass, got %q", resp.Message)
	}
}
