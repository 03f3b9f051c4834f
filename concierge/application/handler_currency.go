package application

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/wanderly/concierge/concierge/domain"
	"github.com/wanderly/concierge/pkg/apperror"
)

// conversionRequest is the parsed form of a currency question.
type conversionRequest struct {
	Amount float64 `json:"amount"`
	From   string  `json:"from"`
	To     string  `json:"to"`
}

var conversionPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*([A-Za-z]{3})\s+(?:to|into|in)\s+([A-Za-z]{3})`)

const parseConversionPrompt = `Extract the currency conversion from the message.
Reply with JSON only: {"amount": <number>, "from": "<ISO 4217 code>", "to": "<ISO 4217 code>"}.
Infer codes from common names (dollars -> USD, euros -> EUR). Use amount 1 if none given.
Message: %q`

// parseConversion tries the cheap regex first, then a single completion call.
// Both failing is a clarification case, not an error.
func (h *Handlers) parseConversion(ctx context.Context, message string) (*conversionRequest, bool) {
	if m := conversionPattern.FindStringSubmatch(message); m != nil {
		amount, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return &conversionRequest{
				Amount: amount,
				From:   strings.ToUpper(m[2]),
				To:     strings.ToUpper(m[3]),
			}, true
		}
	}

	if h.Completer == nil {
		return nil, false
	}

	callCtx, cancel := context.WithTimeout(ctx, h.callTimeout())
	defer cancel()

	raw, err := h.Completer.Complete(callCtx, fmt.Sprintf(parseConversionPrompt, message), domain.CompletionOptions{
		Temperature: 0,
		MaxTokens:   60,
	})
	if err != nil {
		logrus.WithError(err).Debug("[HANDLER] Currency parse completion failed")
		return nil, false
	}

	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.Trim(raw, "` \n")

	var req conversionRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return nil, false
	}
	req.From = strings.ToUpper(strings.TrimSpace(req.From))
	req.To = strings.ToUpper(strings.TrimSpace(req.To))
	if req.Amount == 0 {
		req.Amount = 1
	}
	if req.From == "" || req.To == "" {
		return nil, false
	}
	return &req, true
}

// HandleCurrency serves conversion questions: parse, fetch rates through the
// cache, convert, format. Bad codes and non-positive amounts surface as
// validation errors; collaborator failures bubble up for degradation.
func (h *Handlers) HandleCurrency(ctx context.Context, message string, conv *domain.ConversationContext, history []domain.ChatTurn, profile domain.UserProfile) (domain.Response, error) {
	req, ok := h.parseConversion(ctx, message)
	if !ok {
		return domain.Response{
			Message:         "I can convert currencies for you. Tell me the amount and the codes, for example: \"Convert 100 USD to EUR\".",
			QuickReplies:    []string{"Convert 100 USD to EUR", "Convert 50 EUR to GBP"},
			ConfidenceScore: 0.6,
		}, nil
	}

	if req.Amount <= 0 {
		return domain.Response{}, apperror.ValidationError("amount must be positive")
	}
	if len(req.From) != 3 || len(req.To) != 3 {
		return domain.Response{}, apperror.ValidationError("currency codes must be 3-letter ISO 4217 codes")
	}

	rates, err := h.ratesFor(ctx, req.From)
	if err != nil {
		return domain.Response{}, err
	}

	rate, ok := rates.Rates[req.To]
	if !ok && req.To == rates.Base {
		rate, ok = 1.0, true
	}
	if !ok {
		return domain.Response{}, apperror.ValidationError(fmt.Sprintf("unsupported currency: %s", req.To))
	}

	converted := req.Amount * rate
	msg := fmt.Sprintf("%.2f %s = %.2f %s\n\nExchange rate: 1 %s = %.4f %s",
		req.Amount, req.From, converted, req.To, req.From, rate, req.To)

	return domain.Response{
		Message: msg,
		QuickReplies: []string{
			fmt.Sprintf("Convert %s to %s", req.To, req.From),
			"Another amount",
		},
		Suggestions:     []string{"Rates are reference rates, your bank may differ"},
		ConfidenceScore: 0.95,
	}, nil
}

// ratesFor returns exchange rates for base, cache-first. A fresh fetch is
// stored back; a failed store is not an error (read-time resolution copes).
func (h *Handlers) ratesFor(ctx context.Context, base string) (*domain.ExchangeRates, error) {
	var cached domain.ExchangeRates
	if h.CurrencyCache != nil && h.CurrencyCache.GetInto(ctx, base, &cached) {
		return &cached, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, h.callTimeout())
	defer cancel()

	rates, err := h.Rates.FetchRates(callCtx, base)
	if err != nil {
		return nil, fmt.Errorf("rate provider: %w", err)
	}

	if h.CurrencyCache != nil {
		h.CurrencyCache.SetCache(ctx, base, rates)
	}
	return rates, nil
}
