package application

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/wanderly/concierge/concierge/domain"
)

// Classifier maps free-text user input to an intent. Stage one is a
// deterministic keyword/pattern pass in fixed priority order; only an
// inconclusive stage one escalates to a single text-completion call. The
// priority order (currency, weather, wardrobe, style, destination) is a
// deliberate policy: messages matching several intents resolve to the first.
type Classifier struct {
	completer domain.TextCompleter
}

func NewClassifier(completer domain.TextCompleter) *Classifier {
	return &Classifier{completer: completer}
}

var (
	currencyPattern = regexp.MustCompile(`(?i)\b(convert|exchange rate|currency|currencies|how much is)\b|[$€£¥]|\b\d+(?:\.\d+)?\s*[A-Za-z]{3}\s+(?:to|into|in)\s+[A-Za-z]{3}\b`)
	weatherPattern  = regexp.MustCompile(`(?i)\b(weather|temperature|forecast|rain|raining|snow|sunny|humid|humidity|climate|degrees)\b`)
	wardrobePattern = regexp.MustCompile(`(?i)\b(pack|packing|wear|outfit|outfits|clothes|clothing|wardrobe|suitcase|luggage|what (?:do|should) i bring)\b`)
	stylePattern    = regexp.MustCompile(`(?i)\b(etiquette|customs?|cultural?|culture|tradition|traditions|dress code|tipping|polite|manners|taboo)\b`)
)

// heuristicIntent is stage one: a typed result, conclusive or not.
func (c *Classifier) heuristicIntent(text string) (domain.Intent, bool) {
	if currencyPattern.MatchString(text) {
		return domain.IntentCurrency, true
	}
	if weatherPattern.MatchString(text) {
		return domain.IntentWeather, true
	}
	if wardrobePattern.MatchString(text) {
		return domain.IntentWardrobe, true
	}
	if stylePattern.MatchString(text) {
		return domain.IntentStyle, true
	}
	if _, ok := ExtractDestination(text); ok {
		return domain.IntentDestination, true
	}
	return domain.IntentGeneral, false
}

const classifyPromptTemplate = `Classify the traveler message into exactly one label.
Labels: currency, weather, wardrobe, style, destination, logistics, general.
Respond with the label only, nothing else.

Message: %q
Label:`

// Classify returns a member of the closed intent set for any input. It never
// returns an error and never panics: collaborator failures, empty output and
// unknown labels all resolve to general. One completion attempt, no retries.
func (c *Classifier) Classify(ctx context.Context, text string) domain.Intent {
	if strings.TrimSpace(text) == "" {
		return domain.IntentGeneral
	}

	if intent, ok := c.heuristicIntent(text); ok {
		return intent
	}

	if c.completer == nil {
		return domain.IntentGeneral
	}

	raw, err := c.completer.Complete(ctx, fmt.Sprintf(classifyPromptTemplate, text), domain.CompletionOptions{
		Temperature: 0,
		MaxTokens:   8,
	})
	if err != nil {
		logrus.WithError(err).Debug("[CLASSIFIER] Completion fallback failed, using general")
		return domain.IntentGeneral
	}

	intent, ok := domain.ParseIntent(raw)
	if !ok {
		logrus.Debugf("[CLASSIFIER] Unrecognized label %q, using general", raw)
		return domain.IntentGeneral
	}
	return intent
}
