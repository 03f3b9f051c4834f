package application

import (
	"context"
	"errors"
	"testing"

	"github.com/wanderly/concierge/concierge/domain"
)

// fakeCompleter returns a fixed output or error for every call.
type fakeCompleter struct {
	output string
	err    error
	calls  int
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string, opts domain.CompletionOptions) (string, error) {
	f.calls++
	return f.output, f.err
}

func TestClassifier_HeuristicPriorityOrder(t *testing.T) {
	c := NewClassifier(nil)
	ctx := context.Background()

	cases := []struct {
		text string
		want domain.Intent
	}{
		{"Convert 100 USD to EUR", domain.IntentCurrency},
		{"What's the exchange rate today?", domain.IntentCurrency},
		{"Will it rain in Lisbon?", domain.IntentWeather},
		{"What's the temperature like?", domain.IntentWeather},
		{"What should I pack for my trip?", domain.IntentWardrobe},
		{"Can I wear shorts there?", domain.IntentWardrobe},
		{"What's the tipping etiquette?", domain.IntentStyle},
		{"Tell me about local customs", domain.IntentStyle},
		{"I'm going to Paris", domain.IntentDestination},
		{"Trip to New York next month", domain.IntentDestination},
	}

	for _, tc := range cases {
		if got := c.Classify(ctx, tc.text); got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestClassifier_OverlapResolvesToFirstMatch(t *testing.T) {
	c := NewClassifier(nil)
	// Mentions both currency and a destination phrase; currency is earlier in
	// the priority order and must win.
	if got := c.Classify(context.Background(), "What currency do they use, I'm going to Tokyo"); got != domain.IntentCurrency {
		t.Fatalf("Classify() = %q, want currency (first match wins)", got)
	}
}

func TestClassifier_TotalOverArbitraryInput(t *testing.T) {
	c := NewClassifier(&fakeCompleter{err: errors.New("offline")})
	ctx := context.Background()

	inputs := []string{"", "   ", "\t\n", "???", "名古屋はどうですか", "🎒🌍✈️", "aaaaaaaaaaaaaaaaaaaa"}
	valid := make(map[domain.Intent]bool)
	for _, it := range domain.AllIntents() {
		valid[it] = true
	}

	for _, in := range inputs {
		got := c.Classify(ctx, in)
		if !valid[got] {
			t.Errorf("Classify(%q) = %q, outside the closed intent set", in, got)
		}
	}
}

func TestClassifier_FallbackUsesCompletionLabel(t *testing.T) {
	fake := &fakeCompleter{output: "  Logistics \n"}
	c := NewClassifier(fake)

	got := c.Classify(context.Background(), "do I need any paperwork beforehand")
	if got != domain.IntentLogistics {
		t.Fatalf("Classify() = %q, want logistics from completion fallback", got)
	}
	if fake.calls != 1 {
		t.Fatalf("expected exactly 1 completion attempt, got %d", fake.calls)
	}
}

func TestClassifier_FallbackSafety(t *testing.T) {
	ctx := context.Background()
	inconclusive := "hmm let me think about that one"

	cases := []struct {
		name string
		fake *fakeCompleter
	}{
		{"unknown label", &fakeCompleter{output: "banana"}},
		{"empty output", &fakeCompleter{output: ""}},
		{"provider error", &fakeCompleter{err: errors.New("timeout")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewClassifier(tc.fake)
			if got := c.Classify(ctx, inconclusive); got != domain.IntentGeneral {
				t.Fatalf("Classify() = %q, want general", got)
			}
		})
	}
}

func TestClassifier_HeuristicHitSkipsCompletion(t *testing.T) {
	fake := &fakeCompleter{output: "weather"}
	c := NewClassifier(fake)

	c.Classify(context.Background(), "Convert 100 USD to EUR")
	if fake.calls != 0 {
		t.Fatalf("heuristic hit must not call the completion collaborator, got %d calls", fake.calls)
	}
}
