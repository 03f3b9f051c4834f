package application

import (
	"regexp"
	"strings"

	"github.com/wanderly/concierge/concierge/domain"
)

var (
	// Connector phrase followed by a capitalized token or short capitalized
	// phrase ("Paris", "New York", "Rio de Janeiro").
	destinationPattern = regexp.MustCompile(`(?:(?i:going to|visiting|trip to|travel(?:l)?ing to|travel to|headed to|off to|fly(?:ing)? to))\s+([A-Z][a-zà-ÿ'’]+(?:\s+(?:[A-Z][a-zà-ÿ'’]+|de|del|da|do|la|le|al))*)`)

	isoDate         = `(\d{4}-\d{2}-\d{2})`
	datesUntil      = regexp.MustCompile(isoDate + `\s+(?i:until)\s+` + isoDate)
	datesFromTo     = regexp.MustCompile(`(?i:from)\s+` + isoDate + `\s+(?i:to)\s+` + isoDate)
	datesBareTo     = regexp.MustCompile(isoDate + `\s+(?i:to)\s+` + isoDate)
)

// ExtractDestination pulls a place name out of free text, or reports absent.
// Never raises; no match is the common case.
func ExtractDestination(text string) (string, bool) {
	m := destinationPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	place := strings.TrimSpace(m[1])
	if place == "" {
		return "", false
	}
	return place, true
}

// ExtractTravelDates recognizes three literal surface forms over ISO-8601
// dates: "<date> until <date>", "from <date> to <date>", "<date> to <date>".
// Dates come back in textual order of appearance; start <= end is NOT checked
// here. Absent when nothing matches.
func ExtractTravelDates(text string) (*domain.TravelDates, bool) {
	for _, pattern := range []*regexp.Regexp{datesUntil, datesFromTo, datesBareTo} {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return &domain.TravelDates{Start: m[1], End: m[2]}, true
		}
	}
	return nil, false
}
