package domain

import (
	"context"
	"time"
)

// WeatherReport is the core's own shape for weather data; provider responses
// are mapped into it before being cached.
type WeatherReport struct {
	City        string    `json:"city"`
	Temperature float64   `json:"temperature"` // Celsius
	FeelsLike   float64   `json:"feels_like"`
	Humidity    float64   `json:"humidity"`
	Description string    `json:"description"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// ExchangeRates holds reference rates against a single base currency.
type ExchangeRates struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// CultureGuide is the cultural-insights payload for one destination.
type CultureGuide struct {
	Destination string   `json:"destination"`
	Etiquette   []string `json:"etiquette"`
	DressNorms  []string `json:"dress_norms"`
	Tipping     string   `json:"tipping,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// WeatherProvider fetches current weather for a city. May fail, may time out.
type WeatherProvider interface {
	FetchWeather(ctx context.Context, city string) (*WeatherReport, error)
	Name() string
}

// RateProvider fetches reference exchange rates for a base currency.
type RateProvider interface {
	FetchRates(ctx context.Context, base string) (*ExchangeRates, error)
	Name() string
}

// CultureProvider fetches cultural insights for a destination.
type CultureProvider interface {
	FetchGuide(ctx context.Context, destination string) (*CultureGuide, error)
	Name() string
}
