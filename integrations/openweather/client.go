// Package openweather is the current-weather client for the OpenWeatherMap API.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wanderly/concierge/concierge/domain"
)

const defaultBaseURL = "https://api.openweathermap.org"

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithURL exists for tests against an httptest server.
func NewClientWithURL(baseURL, apiKey string) *Client {
	c := NewClient(apiKey)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

func (c *Client) Name() string { return "openweathermap" }

type currentWeatherResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
}

// FetchWeather implements domain.WeatherProvider. Units are metric (Celsius).
func (c *Client) FetchWeather(ctx context.Context, city string) (*domain.WeatherReport, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("openweathermap client has no API key")
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/data/2.5/weather?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("unknown city: %s", city)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openweathermap returned status %d", resp.StatusCode)
	}

	var raw currentWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode openweathermap response: %w", err)
	}

	description := ""
	if len(raw.Weather) > 0 {
		description = raw.Weather[0].Description
	}
	name := raw.Name
	if name == "" {
		name = city
	}

	return &domain.WeatherReport{
		City:        name,
		Temperature: raw.Main.Temp,
		FeelsLike:   raw.Main.FeelsLike,
		Humidity:    raw.Main.Humidity,
		Description: description,
		FetchedAt:   time.Now(),
	}, nil
}
