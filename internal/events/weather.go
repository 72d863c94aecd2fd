package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// WeatherCollector reads the current conditions and two-day forecast from the
// OpenWeatherMap one-call API and renders them as a single narrated sentence.
type WeatherCollector struct {
	apiKey     string
	baseURL    string
	units      string
	latitude   float64
	longitude  float64
	httpClient *http.Client
	now        func() time.Time
}

// WeatherOption configures a WeatherCollector.
type WeatherOption func(*WeatherCollector)

// WithWeatherHTTPClient overrides the default HTTP client.
func WithWeatherHTTPClient(client *http.Client) WeatherOption {
	return func(c *WeatherCollector) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithWeatherBaseURL overrides the default API base (useful for tests).
func WithWeatherBaseURL(base string) WeatherOption {
	return func(c *WeatherCollector) {
		base = strings.TrimSpace(base)
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithWeatherUnits overrides the default imperial units.
func WithWeatherUnits(units string) WeatherOption {
	return func(c *WeatherCollector) {
		units = strings.TrimSpace(units)
		if units != "" {
			c.units = units
		}
	}
}

// WithWeatherClock overrides the clock used when the API omits a timestamp.
func WithWeatherClock(now func() time.Time) WeatherOption {
	return func(c *WeatherCollector) {
		if now != nil {
			c.now = now
		}
	}
}

// NewWeather constructs a weather collector.
func NewWeather(apiKey string, latitude, longitude float64, opts ...WeatherOption) (*WeatherCollector, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("weather api key required")
	}
	collector := &WeatherCollector{
		apiKey:     apiKey,
		baseURL:    "https://api.openweathermap.org",
		units:      "imperial",
		latitude:   latitude,
		longitude:  longitude,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(collector)
	}
	return collector, nil
}

// Name implements Collector.
func (c *WeatherCollector) Name() string { return "weather" }

type oneCallResponse struct {
	Current struct {
		Dt        int64   `json:"dt"`
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
	} `json:"current"`
	Daily []struct {
		Summary string `json:"summary"`
		Temp    struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"temp"`
		FeelsLike struct {
			Day float64 `json:"day"`
		} `json:"feels_like"`
	} `json:"daily"`
}

// Collect fetches the forecast and returns one event string.
func (c *WeatherCollector) Collect(ctx context.Context) ([]string, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(c.latitude, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(c.longitude, 'f', -1, 64))
	query.Set("appid", c.apiKey)
	query.Set("units", c.units)
	// Daily forecasts only; minutely and hourly are never narrated.
	query.Set("exclude", "minutely,hourly")
	endpoint := c.baseURL + "/data/3.0/onecall?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch forecast: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read forecast: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload oneCallResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode forecast: %w", err)
	}
	if len(payload.Daily) < 2 {
		return nil, errors.New("forecast missing daily entries")
	}

	rightNow := c.now()
	if payload.Current.Dt > 0 {
		rightNow = time.Unix(payload.Current.Dt, 0)
	}
	today := payload.Daily[0]
	tomorrow := payload.Daily[1]

	event := strings.Join([]string{
		"Today,",
		fmt.Sprintf("%s the %s", rightNow.Format("Monday, January"), ordinal(rightNow.Day())),
		today.Summary + ".",
		fmt.Sprintf("Right now it's %d and feels like %d", round(payload.Current.Temp), round(payload.Current.FeelsLike)),
		fmt.Sprintf("with a low of %d", round(today.Temp.Min)),
		fmt.Sprintf("with a high of %d.", round(today.Temp.Max)),
		fmt.Sprintf("Tomorrow, %s", tomorrow.Summary),
		fmt.Sprintf("and a high of %d and a heat index of %d", round(tomorrow.Temp.Max), round(tomorrow.FeelsLike.Day)),
	}, " ")
	return []string{event}, nil
}

func round(value float64) int {
	return int(math.Round(value))
}

// ordinal renders 1 as "1st", 22 as "22nd", 13 as "13th".
func ordinal(number int) string {
	abs := number
	if abs < 0 {
		abs = -abs
	}
	suffix := "th"
	if abs%100 < 11 || abs%100 > 13 {
		switch abs % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(number) + suffix
}
