package events

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

const oneCallFixture = `{
  "current": {"dt": 1788210000, "temp": 71.6, "feels_like": 73.2},
  "daily": [
    {"summary": "expect clear skies through the evening", "temp": {"min": 58.1, "max": 77.9}, "feels_like": {"day": 75.0}},
    {"summary": "scattered showers arriving after noon", "temp": {"min": 60.0, "max": 81.4}, "feels_like": {"day": 84.6}}
  ]
}`

func TestWeatherCollectRendersSentence(t *testing.T) {
	var query url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/3.0/onecall" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		query = r.URL.Query()
		w.Write([]byte(oneCallFixture))
	}))
	defer server.Close()

	collector, err := NewWeather("test-key", 41.5, -72.1,
		WithWeatherBaseURL(server.URL),
		WithWeatherClock(func() time.Time { return time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC) }),
	)
	if err != nil {
		t.Fatalf("NewWeather returned error: %v", err)
	}

	got, err := collector.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Collect returned %d events, want 1", len(got))
	}

	// 1788210000 is 2026-08-31 UTC; the narrated date comes from the API
	// timestamp in local time.
	day := time.Unix(1788210000, 0)
	want := "Today, " + day.Format("Monday, January") + " the " + ordinal(day.Day()) +
		" expect clear skies through the evening." +
		" Right now it's 72 and feels like 73" +
		" with a low of 58" +
		" with a high of 78." +
		" Tomorrow, scattered showers arriving after noon" +
		" and a high of 81 and a heat index of 85"
	if got[0] != want {
		t.Fatalf("event = %q\nwant    %q", got[0], want)
	}

	if query.Get("appid") != "test-key" {
		t.Fatalf("appid = %q", query.Get("appid"))
	}
	if query.Get("units") != "imperial" {
		t.Fatalf("units = %q", query.Get("units"))
	}
	if query.Get("exclude") != "minutely,hourly" {
		t.Fatalf("exclude = %q", query.Get("exclude"))
	}
}

func TestWeatherCollectRejectsShortForecast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"current": {"dt": 0}, "daily": [{"summary": "only today"}]}`))
	}))
	defer server.Close()

	collector, err := NewWeather("key", 0, 0, WithWeatherBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewWeather returned error: %v", err)
	}
	if _, err := collector.Collect(context.Background()); err == nil {
		t.Fatal("expected error for forecast with one daily entry")
	}
}

func TestWeatherCollectSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"cod":401,"message":"Invalid API key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	collector, err := NewWeather("bad-key", 0, 0, WithWeatherBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewWeather returned error: %v", err)
	}
	if _, err := collector.Collect(context.Background()); err == nil {
		t.Fatal("expected error for 401 response")
	}
}

func TestNewWeatherRequiresAPIKey(t *testing.T) {
	if _, err := NewWeather("  ", 0, 0); err == nil {
		t.Fatal("expected error for blank api key")
	}
}

func TestOrdinal(t *testing.T) {
	cases := map[int]string{
		1:  "1st",
		2:  "2nd",
		3:  "3rd",
		4:  "4th",
		11: "11th",
		12: "12th",
		13: "13th",
		21: "21st",
		22: "22nd",
		23: "23rd",
		30: "30th",
		31: "31st",
	}
	for number, want := range cases {
		if got := ordinal(number); got != want {
			t.Errorf("ordinal(%d) = %q, want %q", number, got, want)
		}
	}
}
