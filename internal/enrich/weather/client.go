// Package weather looks up historical daily temperatures from the
// Weatherbit API and adds them to accident rows.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/datasource/httpds"
	"github.com/valdasjurk/Airplane-accidents-analysis/internal/frame"
)

// DefaultBaseURL is the Weatherbit v2 API root.
const DefaultBaseURL = "https://api.weatherbit.io/v2.0"

// ErrNoKey is returned by New when no API key is configured.
var ErrNoKey = errors.New("weather: WEATHERBIT_API_KEY is not set")

// StatusError is a non-2xx answer that does not mean "no data".
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("weather: unexpected status %d: %s", e.Code, e.Body)
}

// Client calls the Weatherbit daily history endpoint.
type Client struct {
	http *resty.Client
	key  string
}

// New returns a client using key. cfg.BaseURL defaults to DefaultBaseURL.
func New(key string, cfg httpds.Config) (*Client, error) {
	if key == "" {
		return nil, ErrNoKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Client{http: httpds.NewClient(cfg), key: key}, nil
}

type dailyResponse struct {
	CityName string `json:"city_name"`
	Data     []struct {
		Datetime string   `json:"datetime"`
		Temp     *float64 `json:"temp"`
	} `json:"data"`
}

// DailyTemperature returns the mean temperature in city on day. ok is false
// when the service has no data for that city and day: an empty data array,
// or status 204, 400 or 404. Other failures are returned as errors.
func (c *Client) DailyTemperature(ctx context.Context, city string, day time.Time) (float64, bool, error) {
	start := day.Format(frame.DateLayout)
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key":        c.key,
			"city":       city,
			"start_date": start,
			"end_date":   day.AddDate(0, 0, 1).Format(frame.DateLayout),
		}).
		Get("/history/daily")
	if err != nil {
		return 0, false, fmt.Errorf("weather: %s %s: %w", city, start, err)
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusNoContent, code == http.StatusBadRequest, code == http.StatusNotFound:
		return 0, false, nil
	case !resp.IsSuccess():
		return 0, false, &StatusError{Code: code, Body: snippet(resp.Body())}
	}

	var body dailyResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return 0, false, fmt.Errorf("weather: decode %s %s: %w", city, start, err)
	}
	if len(body.Data) == 0 || body.Data[0].Temp == nil {
		return 0, false, nil
	}
	return *body.Data[0].Temp, true, nil
}

func snippet(b []byte) string {
	const max = 200
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
