// Package airport resolves IATA codes to airport names through Airlabs.
package airport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/valdasjurk/Airplane-accidents-analysis/internal/datasource/httpds"
)

const DefaultBaseURL = "https://airlabs.co/api/v9"

var ErrNoKey = errors.New("airport: AIRLABS_API_KEY is not set")

// Airport is one entry of the airports response.
type Airport struct {
	Name        string `json:"name"`
	IATA        string `json:"iata_code"`
	ICAO        string `json:"icao_code"`
	CountryCode string `json:"country_code"`
}

// APIError is an error object returned by Airlabs, or a non-2xx answer
// without one.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("airlabs: %s (%s, status %d)", e.Message, e.Code, e.Status)
	}
	return fmt.Sprintf("airlabs: %s (status %d)", e.Message, e.Status)
}

type Client struct {
	http *resty.Client
	key  string
}

func New(key string, cfg httpds.Config) (*Client, error) {
	if key == "" {
		return nil, ErrNoKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Client{http: httpds.NewClient(cfg), key: key}, nil
}

type airportsResponse struct {
	Error    *APIError `json:"error"`
	Response []Airport `json:"response"`
}

// Lookup returns the airports for codes in the order Airlabs lists them.
// No request is made for an empty code list.
func (c *Client) Lookup(ctx context.Context, codes ...string) ([]Airport, error) {
	var clean []string
	for _, code := range codes {
		if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
			clean = append(clean, code)
		}
	}
	if len(clean) == 0 {
		return nil, nil
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"api_key":   c.key,
			"iata_code": strings.Join(clean, ","),
		}).
		Get("/airports")
	if err != nil {
		return nil, fmt.Errorf("airlabs: airports %s: %w", strings.Join(clean, ","), err)
	}

	var body airportsResponse
	decodeErr := json.Unmarshal(resp.Body(), &body)
	switch {
	case decodeErr == nil && body.Error != nil:
		body.Error.Status = resp.StatusCode()
		return nil, body.Error
	case !resp.IsSuccess():
		return nil, &APIError{Status: resp.StatusCode(), Message: strings.TrimSpace(resp.Status())}
	case decodeErr != nil:
		return nil, fmt.Errorf("airlabs: decode airports: %w", decodeErr)
	}
	return body.Response, nil
}
