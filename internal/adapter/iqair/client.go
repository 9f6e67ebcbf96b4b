package iqair

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/uk-climate-etl/internal/config"
	"github.com/couchcryptid/uk-climate-etl/internal/domain"
	"github.com/couchcryptid/uk-climate-etl/internal/refdata"
)

const requestTimeout = 15 * time.Second

// Client fetches air-quality readings from the IQAir AirVisual nearest-city
// API, one request per reference city. It implements pipeline.ObservationSource.
type Client struct {
	apiKey        string
	baseURL       string
	cities        []refdata.City
	requestDelay  time.Duration
	rateLimitWait time.Duration
	httpClient    *http.Client
	clock         clockwork.Clock
	logger        *slog.Logger
}

// NewClient creates an AirVisual client over the configured reference cities.
func NewClient(cfg *config.Config, cities []refdata.City, clock clockwork.Clock, logger *slog.Logger) *Client {
	return &Client{
		apiKey:        cfg.IQAirAPIKey,
		baseURL:       cfg.IQAirBaseURL,
		cities:        cities,
		requestDelay:  cfg.IQAirRequestDelay,
		rateLimitWait: cfg.IQAirRateLimitWait,
		httpClient:    &http.Client{Timeout: requestTimeout},
		clock:         clock,
		logger:        logger,
	}
}

// FetchObservations sweeps every reference city. Individual city failures are
// skipped with a log; only a sweep that yields nothing at all is an error.
// A 429 waits out the rate limit once and retries; requests are spaced by the
// configured delay to stay under the API's budget.
func (c *Client) FetchObservations(ctx context.Context) (map[string]domain.Observation, error) {
	observations := make(map[string]domain.Observation, len(c.cities))
	for i, city := range c.cities {
		if i > 0 {
			if !sleepWithContext(ctx, c.clock, c.requestDelay) {
				return nil, ctx.Err()
			}
		}

		obs, err := c.fetchCity(ctx, city)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn("city fetch failed, skipping", "city", city.Name, "error", err)
			continue
		}
		observations[city.Name] = obs
	}

	if len(observations) == 0 {
		return nil, errors.New("every city fetch failed")
	}
	return observations, nil
}

func (c *Client) fetchCity(ctx context.Context, city refdata.City) (domain.Observation, error) {
	obs, status, err := c.doRequest(ctx, city)
	if err != nil {
		return domain.Observation{}, err
	}
	if status == http.StatusTooManyRequests {
		c.logger.Warn("rate limit hit, waiting before retry",
			"city", city.Name, "wait", c.rateLimitWait)
		if !sleepWithContext(ctx, c.clock, c.rateLimitWait) {
			return domain.Observation{}, ctx.Err()
		}
		obs, status, err = c.doRequest(ctx, city)
		if err != nil {
			return domain.Observation{}, err
		}
	}
	if status != http.StatusOK {
		return domain.Observation{}, fmt.Errorf("airvisual API error: status %d", status)
	}
	return obs, nil
}

func (c *Client) doRequest(ctx context.Context, city refdata.City) (domain.Observation, int, error) {
	params := url.Values{
		"lat": {fmt.Sprintf("%.4f", city.Lat)},
		"lon": {fmt.Sprintf("%.4f", city.Lon)},
		"key": {c.apiKey},
	}
	fullURL := fmt.Sprintf("%s/v2/nearest_city?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.Observation{}, 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Observation{}, 0, fmt.Errorf("nearest_city request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain for connection reuse
		return domain.Observation{}, resp.StatusCode, nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return domain.Observation{}, 0, fmt.Errorf("decode response: %w", err)
	}
	if env.Status != "success" {
		return domain.Observation{}, 0, fmt.Errorf("airvisual API status %q", env.Status)
	}
	return env.Data, resp.StatusCode, nil
}

// envelope is the AirVisual response wrapper.
type envelope struct {
	Status string             `json:"status"`
	Data   domain.Observation `json:"data"`
}

func sleepWithContext(ctx context.Context, clock clockwork.Clock, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
