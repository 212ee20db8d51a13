// Package weather is a best-effort current-conditions collaborator for the
// presentation layer. It never feeds the scoring engine: a failed lookup
// falls back to documented Chennai-region constants, flagged so callers can
// annotate their output. Single attempt per lookup, no retries.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/neerchitra/neerchitra-cli/internal/config"
)

// Fallback constants served when the API is unavailable. Long-run averages
// for the Chennai lake region, monsoon-weighted.
const (
	FallbackTempC      = 31.0
	FallbackHumidity   = 78
	FallbackRainfallMM = 2.5
	FallbackCondition  = "Partly cloudy"
)

// Observation is one current-conditions reading for a city.
type Observation struct {
	City        string    `json:"city"`
	TempC       float64   `json:"temp_c"`
	Humidity    int       `json:"humidity"`
	RainfallMM  float64   `json:"rainfall_mm"`
	Condition   string    `json:"condition"`
	Fallback    bool      `json:"fallback"`
	ObservedAt  time.Time `json:"observed_at"`
}

// Client defines the weather lookup operations.
type Client interface {
	// Current returns conditions for one city, falling back to constants
	// when the API cannot be reached.
	Current(ctx context.Context, city string) (Observation, error)
	// Cities fetches several cities concurrently, preserving input order.
	Cities(ctx context.Context, cities []string) ([]Observation, error)
}

// openWeatherResponse is the subset of the OpenWeather current-weather
// payload this client reads.
type openWeatherResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
	Name string `json:"name"`
}

// HTTPClient talks to an OpenWeather-compatible API.
type HTTPClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewHTTPClient builds a client from config. An empty API key is valid;
// every lookup then serves the fallback constants.
func NewHTTPClient(cfg config.WeatherConfig) *HTTPClient {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	perSec := cfg.RatePerSec
	if perSec <= 0 {
		perSec = 1
	}
	return &HTTPClient{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(perSec), 1),
	}
}

// Current returns conditions for one city. Network errors, non-200
// responses, and a missing API key all degrade to the fallback constants;
// only a cancelled context or a malformed success payload is an error.
func (c *HTTPClient) Current(ctx context.Context, city string) (Observation, error) {
	if c.apiKey == "" {
		zap.L().Debug("weather: no api key, serving fallback", zap.String("city", city))
		return fallbackObservation(city), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return Observation{}, err
	}

	u := fmt.Sprintf("%s/weather?q=%s&appid=%s&units=metric",
		c.baseURL, url.QueryEscape(city), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Observation{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		zap.L().Warn("weather: request failed, serving fallback",
			zap.String("city", city), zap.Error(err))
		return fallbackObservation(city), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		zap.L().Warn("weather: non-200 response, serving fallback",
			zap.String("city", city), zap.Int("status", resp.StatusCode))
		return fallbackObservation(city), nil
	}

	var ow openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&ow); err != nil {
		zap.L().Warn("weather: undecodable response, serving fallback",
			zap.String("city", city), zap.Error(err))
		return fallbackObservation(city), nil
	}

	obs := Observation{
		City:       city,
		TempC:      ow.Main.Temp,
		Humidity:   ow.Main.Humidity,
		RainfallMM: ow.Rain.OneHour,
		ObservedAt: time.Now().UTC(),
	}
	if ow.Name != "" {
		obs.City = ow.Name
	}
	if len(ow.Weather) > 0 {
		obs.Condition = ow.Weather[0].Description
	}
	return obs, nil
}

// Cities fetches conditions for several cities concurrently. The result
// slice matches the input order; one failed city fails the whole call
// (fallbacks are not failures).
func (c *HTTPClient) Cities(ctx context.Context, cities []string) ([]Observation, error) {
	out := make([]Observation, len(cities))

	g, gctx := errgroup.WithContext(ctx)
	for i, city := range cities {
		g.Go(func() error {
			obs, err := c.Current(gctx, city)
			if err != nil {
				return err
			}
			out[i] = obs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func fallbackObservation(city string) Observation {
	return Observation{
		City:       city,
		TempC:      FallbackTempC,
		Humidity:   FallbackHumidity,
		RainfallMM: FallbackRainfallMM,
		Condition:  FallbackCondition,
		Fallback:   true,
		ObservedAt: time.Now().UTC(),
	}
}
