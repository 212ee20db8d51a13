package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neerchitra/neerchitra-cli/internal/config"
)

func newTestClient(apiKey, baseURL string) *HTTPClient {
	return NewHTTPClient(config.WeatherConfig{
		APIKey:      apiKey,
		BaseURL:     baseURL,
		TimeoutSecs: 2,
		RatePerSec:  100,
	})
}

func TestCurrentNoAPIKeyServesFallback(t *testing.T) {
	c := newTestClient("", "http://unreachable.invalid")

	obs, err := c.Current(context.Background(), "Chennai")
	require.NoError(t, err)

	assert.True(t, obs.Fallback)
	assert.Equal(t, "Chennai", obs.City)
	assert.InDelta(t, FallbackTempC, obs.TempC, 0.001)
	assert.Equal(t, FallbackHumidity, obs.Humidity)
	assert.InDelta(t, FallbackRainfallMM, obs.RainfallMM, 0.001)
	assert.Equal(t, FallbackCondition, obs.Condition)
	assert.False(t, obs.ObservedAt.IsZero())
}

func TestCurrentParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Chennai", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		w.Write([]byte(`{
			"main": {"temp": 33.4, "humidity": 71},
			"weather": [{"main": "Rain", "description": "light rain"}],
			"rain": {"1h": 0.8},
			"name": "Chennai"
		}`))
	}))
	defer srv.Close()

	c := newTestClient("test-key", srv.URL)

	obs, err := c.Current(context.Background(), "Chennai")
	require.NoError(t, err)

	assert.False(t, obs.Fallback)
	assert.Equal(t, "Chennai", obs.City)
	assert.InDelta(t, 33.4, obs.TempC, 0.001)
	assert.Equal(t, 71, obs.Humidity)
	assert.InDelta(t, 0.8, obs.RainfallMM, 0.001)
	assert.Equal(t, "light rain", obs.Condition)
}

func TestCurrentNon200ServesFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient("bad-key", srv.URL)

	obs, err := c.Current(context.Background(), "Madurai")
	require.NoError(t, err)
	assert.True(t, obs.Fallback)
	assert.Equal(t, "Madurai", obs.City)
}

func TestCurrentNetworkErrorServesFallback(t *testing.T) {
	// Closed server to force a connection error.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := newTestClient("test-key", srv.URL)

	obs, err := c.Current(context.Background(), "Chennai")
	require.NoError(t, err)
	assert.True(t, obs.Fallback)
}

func TestCurrentUndecodableServesFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := newTestClient("test-key", srv.URL)

	obs, err := c.Current(context.Background(), "Chennai")
	require.NoError(t, err)
	assert.True(t, obs.Fallback)
}

func TestCitiesPreservesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		city := r.URL.Query().Get("q")
		w.Write([]byte(`{"main": {"temp": 30, "humidity": 70}, "name": "` + city + `"}`))
	}))
	defer srv.Close()

	c := newTestClient("test-key", srv.URL)

	cities := []string{"Chennai", "Madurai", "Coimbatore", "Trichy"}
	out, err := c.Cities(context.Background(), cities)
	require.NoError(t, err)
	require.Len(t, out, len(cities))

	for i, city := range cities {
		assert.Equal(t, city, out[i].City)
		assert.False(t, out[i].Fallback)
	}
}

func TestCitiesCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient("test-key", "http://unreachable.invalid")

	_, err := c.Cities(ctx, []string{"Chennai", "Madurai"})
	assert.Error(t, err)
}
