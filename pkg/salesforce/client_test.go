package salesforce

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTClient_MissingKeyFile(t *testing.T) {
	_, err := NewJWTClient("example.my.salesforce.com", "key", "user@example.com", "/nonexistent/key.pem")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read JWT private key")
}

func TestWithRateLimit(t *testing.T) {
	c := &sfClient{}
	WithRateLimit(5)(c)
	require.NotNil(t, c.limiter)
	assert.InDelta(t, 5.0, float64(c.limiter.Limit()), 0.001)
	assert.Equal(t, 5, c.limiter.Burst())
}

func TestWithRateLimit_NonPositiveIgnored(t *testing.T) {
	c := &sfClient{}
	WithRateLimit(0)(c)
	assert.Nil(t, c.limiter)
}

func TestWait_NilLimiter(t *testing.T) {
	c := &sfClient{}
	assert.NoError(t, c.wait(context.Background()))
}

func TestWait_CancelledContext(t *testing.T) {
	c := &sfClient{}
	WithRateLimit(0.001)(c)
	require.NoError(t, c.wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, c.wait(ctx))
}
