package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordSuccess(t *testing.T) {
	metrics := &Metrics{}

	metrics.RecordSuccess(100)
	metrics.RecordSuccess(200)

	assert.Equal(t, int64(2), metrics.TotalRequests.Load())
	assert.Equal(t, int64(2), metrics.SuccessfulReqs.Load())
	assert.Equal(t, int64(0), metrics.FailedReqs.Load())
	assert.Equal(t, float64(1.0), metrics.SuccessRate())
	assert.Equal(t, int64(150), metrics.AvgLatencyMs())
}

func TestMetrics_RecordFailure(t *testing.T) {
	metrics := &Metrics{}

	metrics.RecordSuccess(100)
	metrics.RecordFailure()
	metrics.RecordFailure()

	assert.Equal(t, int64(3), metrics.TotalRequests.Load())
	assert.Equal(t, int64(1), metrics.SuccessfulReqs.Load())
	assert.Equal(t, int64(2), metrics.FailedReqs.Load())
	assert.InDelta(t, 0.333, metrics.SuccessRate(), 0.01)
	assert.Equal(t, int32(2), metrics.ConsecutiveFails.Load())
}

func TestMetrics_SuccessResetsConsecutiveFails(t *testing.T) {
	metrics := &Metrics{}

	metrics.RecordFailure()
	metrics.RecordFailure()
	metrics.RecordSuccess(50)

	assert.Equal(t, int32(0), metrics.ConsecutiveFails.Load())
}

func TestNewClient_Validation(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := NewClient(nil)
		assert.Error(t, err)
	})

	t.Run("missing base url", func(t *testing.T) {
		_, err := NewClient(&Config{})
		assert.Error(t, err)
	})

	t.Run("defaults applied", func(t *testing.T) {
		client, err := NewClient(&Config{BaseURL: "http://localhost:3000"})
		require.NoError(t, err)
		assert.Equal(t, 45*time.Second, client.config.Timeout)
		assert.Equal(t, 5, client.config.CircuitBreakerThreshold)
	})
}

func TestClient_CircuitBreaker(t *testing.T) {
	client, err := NewClient(&Config{
		BaseURL:                 "http://localhost:3000",
		CircuitBreakerThreshold: 3,
		CircuitBreakerTimeout:   30 * time.Second,
	})
	require.NoError(t, err)

	t.Run("closed while under threshold", func(t *testing.T) {
		client.metrics.RecordFailure()
		client.metrics.RecordFailure()
		client.checkCircuitBreaker()
		assert.True(t, client.circuitClosed())
	})

	t.Run("opens at threshold", func(t *testing.T) {
		client.metrics.RecordFailure()
		client.checkCircuitBreaker()
		assert.False(t, client.circuitClosed())
		assert.True(t, client.Stats().CircuitOpen)
	})

	t.Run("closes again after timeout", func(t *testing.T) {
		client.circuitOpenUntil.Store(time.Now().Add(-1 * time.Second).Unix())
		assert.True(t, client.circuitClosed())
		assert.Equal(t, int32(0), client.metrics.ConsecutiveFails.Load())
	})
}
