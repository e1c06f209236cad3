package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/subtrack/reminder-gateway/pkg/logger"
	"github.com/valyala/fasthttp"
)

var (
	// ErrCircuitOpen is returned while the breaker holds requests back
	// after a run of consecutive failures.
	ErrCircuitOpen = errors.New("whatsapp gateway circuit open")
)

// SendRequest is the provider's wire format for one outbound message.
type SendRequest struct {
	Number  string `json:"number"`
	Message string `json:"message"`
}

// SendResponse is what the provider answers on a send.
type SendResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Metrics tracks gateway health counters. All fields are safe for
// concurrent use.
type Metrics struct {
	TotalRequests    atomic.Int64
	SuccessfulReqs   atomic.Int64
	FailedReqs       atomic.Int64
	TotalLatencyMs   atomic.Int64
	LastLatencyMs    atomic.Int64
	ConsecutiveFails atomic.Int32
	LastErrorTime    atomic.Int64
	LastSuccessTime  atomic.Int64
}

func (m *Metrics) RecordSuccess(latencyMs int64) {
	m.TotalRequests.Add(1)
	m.SuccessfulReqs.Add(1)
	m.TotalLatencyMs.Add(latencyMs)
	m.LastLatencyMs.Store(latencyMs)
	m.ConsecutiveFails.Store(0)
	m.LastSuccessTime.Store(time.Now().Unix())
}

func (m *Metrics) RecordFailure() {
	m.TotalRequests.Add(1)
	m.FailedReqs.Add(1)
	m.ConsecutiveFails.Add(1)
	m.LastErrorTime.Store(time.Now().Unix())
}

func (m *Metrics) AvgLatencyMs() int64 {
	total := m.SuccessfulReqs.Load()
	if total == 0 {
		return 0
	}
	return m.TotalLatencyMs.Load() / total
}

func (m *Metrics) SuccessRate() float64 {
	total := m.TotalRequests.Load()
	if total == 0 {
		return 1.0
	}
	return float64(m.SuccessfulReqs.Load()) / float64(total)
}

// Config configures the WhatsApp provider client.
type Config struct {
	BaseURL                 string
	Timeout                 time.Duration
	MaxConns                int
	CircuitBreakerThreshold int
	CircuitBreakerTimeout   time.Duration
}

func (c *Config) withDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = 45 * time.Second
	}
	if c.MaxConns <= 0 {
		c.MaxConns = 64
	}
	if c.CircuitBreakerThreshold <= 0 {
		c.CircuitBreakerThreshold = 5
	}
	if c.CircuitBreakerTimeout <= 0 {
		c.CircuitBreakerTimeout = 30 * time.Second
	}
}

// Client talks to the WhatsApp provider. Each operator has its own
// session on the provider side, addressed by the operator id in the
// send path.
type Client struct {
	config           *Config
	http             *fasthttp.Client
	metrics          *Metrics
	circuitOpenUntil atomic.Int64

	mu sync.RWMutex
}

func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if config.BaseURL == "" {
		return nil, errors.New("base url is required")
	}
	config.withDefaults()

	client := &Client{
		config:  config,
		metrics: &Metrics{},
		http: &fasthttp.Client{
			MaxConnsPerHost:     config.MaxConns,
			ReadTimeout:         config.Timeout,
			WriteTimeout:        config.Timeout,
			MaxIdleConnDuration: 60 * time.Second,
		},
	}

	logger.Info("WhatsApp client initialized", "url", config.BaseURL, "timeout", config.Timeout)

	return client, nil
}

// Send delivers one message through the operator's WhatsApp session.
// The provider answers synchronously; a non-2xx status or transport
// error counts as a failed delivery.
func (c *Client) Send(ctx context.Context, operatorID int64, number, message string) error {
	if !c.circuitClosed() {
		return ErrCircuitOpen
	}

	body, err := json.Marshal(&SendRequest{Number: number, Message: message})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	startTime := time.Now()
	response, err := c.doRequest(ctx, "POST", fmt.Sprintf("/send/%d", operatorID), body)
	latency := time.Since(startTime).Milliseconds()

	if err != nil {
		c.metrics.RecordFailure()
		c.checkCircuitBreaker()
		return err
	}

	var resp SendResponse
	if err := json.Unmarshal(response, &resp); err != nil {
		c.metrics.RecordFailure()
		c.checkCircuitBreaker()
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if resp.Status != "sent" && resp.Status != "queued" {
		c.metrics.RecordFailure()
		c.checkCircuitBreaker()
		return fmt.Errorf("provider rejected message: %s %s", resp.Status, resp.Detail)
	}

	c.metrics.RecordSuccess(latency)

	logger.Debug("WhatsApp message sent", "operator_id", operatorID, "latency_ms", latency)

	return nil
}

// Healthy probes the provider's health endpoint.
func (c *Client) Healthy(ctx context.Context) bool {
	response, err := c.doRequest(ctx, "GET", "/health", nil)
	if err != nil {
		return false
	}

	var health struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(response, &health); err != nil {
		return false
	}

	return health.Status == "healthy"
}

// Stats snapshots the client's counters.
func (c *Client) Stats() Stats {
	return Stats{
		TotalRequests:    c.metrics.TotalRequests.Load(),
		SuccessfulReqs:   c.metrics.SuccessfulReqs.Load(),
		FailedReqs:       c.metrics.FailedReqs.Load(),
		SuccessRate:      c.metrics.SuccessRate(),
		AvgLatencyMs:     c.metrics.AvgLatencyMs(),
		LastLatencyMs:    c.metrics.LastLatencyMs.Load(),
		ConsecutiveFails: c.metrics.ConsecutiveFails.Load(),
		CircuitOpen:      !c.circuitClosed(),
	}
}

func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.config.BaseURL + path)
	req.Header.SetMethod(method)
	req.Header.SetContentType("application/json")

	if body != nil {
		req.SetBody(body)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.config.Timeout)
	}

	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	statusCode := resp.StatusCode()
	if statusCode != fasthttp.StatusOK && statusCode != fasthttp.StatusAccepted {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", statusCode, resp.Body())
	}

	result := make([]byte, len(resp.Body()))
	copy(result, resp.Body())

	return result, nil
}

func (c *Client) circuitClosed() bool {
	openUntil := c.circuitOpenUntil.Load()
	if openUntil == 0 {
		return true
	}
	if time.Now().Unix() > openUntil {
		c.circuitOpenUntil.Store(0)
		c.metrics.ConsecutiveFails.Store(0)
		return true
	}
	return false
}

func (c *Client) checkCircuitBreaker() {
	consecutiveFails := c.metrics.ConsecutiveFails.Load()
	if consecutiveFails >= int32(c.config.CircuitBreakerThreshold) {
		openUntil := time.Now().Add(c.config.CircuitBreakerTimeout).Unix()
		c.circuitOpenUntil.Store(openUntil)

		logger.Warn("Circuit breaker opened", "consecutive_fails", consecutiveFails, "timeout", c.config.CircuitBreakerTimeout)
	}
}

// Stats is a point-in-time view of gateway health.
type Stats struct {
	TotalRequests    int64
	SuccessfulReqs   int64
	FailedReqs       int64
	SuccessRate      float64
	AvgLatencyMs     int64
	LastLatencyMs    int64
	ConsecutiveFails int32
	CircuitOpen      bool
}
