package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SendRequest is the wire format the scheduler posts for one message.
type SendRequest struct {
	Number  string `json:"number" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// SendResponse mirrors the real provider's answer.
type SendResponse struct {
	Status    string `json:"status"`
	MessageID string `json:"message_id,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

// HealthResponse is the health probe payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	Sessions  int       `json:"sessions"`
	Timestamp time.Time `json:"timestamp"`
}

// MockProvider simulates the WhatsApp session server: per-operator
// sessions, configurable latency and failure rate.
type MockProvider struct {
	successRate float64
	minDelay    time.Duration
	maxDelay    time.Duration
	sessions    map[string]bool
	rng         *rand.Rand
}

func NewMockProvider(successRate float64, minDelay, maxDelay time.Duration) *MockProvider {
	return &MockProvider{
		successRate: successRate,
		minDelay:    minDelay,
		maxDelay:    maxDelay,
		sessions:    make(map[string]bool),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (m *MockProvider) deliver(operatorID string, req *SendRequest) *SendResponse {
	m.sessions[operatorID] = true
	time.Sleep(m.randomDelay())

	if m.rng.Float64() >= m.successRate {
		detail := m.randomFailure()
		log.Warn().
			Str("operator", operatorID).
			Str("number", req.Number).
			Str("detail", detail).
			Msg("message delivery failed")
		return &SendResponse{Status: "failed", Detail: detail}
	}

	id := uuid.NewString()
	log.Info().
		Str("operator", operatorID).
		Str("number", req.Number).
		Str("message_id", id).
		Msg("message delivered")
	return &SendResponse{Status: "sent", MessageID: id}
}

func (m *MockProvider) randomDelay() time.Duration {
	if m.maxDelay <= m.minDelay {
		return m.minDelay
	}
	return m.minDelay + time.Duration(m.rng.Int63n(int64(m.maxDelay-m.minDelay)))
}

func (m *MockProvider) randomFailure() string {
	failures := []string{
		"number not registered on whatsapp",
		"session disconnected",
		"send timed out",
		"recipient blocked the sender",
	}
	return failures[m.rng.Intn(len(failures))]
}

type Handler struct {
	provider *MockProvider
}

func (h *Handler) Send(c *gin.Context) {
	operatorID := c.Param("operator")

	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	resp := h.provider.deliver(operatorID, &req)
	status := http.StatusOK
	if resp.Status == "failed" {
		status = http.StatusAccepted
	}
	c.JSON(status, resp)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Sessions:  len(h.provider.sessions),
		Timestamp: time.Now(),
	})
}

func (h *Handler) UpdateConfig(c *gin.Context) {
	var cfg struct {
		SuccessRate *float64 `json:"success_rate"`
	}
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	if cfg.SuccessRate != nil && *cfg.SuccessRate >= 0 && *cfg.SuccessRate <= 1.0 {
		h.provider.successRate = *cfg.SuccessRate
		log.Info().Float64("rate", *cfg.SuccessRate).Msg("updated success rate")
	}
	c.JSON(http.StatusOK, gin.H{"success_rate": h.provider.successRate})
}

func SetupRouter(handler *Handler) *gin.Engine {
	router := gin.Default()

	router.POST("/send/:operator", handler.Send)
	router.GET("/health", handler.Health)
	router.PUT("/config", handler.UpdateConfig)

	return router
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	port := getEnv("PORT", "3001")
	successRate := getEnvFloat("SUCCESS_RATE", 1)
	minDelay := getEnvDuration("MIN_DELAY", 200*time.Millisecond)
	maxDelay := getEnvDuration("MAX_DELAY", 2*time.Second)

	log.Info().
		Str("port", port).
		Float64("success_rate", successRate).
		Dur("min_delay", minDelay).
		Dur("max_delay", maxDelay).
		Msg("starting mock whatsapp provider")

	handler := &Handler{provider: NewMockProvider(successRate, minDelay, maxDelay)}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      SetupRouter(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var f float64
		if _, err := fmt.Sscanf(value, "%f", &f); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
