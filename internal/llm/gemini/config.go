// Package gemini implements llm.FieldExtractor against the Gemini
// generateContent REST API. Documents are sent inline with a JSON response
// schema so the service answers in the invoice shape directly.
package gemini

import (
	"log/slog"
	"net/http"
	"os"
	"time"
)

// Defaults applied by NewClient for zero-value Config fields.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.5-flash-lite"
	DefaultTimeout = 45 * time.Second
)

// Config for the Gemini client.
type Config struct {
	APIKey            string        // if empty, falls back to env GEMINI_API_KEY
	BaseURL           string        // default DefaultBaseURL
	Model             string        // e.g. "gemini-2.5-flash-lite"
	Timeout           time.Duration // http client timeout
	RequestsPerMinute float64       // client-side pacing; <= 0 disables
	Burst             int           // token bucket burst, defaults to 1
}

type Client struct {
	cfg     Config
	http    *http.Client
	limiter *limiter
	log     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: newLimiter(cfg.RequestsPerMinute, cfg.Burst),
		log:     logger,
	}
}
