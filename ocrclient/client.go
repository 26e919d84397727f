// CLAUDE:SUMMARY Paced, retrying OCR client in front of a vision backend.
// Package ocrclient calls a remote vision model to transcribe document
// images, pacing every attempt through a shared rate gate and retrying
// transient failures with class-dependent delays.
package ocrclient

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/hazyhaar/docmill/dbopen"
)

// Request is one transcription call.
type Request struct {
	// Model overrides the configured model when set.
	Model string
	// Image is the raw encoded image.
	Image []byte
	// Format is the image format tag (png, jpg, tiff...). Used to build
	// the data URL; unknown tags fall back to PNG.
	Format string
	// Prompt overrides the default transcription prompt when set.
	Prompt string
}

// Backend performs one raw call against the vision service.
type Backend interface {
	Recognize(ctx context.Context, req Request) (string, error)
}

// Gate paces calls across processes. *rategate.Gate satisfies it.
type Gate interface {
	Wait(ctx context.Context, key string, ratePerMinute float64) error
}

// Config configures a Client.
type Config struct {
	// Model is the vision model to call (default: "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// GateKey identifies this service in the shared rate gate
	// (default: "ocr").
	GateKey string `json:"gate_key" yaml:"gate_key"`

	// RatePerMinute is the paced call rate; zero disables pacing.
	RatePerMinute float64 `json:"rate_per_minute" yaml:"rate_per_minute"`

	// MaxRetries is how many times a failed call is retried (default: 3).
	// A call therefore makes at most MaxRetries+1 attempts.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RateLimitDelay is the base backoff after a rate-limit class failure
	// (default: 60s).
	RateLimitDelay time.Duration `json:"rate_limit_delay" yaml:"rate_limit_delay"`

	// TransientDelay is the base backoff after server and network class
	// failures (default: 10s).
	TransientDelay time.Duration `json:"transient_delay" yaml:"transient_delay"`

	// Jitter is the random fraction added to each backoff (default: 0.25).
	Jitter float64 `json:"jitter" yaml:"jitter"`

	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.GateKey == "" {
		c.GateKey = "ocr"
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.RateLimitDelay <= 0 {
		c.RateLimitDelay = 60 * time.Second
	}
	if c.TransientDelay <= 0 {
		c.TransientDelay = 10 * time.Second
	}
	if c.Jitter <= 0 {
		c.Jitter = 0.25
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Client fronts a Backend with pacing and retries.
type Client struct {
	cfg     Config
	backend Backend
	gate    Gate

	// Injection points for tests.
	sleep func(context.Context, time.Duration) error
	randf func() float64
}

// New creates a Client. gate may be nil, in which case calls are not paced.
func New(cfg Config, backend Backend, gate Gate) *Client {
	cfg.defaults()
	return &Client{
		cfg:     cfg,
		backend: backend,
		gate:    gate,
		sleep:   dbopen.SleepCtx,
		randf:   rand.Float64,
	}
}

// Recognize transcribes one image. Each attempt first waits for a rate-gate
// slot. Client-class failures abort immediately; rate-limit, server and
// network failures are retried with growing, jittered backoff until
// MaxRetries is exhausted, which is a hard error for the document.
func (c *Client) Recognize(ctx context.Context, req Request) (string, error) {
	if req.Model == "" {
		req.Model = c.cfg.Model
	}

	attempts := c.cfg.MaxRetries + 1
	var last *APIError
	for attempt := 1; attempt <= attempts; attempt++ {
		if c.gate != nil {
			if err := c.gate.Wait(ctx, c.cfg.GateKey, c.cfg.RatePerMinute); err != nil {
				return "", fmt.Errorf("ocrclient: rate gate: %w", err)
			}
		}

		text, err := c.backend.Recognize(ctx, req)
		if err == nil {
			return text, nil
		}

		last = Classify(err)
		if !last.Retryable() {
			return "", fmt.Errorf("ocrclient: %w", last)
		}
		if attempt == attempts {
			break
		}

		delay := c.backoff(last.Class, attempt)
		c.cfg.Logger.Warn("ocr attempt failed, retrying",
			"attempt", attempt, "class", last.Class.String(), "delay", delay, "error", err)
		if err := c.sleep(ctx, delay); err != nil {
			return "", fmt.Errorf("ocrclient: cancelled during backoff: %w", err)
		}
	}

	return "", fmt.Errorf("ocrclient: giving up after %d attempts: %w", attempts, last)
}

// RecognizeImage adapts Recognize to the extraction engine's escalation
// interface.
func (c *Client) RecognizeImage(ctx context.Context, image []byte, format string) (string, error) {
	return c.Recognize(ctx, Request{Image: image, Format: format})
}

// backoff grows linearly with the attempt number and adds a random jitter
// fraction so synchronized workers fan out.
func (c *Client) backoff(class Class, attempt int) time.Duration {
	base := c.cfg.TransientDelay
	if class == ClassRateLimited {
		base = c.cfg.RateLimitDelay
	}
	d := time.Duration(attempt) * base
	return d + time.Duration(c.randf()*c.cfg.Jitter*float64(d))
}
