// Package advice asks a language model to review a shopping list.
package advice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/odyssey-erp/itstock/internal/procurement"
	"github.com/odyssey-erp/itstock/internal/shared"
)

// DefaultTimeout bounds a single advice request.
const DefaultTimeout = 30 * time.Second

// ErrNotConfigured is returned when no API key was provided.
var ErrNotConfigured = fmt.Errorf("advice: api key not configured: %w", shared.ErrServiceUnavailable)

// Config holds the OpenAI-compatible endpoint settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client implements procurement.Advisor.
type Client struct {
	llm     llms.Model
	timeout time.Duration
	logger  *slog.Logger
}

var _ procurement.Advisor = (*Client)(nil)

// New builds a client from config. A missing key yields a client that always reports
// the service as unavailable.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return NewWithModel(nil, cfg.Timeout, logger), nil
	}
	opts := []openai.Option{openai.WithToken(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("advice: create client: %w", err)
	}
	return NewWithModel(llm, cfg.Timeout, logger), nil
}

// NewWithModel wraps an existing model.
func NewWithModel(llm llms.Model, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{llm: llm, timeout: timeout, logger: logger.With(slog.String("component", "advice"))}
}

// Advise sends the list to the model and returns its formatted reply.
func (c *Client) Advise(ctx context.Context, lines []procurement.Line) (string, error) {
	if c.llm == nil {
		return "", ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	text, err := llms.GenerateFromSinglePrompt(ctx, c.llm, BuildPrompt(lines))
	if err != nil {
		c.logger.Warn("advice request failed", slog.Any("error", err), slog.Duration("elapsed", time.Since(start)))
		if errors.Is(err, shared.ErrServiceUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("advice: generate: %v: %w", err, shared.ErrServiceUnavailable)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("advice: empty reply: %w", shared.ErrServiceUnavailable)
	}
	c.logger.Info("advice generated", slog.Int("lines", len(lines)), slog.Duration("elapsed", time.Since(start)))
	return text, nil
}

// BuildPrompt renders the review request for a final list.
func BuildPrompt(lines []procurement.Line) string {
	var b strings.Builder
	b.WriteString("Act as an experienced IT manager. I prepared this shopping list of IT equipment:\n\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "- %s (Qty: %d)", l.Name, l.Quantity)
		if l.Note != "" {
			fmt.Fprintf(&b, " [Note: %s]", l.Note)
		}
		if l.Source == procurement.SourceManual {
			b.WriteString(" [Manual]")
		} else {
			b.WriteString(" [Low stock]")
		}
		b.WriteByte('\n')
	}
	b.WriteString("\nPlease:\n")
	b.WriteString("1. Check whether the order quantities look adequate.\n")
	b.WriteString("2. Point out any notes that need special attention.\n")
	b.WriteString("3. Reply concisely and professionally, formatted as simple HTML (<b>, <ul>, <li>).\n")
	return b.String()
}
