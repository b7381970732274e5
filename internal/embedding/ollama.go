package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// RequestError is a non-2xx response from the embedding backend.
type RequestError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("embedding backend returned %d: %s", e.StatusCode, e.Body)
}

func (e *RequestError) Unwrap() error { return e.Err }

// OllamaConfig configures the Ollama client.
type OllamaConfig struct {
	BaseURL           string
	Model             string
	Dimension         int
	Timeout           time.Duration
	RequestsPerMinute int // 0 = unlimited
}

// Ollama calls the /api/embed endpoint of an Ollama server.
type Ollama struct {
	httpClient *http.Client
	baseURL    string
	model      string
	dim        int
	limiter    *rate.Limiter
	logger     *slog.Logger
}

var _ BatchEmbedder = (*Ollama)(nil)

// NewOllama creates an Ollama embedding client with optional rate limiting.
func NewOllama(cfg OllamaConfig, logger *slog.Logger) *Ollama {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Limit(float64(cfg.RequestsPerMinute) / 60.0)
	}
	return &Ollama{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		dim:        cfg.Dimension,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

// Dimension returns the configured vector length.
func (c *Ollama) Dimension() int { return c.dim }

// Model returns the model name sent with each request.
func (c *Ollama) Model() string { return c.model }

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Model      string      `json:"model"`
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed returns the vector for a single text.
func (c *Ollama) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds all texts in one rate-limited request. The result is
// aligned with texts; every vector is checked against the configured
// dimension and scaled to unit length.
func (c *Ollama) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	payload, err := json.Marshal(embedRequest{Model: c.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/embed", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request /api/embed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{StatusCode: resp.StatusCode, Body: truncate(body, 200)}
	}

	var result embedResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embed: got %d vectors for %d texts", len(result.Embeddings), len(texts))
	}
	for i, v := range result.Embeddings {
		if err := Check(v, c.dim); err != nil {
			return nil, fmt.Errorf("embed item %d: %w", i, err)
		}
		Normalize(v)
	}

	c.logger.Debug("Embedded texts", "count", len(texts), "model", c.model, "duration", time.Since(start))
	return result.Embeddings, nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
