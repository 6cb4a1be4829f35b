package suggest

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"text/template"
	"time"
)

// DefaultTimeout bounds a suggestion request when none is configured.
const DefaultTimeout = 30 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

var (
	// ErrNotConfigured is returned when no endpoint is set.
	ErrNotConfigured = errors.New("suggest endpoint not configured")

	// ErrInvalidInput is returned for empty or non-finite number lists.
	ErrInvalidInput = errors.New("invalid suggestion input")

	// ErrSchemaViolation is returned when a response does not match #Output.
	ErrSchemaViolation = errors.New("response does not match schema")

	// ErrNoSuggestions is returned when the endpoint found no formulas.
	ErrNoSuggestions = errors.New("no relevant formulas found")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("suggest endpoint returned %s", e.Status)
	}
	return fmt.Sprintf("suggest endpoint returned %s: %s", e.Status, e.Body)
}

// Suggester proposes formulas for a list of numbers.
type Suggester interface {
	Suggest(ctx context.Context, numbers []float64) ([]string, error)
}

//go:embed prompt.tmpl
var promptSrc string

var promptTmpl = template.Must(template.New("prompt").Funcs(template.FuncMap{
	"join": joinNumbers,
}).Parse(promptSrc))

func joinNumbers(numbers []float64) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.FormatFloat(n, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

// RenderPrompt renders the instruction text sent with numbers.
func RenderPrompt(numbers []float64) (string, error) {
	var buf bytes.Buffer
	if err := promptTmpl.Execute(&buf, struct{ Numbers []float64 }{numbers}); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

// Client is the HTTP Suggester.
type Client struct {
	endpoint string
	model    string
	timeout  time.Duration
	http     *http.Client
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithModel sets the model name sent with each request.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithTimeout sets the per-request timeout. Values below 1 are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client. The client is never
// modified; the request timeout is applied through the request context.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient returns a Client posting to endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		timeout:  DefaultTimeout,
		http:     http.DefaultClient,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type request struct {
	Model  string `json:"model,omitempty"`
	Prompt string `json:"prompt"`
	Input  Input  `json:"input"`
}

// Input is the structured payload validated against #Input.
type Input struct {
	Numbers []float64 `json:"numbers"`
}

// Output is the structured response validated against #Output.
type Output struct {
	Formulas []string `json:"formulas"`
}

// Suggest posts numbers to the endpoint and returns the suggested formulas.
func (c *Client) Suggest(ctx context.Context, numbers []float64) ([]string, error) {
	if c.endpoint == "" {
		return nil, ErrNotConfigured
	}
	for _, n := range numbers {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, fmt.Errorf("%w: %v is not finite", ErrInvalidInput, n)
		}
	}

	in := Input{Numbers: numbers}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	prompt, err := RenderPrompt(numbers)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(request{Model: c.model, Prompt: prompt, Input: in})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("suggest request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("suggest response",
		"status", resp.StatusCode,
		"bytes", len(raw),
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	out, err := decodeOutput(raw)
	if err != nil {
		return nil, err
	}
	if len(out.Formulas) == 0 {
		return nil, ErrNoSuggestions
	}
	return out.Formulas, nil
}

// ParseNumbers splits s on commas and whitespace and keeps the tokens that
// parse as numbers.
func ParseNumbers(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	numbers := []float64{}
	for _, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			continue
		}
		numbers = append(numbers, n)
	}
	if len(numbers) == 0 {
		return nil, fmt.Errorf("%w: no valid numbers in %q", ErrInvalidInput, s)
	}
	return numbers, nil
}
