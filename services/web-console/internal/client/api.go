package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/money-tracker-web/shared/interceptor"
	"github.com/vasapolrittideah/money-tracker-web/shared/utilities"
)

// StatusError is returned for any non-2xx backend response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: received %d from API server: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: received %d from API server", e.Method, e.Path, e.StatusCode)
}

// APIClient talks JSON to the backend under a fixed base URL. Every request goes
// through the bearer transport.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zerolog.Logger
}

// Do sends body (when non-nil) as JSON and decodes the "response" field of a 2xx body
// into out (when non-nil). The status code is returned whenever a response arrived.
func (c *APIClient) Do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reqBody io.Reader
	if body != nil {
		reqBodyBytes, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("error marshaling request body: %w", err)
		}
		reqBody = bytes.NewReader(reqBodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, fmt.Errorf("error creating request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("error invoking API: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("api request")

	respBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode}
		var envelope utilities.Envelope[json.RawMessage]
		if json.Unmarshal(respBodyBytes, &envelope) == nil {
			statusErr.Message = envelope.Error
		}
		return resp.StatusCode, statusErr
	}

	if out != nil {
		var envelope utilities.Envelope[json.RawMessage]
		if err := json.Unmarshal(respBodyBytes, &envelope); err != nil {
			return resp.StatusCode, fmt.Errorf("error unmarshaling response body: %w", err)
		}
		if len(envelope.Response) == 0 {
			return resp.StatusCode, fmt.Errorf("response body of %s %s has no response field", method, path)
		}
		if err := json.Unmarshal(envelope.Response, out); err != nil {
			return resp.StatusCode, fmt.Errorf("error unmarshaling response field: %w", err)
		}
	}

	return resp.StatusCode, nil
}

// Provider builds the process-wide APIClient on first use and returns the same
// instance afterwards.
type Provider struct {
	baseURL string
	tokens  interceptor.TokenSource
	logger  *zerolog.Logger

	once   sync.Once
	client *APIClient
}

// NewProvider prepares a lazily constructed client for baseURL. tokens is consulted on
// every request to decide whether to attach the bearer token.
func NewProvider(baseURL string, tokens interceptor.TokenSource, logger *zerolog.Logger) *Provider {
	return &Provider{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		logger:  logger,
	}
}

// Client returns the shared APIClient.
func (p *Provider) Client() *APIClient {
	p.once.Do(func() {
		p.client = &APIClient{
			baseURL: p.baseURL,
			httpClient: &http.Client{
				Transport: interceptor.NewBearerTransport(http.DefaultTransport, p.tokens),
			},
			logger: p.logger,
		}
	})
	return p.client
}

// Do sends the request through the shared APIClient, constructing it if needed.
func (p *Provider) Do(ctx context.Context, method, path string, body, out any) (int, error) {
	return p.Client().Do(ctx, method, path, body, out)
}
