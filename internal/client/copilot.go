package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/markis/gh-coach/internal/stream"
)

// Constants
const (
	APIBase   = "https://api.githubcopilot.com"
	GitHubAPI = "https://api.github.com"
)

// AuthorizationResponse represents the structure of the response from the GitHub API for authorization.
type AuthorizationResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// Client talks to the Copilot chat completions API.
type Client struct {
	apiBase    string
	githubAPI  string
	tokenFunc  func() (string, error)
	httpClient *http.Client
	logger     *slog.Logger

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURLs points the client at different API hosts.
func WithBaseURLs(apiBase, githubAPI string) Option {
	return func(c *Client) {
		c.apiBase = strings.TrimSuffix(apiBase, "/")
		c.githubAPI = strings.TrimSuffix(githubAPI, "/")
	}
}

// WithTokenFunc replaces the GitHub token lookup.
func WithTokenFunc(fn func() (string, error)) Option {
	return func(c *Client) {
		c.tokenFunc = fn
	}
}

// WithHTTPClient replaces the shared HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		apiBase:   APIBase,
		githubAPI: GitHubAPI,
		tokenFunc: GitHubToken,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// defaultHeaders returns the default headers for the API requests.
func defaultHeaders() map[string]string {
	return map[string]string{
		"Editor-Version":         "vscode/1.100.2",
		"Copilot-Integration-Id": "vscode-chat",
	}
}

// getHeaders retrieves the authorization headers required for the API requests.
func (c *Client) getHeaders(ctx context.Context) (map[string]string, error) {
	token, err := c.copilotToken(ctx)
	if err != nil {
		return nil, err
	}

	headers := defaultHeaders()
	headers["Authorization"] = "Bearer " + token
	return headers, nil
}

// copilotToken exchanges the GitHub token for a short-lived Copilot token,
// reusing the previous one until a minute before it expires.
func (c *Client) copilotToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Add(time.Minute).Before(c.expiresAt) {
		return c.token, nil
	}

	githubToken, err := c.tokenFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get GitHub token: %w", err)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.githubAPI+"/copilot_internal/v2/token", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range defaultHeaders() {
		req.Header.Set(k, v)
	}
	req.Header.Set("Authorization", "Token "+githubToken)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token request failed: %w", newAPIError(resp.StatusCode, strings.TrimSpace(string(body))))
	}

	auth := AuthorizationResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if auth.Token == "" {
		return "", errors.New("received empty token in response")
	}

	c.token = auth.Token
	c.expiresAt = time.Unix(auth.ExpiresAt, 0)
	return c.token, nil
}

// getHTTPClient returns a singleton HTTP client
var (
	httpClient     *http.Client
	httpClientOnce sync.Once
	defaultTimeout = 60 * time.Second
)

func getHTTPClient(ctx context.Context) *http.Client {
	httpClientOnce.Do(func() {
		transport := &http.Transport{
			MaxIdleConns:       100,
			IdleConnTimeout:    90 * time.Second,
			DisableCompression: false,
			DisableKeepAlives:  false,
			ForceAttemptHTTP2:  true,
		}

		transport.DialContext = (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext

		httpClient = &http.Client{
			Transport: transport,
		}
	})

	// Check if there's a timeout in the context
	if deadline, ok := ctx.Deadline(); ok {
		clientCopy := *httpClient
		clientCopy.Timeout = time.Until(deadline)
		return &clientCopy
	}

	clientCopy := *httpClient
	clientCopy.Timeout = defaultTimeout
	return &clientCopy
}

func (c *Client) client(ctx context.Context) *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return getHTTPClient(ctx)
}

// Stream sends req and returns the reply as it arrives.
func (c *Client) Stream(ctx context.Context, req Request) (<-chan stream.Chunk, error) {
	headers, err := c.getHeaders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get headers: %w", err)
	}

	payload := prepareInput(req)
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if req.HasImages() {
		httpReq.Header.Set("Copilot-Vision-Request", "true")
	}

	c.logger.Debug("sending completion request", "model", req.Model, "messages", len(req.Messages), "bytes", len(data))

	resp, err := c.client(ctx).Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("failed to close response body", "error", err)
		}
		return nil, newAPIError(resp.StatusCode, strings.TrimSpace(string(body)))
	}

	parser := stream.NewParser(ctx)
	go parser.Process(resp.Body)
	return parser.Chunks(), nil
}

// Complete sends req and returns the whole reply.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	chunks, err := c.Stream(ctx, req)
	if err != nil {
		return "", err
	}

	text, err := stream.Collect(chunks)
	if err != nil {
		return "", fmt.Errorf("error reading response stream: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}

	c.logger.Debug("completion finished", "model", req.Model, "chars", len(text))
	return text, nil
}
