package plc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// WebClient talks to a controller's web gateway: JSON over HTTP with a
// token-bearing session. It implements Transport; the adapter never sees
// HTTP details.
type WebClient struct {
	client  *http.Client
	baseURL string
	logger  *log.Logger

	mu    sync.Mutex
	token string
}

// NewWebClient builds a transport against the gateway at baseURL. A nil
// logger disables request logging.
func NewWebClient(baseURL string, logger *log.Logger) *WebClient {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &WebClient{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		logger:  logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type writeRequest struct {
	Tags []TagValue `json:"tags"`
}

type readRequest struct {
	Tags []string `json:"tags"`
}

type readResponse struct {
	Values []TagValue `json:"values"`
}

type gatewayError struct {
	Message string `json:"message"`
}

// Login authenticates against the gateway and stores the session token for
// later calls. The address parameter overrides the constructor's base URL
// when non-empty, so the UI's connection dialog stays authoritative.
func (c *WebClient) Login(ctx context.Context, address, username, password string) error {
	c.mu.Lock()
	if address != "" {
		c.baseURL = address
	}
	c.mu.Unlock()

	var resp loginResponse
	if err := c.post(ctx, "/api/login", loginRequest{Username: username, Password: password}, &resp); err != nil {
		return err
	}
	if resp.Token == "" {
		return fmt.Errorf("gateway returned an empty session token")
	}

	c.mu.Lock()
	c.token = resp.Token
	c.mu.Unlock()
	c.logger.Info("plc session established", "gateway", address, "user", username)
	return nil
}

// BulkWrite sends the whole tag list in one request. The gateway applies
// the batch atomically or rejects it whole.
func (c *WebClient) BulkWrite(ctx context.Context, tags []TagValue) error {
	c.logger.Debug("bulk write", "tags", len(tags))
	return c.post(ctx, "/api/tags/write", writeRequest{Tags: tags}, nil)
}

// BulkRead resolves the requested tag paths in one request.
func (c *WebClient) BulkRead(ctx context.Context, tags []string) ([]TagValue, error) {
	c.logger.Debug("bulk read", "tags", len(tags))
	var resp readResponse
	if err := c.post(ctx, "/api/tags/read", readRequest{Tags: tags}, &resp); err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (c *WebClient) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	c.mu.Lock()
	url := c.baseURL + path
	token := c.token
	c.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var ge gatewayError
		if json.NewDecoder(resp.Body).Decode(&ge) == nil && ge.Message != "" {
			return fmt.Errorf("gateway refused %s: %s", path, ge.Message)
		}
		return fmt.Errorf("gateway refused %s: HTTP %d", path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
