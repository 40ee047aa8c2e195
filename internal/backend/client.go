package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PratikDhanave/clinic-dashboard/internal/models"
)

var (
	// ErrUnexpectedStatus wraps every non-2xx response from the lab back end.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrResponseTooLarge is returned when a body exceeds the client's read cap.
	ErrResponseTooLarge = errors.New("response too large")
)

// DefaultMaxResponseBytes caps how much of a response body is read.
const DefaultMaxResponseBytes int64 = 8 << 20

// Client reads from the lab REST back end.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	maxBody    int64
}

// NewClient creates a client. A zero timeout means 10s.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		maxBody:    DefaultMaxResponseBytes,
	}
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	// One extra byte tells a body of exactly maxBody from a longer one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%w: over %d bytes", ErrResponseTooLarge, c.maxBody)
	}

	if resp.StatusCode >= 400 {
		var e errorResponse
		if json.Unmarshal(body, &e) == nil {
			if msg := firstNonEmpty(e.Message, e.Error); msg != "" {
				return nil, fmt.Errorf("%w: HTTP %d: %s", ErrUnexpectedStatus, resp.StatusCode, msg)
			}
		}
		return nil, fmt.Errorf("%w: HTTP %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return body, nil
}

// ListEventLogs fetches GET /event-logs. The back end answers either with a
// bare array or with {"data": [...]}.
func (c *Client) ListEventLogs(ctx context.Context) ([]models.RawEventLog, error) {
	body, err := c.get(ctx, "/event-logs")
	if err != nil {
		return nil, fmt.Errorf("list event logs: %w", err)
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return []models.RawEventLog{}, nil
	}

	var logs []models.RawEventLog
	if body[0] == '[' {
		if err := json.Unmarshal(body, &logs); err != nil {
			return nil, fmt.Errorf("decode event logs: %w", err)
		}
	} else {
		var env struct {
			Data []models.RawEventLog `json:"data"`
		}
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("decode event logs: %w", err)
		}
		logs = env.Data
	}
	if logs == nil {
		logs = []models.RawEventLog{}
	}
	return logs, nil
}

// Ping checks GET /health on the back end.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.get(ctx, "/health"); err != nil {
		return fmt.Errorf("backend health: %w", err)
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
