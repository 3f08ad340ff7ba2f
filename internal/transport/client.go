// Package transport wraps outbound HTTP calls to the HRMS backend. Every
// request goes through the same decoration pipeline: local rate ceiling, auth
// and identity headers, correlation id, bounded retry on transient server
// errors, and a single user-facing notification per logical failure.
package transport

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
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/frahmantamala/hrms-portal/internal"
	"github.com/frahmantamala/hrms-portal/internal/notify"
	"github.com/frahmantamala/hrms-portal/internal/session"
)

type Config struct {
	BaseURL              string
	Timeout              time.Duration
	MaxRequestsPerSecond int
	MaxRetries           int
	RetryBaseDelay       time.Duration
	SlowCallThreshold    time.Duration
}

type Client struct {
	baseURL        string
	httpClient     *http.Client
	limiter        *rate.Limiter
	session        *session.Store
	notifier       notify.Notifier
	logger         *slog.Logger
	maxRetries     int
	retryBaseDelay time.Duration
	slowThreshold  time.Duration
	onAuthExpired  func()
}

func NewClient(config Config, sess *session.Store, notifier notify.Notifier, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = notify.NewLogNotifier(logger)
	}

	maxRPS := config.MaxRequestsPerSecond
	if maxRPS <= 0 {
		maxRPS = 10
	}
	maxRetries := config.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	retryBaseDelay := config.RetryBaseDelay
	if retryBaseDelay <= 0 {
		retryBaseDelay = time.Second
	}
	slowThreshold := config.SlowCallThreshold
	if slowThreshold <= 0 {
		slowThreshold = 5 * time.Second
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:        strings.TrimRight(config.BaseURL, "/"),
		httpClient:     &http.Client{Timeout: timeout},
		limiter:        rate.NewLimiter(rate.Limit(maxRPS), maxRPS),
		session:        sess,
		notifier:       notifier,
		logger:         logger,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
		slowThreshold:  slowThreshold,
	}
}

// SetAuthExpiredHandler registers the hook invoked after a 401 clears the
// session. The handler owns location awareness: it must not redirect when the
// user is already on the login route.
func (c *Client) SetAuthExpiredHandler(handler func()) {
	c.onAuthExpired = handler
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do executes one logical request against the backend. Transient 5xx failures
// are retried with linearly increasing delay up to the retry ceiling; every
// other failure class resolves in a single attempt.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	if !c.limiter.Allow() {
		// local circuit breaker: absorbed and logged, not notified, so a
		// remote 429 for the same burst is never double-reported
		c.logger.Warn("request rejected by local rate ceiling", "method", method, "path", path)
		return internal.ErrThrottled
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return internal.NewInternalError("encoding request body failed", err)
		}
	}

	requestID := uuid.NewString()
	ctx = internal.ContextWithRequestID(ctx, requestID)
	start := time.Now()

	c.logger.Debug("api request",
		"request_id", requestID,
		"method", method,
		"path", path)

	for attempt := 0; ; attempt++ {
		resp, err := c.send(ctx, method, path, payload, requestID)
		if err != nil {
			return c.failNetwork(method, path, requestID, err)
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return c.failNetwork(method, path, requestID, readErr)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			elapsed := time.Since(start)
			c.logger.Debug("api response",
				"request_id", requestID,
				"method", method,
				"path", path,
				"status", resp.StatusCode,
				"elapsed", elapsed)
			if elapsed > c.slowThreshold {
				c.logger.Warn("slow api response",
					"request_id", requestID,
					"path", path,
					"elapsed", elapsed)
			}
			if out != nil && len(respBody) > 0 {
				if err := json.Unmarshal(respBody, out); err != nil {
					return internal.NewInternalError("decoding response body failed", err)
				}
			}
			return nil
		}

		retrying := attempt > 0

		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return c.handleUnauthorized(requestID, path, retrying)

		case http.StatusForbidden:
			c.notifier.Notify(notify.LevelError, "permission denied")
			return internal.ErrPermissionDenied

		case http.StatusNotFound:
			c.notifier.Notify(notify.LevelError, "requested resource does not exist")
			return internal.ErrResourceNotFound

		case http.StatusTooManyRequests:
			c.notifier.Notify(notify.LevelWarning, "too many requests, try again later")
			return internal.ErrRateLimited

		case http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			if attempt < c.maxRetries {
				delay := c.retryBaseDelay * time.Duration(attempt+1)
				c.logger.Info("retrying request",
					"request_id", requestID,
					"path", path,
					"attempt", attempt+1,
					"max_retries", c.maxRetries,
					"delay", delay)
				select {
				case <-time.After(delay):
					continue
				case <-ctx.Done():
					return c.failNetwork(method, path, requestID, ctx.Err())
				}
			}
			c.notifier.Notify(notify.LevelError, "service temporarily unavailable, try again later")
			return internal.NewUnavailableError(
				fmt.Sprintf("server error %d after %d retries", resp.StatusCode, c.maxRetries), nil)

		default:
			message := serverMessage(respBody)
			if message == "" {
				message = "request failed"
			}
			c.notifier.Notify(notify.LevelError, message)
			return &internal.AppError{
				Type:       internal.ErrorTypeInternal,
				Code:       internal.ErrCodeServerError,
				Message:    message,
				StatusCode: resp.StatusCode,
			}
		}
	}
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, requestID string) (*http.Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-Id", requestID)

	// login calls carry no auth context: there is nothing to attach yet
	if !isLoginPath(path) {
		if token := c.session.Token(); token != "" {
			if !strings.HasPrefix(token, "Bearer ") {
				token = "Bearer " + token
			}
			req.Header.Set("Authorization", token)
		}
	}
	if role := c.session.Role(); role != "" {
		req.Header.Set("X-User-Role", string(role))
	}
	if employeeID := c.session.EmployeeID(); employeeID != "" {
		req.Header.Set("X-User-Employee-Id", employeeID)
	}

	return c.httpClient.Do(req)
}

// handleUnauthorized clears the session and fires the auth-expired hook, but
// only for the first attempt of a request: a 401 arriving on a retry must not
// re-trigger the forced logout.
func (c *Client) handleUnauthorized(requestID, path string, retrying bool) error {
	if retrying {
		c.logger.Debug("401 on retried request, skipping forced logout",
			"request_id", requestID, "path", path)
		return internal.ErrSessionExpired
	}

	c.logger.Info("authentication rejected, clearing session",
		"request_id", requestID, "path", path)
	c.session.Clear()
	c.notifier.Notify(notify.LevelError, "session expired, please log in again")
	if c.onAuthExpired != nil {
		c.onAuthExpired()
	}
	return internal.ErrSessionExpired
}

func (c *Client) failNetwork(method, path, requestID string, err error) error {
	c.logger.Error("api request failed",
		"request_id", requestID,
		"method", method,
		"path", path,
		"error", err)

	if isTimeout(err) {
		c.notifier.Notify(notify.LevelError, "request timed out, check your network connection")
		return internal.NewNetworkError("request timed out", internal.ErrCodeRequestTimeout, err)
	}
	c.notifier.Notify(notify.LevelError, "network connection failed")
	return internal.NewNetworkError("network connection failed", internal.ErrCodeNetworkFailure, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(err.Error(), "timeout")
}

func isLoginPath(path string) bool {
	return strings.Contains(path, "/auth/login")
}

// serverMessage extracts the backend-provided message from an error body, if
// any of the shapes the backend has used over time are present.
func serverMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var envelope struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return envelope.Error.Message
}
