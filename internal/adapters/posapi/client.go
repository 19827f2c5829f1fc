package posapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"posme/internal/domain/member"
)

// DefaultTimeout is the fixed per-request timeout.
const DefaultTimeout = 30 * time.Second

// maxRetries is the number of additional attempts after the first request.
const maxRetries = 2

// ErrUnauthorized is wrapped into every 401 error, after the OnUnauthorized
// hook has run. The error also carries an *APIError with any server-provided
// message. Callers purge the session and navigate to the login route.
var ErrUnauthorized = errors.New("unauthorized")

// ErrLoginFailed is the generic login error used when the backend supplies no
// message of its own.
var ErrLoginFailed = errors.New("login failed")

// retryableStatus holds the response codes retried automatically. No other
// 4xx is ever retried.
var retryableStatus = map[int]bool{
	http.StatusRequestTimeout:      true, // 408
	http.StatusTooManyRequests:     true, // 429
	http.StatusInternalServerError: true, // 500
	http.StatusBadGateway:          true, // 502
	http.StatusServiceUnavailable:  true, // 503
	http.StatusGatewayTimeout:      true, // 504
}

// APIError is a non-2xx response from the backend, carrying the
// server-provided message when one was present.
type APIError struct {
	Status  int
	Message string
}

// Error renders the server message, or a generic line when there was none.
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Client wraps outbound calls to the external POS REST backend. It is
// constructed once per process with a fixed base URL and request timeout.
type Client struct {
	baseURL string
	http    *http.Client

	// onUnauthorized runs once per 401 response before ErrUnauthorized is
	// returned; wired to the session purge.
	onUnauthorized func(context.Context)

	// sleep is swappable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Client for the given base URL. A zero timeout selects
// DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		sleep:   sleepCtx,
	}
}

// SetOnUnauthorized installs the cross-cutting 401 hook.
func (c *Client) SetOnUnauthorized(fn func(context.Context)) {
	c.onUnauthorized = fn
}

// Login exchanges credentials for a token and the staff user record.
// POST: On non-2xx returns the server message if present, else ErrLoginFailed
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	var out LoginResponse
	body := map[string]string{"email": email, "password": password}
	err := c.do(ctx, http.MethodPost, "auth/login", "", nil, body, &out)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Message == "" {
			return LoginResponse{}, ErrLoginFailed
		}
		return LoginResponse{}, err
	}
	return out, nil
}

// Logout notifies the backend that the session is ending. Best-effort for
// callers: failures are returned so they can be logged, never surfaced.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "auth/logout", token, nil, nil, nil)
}

// GetMembers lists members with optional search and pagination.
func (c *Client) GetMembers(ctx context.Context, token, search string, page, limit int) (MembersPage, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	var out MembersPage
	err := c.do(ctx, http.MethodGet, "members", token, q, nil, &out)
	return out, err
}

// CreateMember registers a new member. Idempotency is the server's
// responsibility; the client does not dedupe.
func (c *Client) CreateMember(ctx context.Context, token string, in member.NewMemberInput) (member.Member, error) {
	var out member.Member
	err := c.do(ctx, http.MethodPost, "members", token, nil, in, &out)
	return out, err
}

// CreateTransaction submits one batched EARN or REDEEM transaction.
func (c *Client) CreateTransaction(ctx context.Context, token string, req TransactionRequest) (TransactionResult, error) {
	var out TransactionResult
	err := c.do(ctx, http.MethodPost, "transactions", token, nil, req, &out)
	return out, err
}

// GetBranchTransactions lists the signed-in branch's transaction history.
func (c *Client) GetBranchTransactions(ctx context.Context, token string, page, limit int) (TransactionsPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	var out TransactionsPage
	err := c.do(ctx, http.MethodGet, "transactions/branch", token, q, nil, &out)
	return out, err
}

// do performs one logical request with bearer injection, bounded retry, and
// the 401 hook. The body is marshalled once and replayed per attempt.
// PRE: path has no leading slash
// POST: out is decoded from a 2xx response body when non-nil
func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	endpoint := c.baseURL + "/" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	for attempt := 0; ; attempt++ {
		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("pos api %s %s: %w", method, path, err)
		}

		if retryableStatus[resp.StatusCode] && attempt < maxRetries {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			slog.Warn("posapi_retry", "method", method, "path", path, "status", resp.StatusCode, "attempt", attempt+1)
			if err := c.sleep(ctx, time.Duration(attempt+1)*250*time.Millisecond); err != nil {
				return err
			}
			continue
		}

		defer resp.Body.Close()

		if resp.StatusCode == http.StatusUnauthorized {
			msg := readErrorMessage(resp.Body)
			if c.onUnauthorized != nil {
				c.onUnauthorized(ctx)
			}
			return fmt.Errorf("%w: %w", ErrUnauthorized, &APIError{Status: resp.StatusCode, Message: msg})
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &APIError{Status: resp.StatusCode, Message: readErrorMessage(resp.Body)}
		}

		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
		}
		return nil
	}
}

// readErrorMessage extracts a server-provided message from an error body.
// Both {"message": ...} and {"error": ...} shapes are accepted.
func readErrorMessage(body io.Reader) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&parsed); err != nil {
		return ""
	}
	if parsed.Message != "" {
		return parsed.Message
	}
	return parsed.Error
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
