// Package verifier calls the local email-validation API. The service is
// treated as unreliable: connection failures and timeouts surface as the
// distinct row statuses UNKNOWN and TIMEOUT rather than as errors.
package verifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/dataiq/outreach-cli/internal/resilience"
)

// Verdict statuses produced locally when the API cannot answer.
const (
	StatusUnknown = "UNKNOWN" // service unreachable
	StatusTimeout = "TIMEOUT" // request timed out
	StatusError   = "ERROR"   // any other failure
)

// Result is one email verdict. The validation booleans are tri-state:
// nil means the service never answered.
type Result struct {
	Status         string
	Score          float64
	Syntax         *bool
	DomainExists   *bool
	MXRecords      *bool
	IsDisposable   *bool
	IsRoleBased    *bool
	AliasOf        string
	TypoSuggestion string
	Err            string
}

// Client calls the validation API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	retry      resilience.RetryConfig
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRateLimit sets the requests-per-second limit.
func WithRateLimit(rps float64) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

// WithRetry overrides the transport retry configuration.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *Client) { c.retry = cfg }
}

// NewClient creates a verifier client for the given API base URL
// (e.g. http://localhost:8080/api).
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(50, 1),
		retry:      resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiResponse mirrors the validation API wire format.
type apiResponse struct {
	Status      string  `json:"status"`
	Score       float64 `json:"score"`
	Validations struct {
		Syntax       *bool `json:"syntax"`
		DomainExists *bool `json:"domain_exists"`
		MXRecords    *bool `json:"mx_records"`
		IsDisposable *bool `json:"is_disposable"`
		IsRoleBased  *bool `json:"is_role_based"`
	} `json:"validations"`
	AliasOf        string `json:"aliasOf"`
	TypoSuggestion string `json:"typoSuggestion"`
}

// Verify validates a single email. It never returns a Go error: transport
// failures become UNKNOWN/TIMEOUT/ERROR results so one bad call cannot
// abort a batch. Transient failures are retried before a verdict is made.
func (c *Client) Verify(ctx context.Context, email string) Result {
	if err := c.limiter.Wait(ctx); err != nil {
		return failureResult(StatusError, err)
	}

	resp, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*apiResponse, error) {
		return c.fetch(ctx, email)
	})
	if err != nil {
		return classifyFailure(err)
	}

	status := resp.Status
	if status == "" {
		status = StatusUnknown
	}
	return Result{
		Status:         status,
		Score:          resp.Score,
		Syntax:         resp.Validations.Syntax,
		DomainExists:   resp.Validations.DomainExists,
		MXRecords:      resp.Validations.MXRecords,
		IsDisposable:   resp.Validations.IsDisposable,
		IsRoleBased:    resp.Validations.IsRoleBased,
		AliasOf:        resp.AliasOf,
		TypoSuggestion: resp.TypoSuggestion,
	}
}

func (c *Client) fetch(ctx context.Context, email string) (*apiResponse, error) {
	u := fmt.Sprintf("%s/validate?email=%s", c.baseURL, url.QueryEscape(email))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, eris.Wrap(err, "verifier: build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := eris.Errorf("verifier: status %d", resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "verifier: read body")
	}

	var payload apiResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, eris.Wrap(err, "verifier: decode response")
	}
	return &payload, nil
}

// classifyFailure maps an exhausted transport error onto the row-level
// statuses the pipeline writes out.
func classifyFailure(err error) Result {
	if isTimeout(err) {
		return failureResult(StatusTimeout, err)
	}
	if isUnreachable(err) {
		return failureResult(StatusUnknown, err)
	}

	r := failureResult(StatusError, err)
	// A definitive error marks all checks failed rather than unanswered.
	f := false
	r.Syntax, r.DomainExists, r.MXRecords, r.IsDisposable, r.IsRoleBased = &f, &f, &f, &f, &f
	return r
}

func failureResult(status string, err error) Result {
	return Result{Status: status, Err: err.Error()}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isUnreachable(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH)
}
