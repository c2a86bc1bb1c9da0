// Package client is the HTTP client for the medspa API. Every call is a GET,
// so transient failures are retried with exponential backoff and each endpoint
// sits behind its own circuit breaker.
package client

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/medspa-api/internal/model"
	"github.com/jwalitptl/medspa-api/pkg/circuitbreaker"
	"github.com/jwalitptl/medspa-api/pkg/errors"
	"github.com/jwalitptl/medspa-api/pkg/httputil"
)

// ErrNotFound matches, via errors.Is, any 404 returned by the API.
var ErrNotFound = errors.NotFoundError

// TransportError covers everything between the caller and a decoded response:
// network failures, non-2xx statuses, malformed bodies and an open breaker.
type TransportError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	msg := e.Message
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("status %d: %s", e.StatusCode, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Retryable reports whether a repeat of the same request could succeed.
func (e *TransportError) Retryable() bool {
	return e.StatusCode == 0 || e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries uint64
	// InitialBackoff is the first retry delay; later delays grow exponentially.
	InitialBackoff time.Duration
	Breaker        circuitbreaker.Settings
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

type Client struct {
	baseURL *url.URL
	http    *http.Client
	cfg     Config
	log     zerolog.Logger

	mu       sync.Mutex
	breakers map[string]*circuitbreaker.CircuitBreaker
}

func New(cfg Config, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 200 * time.Millisecond
	}

	c := &Client{
		baseURL:  base,
		http:     &http.Client{Timeout: cfg.Timeout},
		cfg:      cfg,
		log:      zerolog.Nop(),
		breakers: make(map[string]*circuitbreaker.CircuitBreaker),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) ListPatients(ctx context.Context, params model.PatientParams) (model.Page[model.Patient], error) {
	q := pageQuery(params.Cursor, params.Limit, params.Search)
	setIf(q, "gender", string(params.Gender))
	setIf(q, "source", string(params.Source))
	setIf(q, "sortBy", params.SortBy)
	setIf(q, "sortOrder", string(params.SortOrder))
	return get[model.Page[model.Patient]](ctx, c, "patients", "/api/patients", q)
}

func (c *Client) GetPatient(ctx context.Context, id string) (model.PatientDetail, error) {
	return get[model.PatientDetail](ctx, c, "patient", "/api/patients/"+url.PathEscape(id), nil)
}

func (c *Client) ListProviders(ctx context.Context, params model.ProviderParams) (model.Page[model.ProviderSummary], error) {
	return get[model.Page[model.ProviderSummary]](ctx, c, "providers", "/api/providers", pageQuery(params.Cursor, params.Limit, params.Search))
}

func (c *Client) Demographics(ctx context.Context) (model.Demographics, error) {
	return get[model.Demographics](ctx, c, "demographics", "/api/analytics/demographics", nil)
}

func (c *Client) Sources(ctx context.Context) (model.SourceAnalytics, error) {
	return get[model.SourceAnalytics](ctx, c, "sources", "/api/analytics/sources", nil)
}

func (c *Client) Services(ctx context.Context) (model.ServiceAnalytics, error) {
	return get[model.ServiceAnalytics](ctx, c, "services", "/api/analytics/services", nil)
}

func (c *Client) Providers(ctx context.Context) (model.ProviderAnalytics, error) {
	return get[model.ProviderAnalytics](ctx, c, "provider-analytics", "/api/analytics/providers", nil)
}

func (c *Client) Appointments(ctx context.Context) (model.AppointmentAnalytics, error) {
	return get[model.AppointmentAnalytics](ctx, c, "appointments", "/api/analytics/appointments", nil)
}

func (c *Client) PatientBehavior(ctx context.Context) (model.PatientBehavior, error) {
	return get[model.PatientBehavior](ctx, c, "patient-behavior", "/api/analytics/patient-behavior", nil)
}

func (c *Client) Patients(ctx context.Context) (model.PatientAnalytics, error) {
	return get[model.PatientAnalytics](ctx, c, "patient-analytics", "/api/analytics/patients", nil)
}

func (c *Client) Business(ctx context.Context) (model.BusinessAnalytics, error) {
	return get[model.BusinessAnalytics](ctx, c, "business", "/api/analytics/business", nil)
}

// BreakerState returns the breaker state for an endpoint name, or "" if it was never called.
func (c *Client) BreakerState(endpoint string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cb, ok := c.breakers[endpoint]; ok {
		return cb.State()
	}
	return ""
}

func (c *Client) breaker(endpoint string) *circuitbreaker.CircuitBreaker {
	c.mu.Lock()
	defer c.mu.Unlock()

	cb, ok := c.breakers[endpoint]
	if !ok {
		settings := c.cfg.Breaker
		settings.Name = endpoint
		settings.IsFailure = countsAgainstBreaker
		cb = circuitbreaker.NewCircuitBreaker(settings)
		c.breakers[endpoint] = cb
	}
	return cb
}

// countsAgainstBreaker ignores client errors; only an unhealthy server should trip.
func countsAgainstBreaker(err error) bool {
	var te *TransportError
	if stderrors.As(err, &te) {
		return te.Retryable()
	}
	return !errors.IsNotFound(err) && !stderrors.Is(err, context.Canceled)
}

func get[T any](ctx context.Context, c *Client, endpoint, path string, query url.Values) (T, error) {
	var out T

	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	u.RawQuery = query.Encode()
	target := u.String()

	cb := c.breaker(endpoint)
	attempt := func() error {
		err := cb.Execute(func() error {
			return c.do(ctx, target, &out)
		})
		if stderrors.Is(err, circuitbreaker.ErrOpen) {
			return backoff.Permanent(&TransportError{Message: endpoint + " circuit open", Err: err})
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.InitialBackoff
	policy := backoff.WithContext(backoff.WithMaxRetries(b, c.cfg.MaxRetries), ctx)

	notify := func(err error, wait time.Duration) {
		c.log.Debug().Err(err).Str("endpoint", endpoint).Dur("retry_in", wait).Msg("retrying request")
	}

	if err := backoff.RetryNotify(attempt, policy, notify); err != nil {
		return out, err
	}
	return out, nil
}

// do performs one request. Errors that retrying cannot fix are wrapped as permanent.
func (c *Client) do(ctx context.Context, target string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return backoff.Permanent(&TransportError{Message: "failed to build request", Err: err})
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return &TransportError{Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{StatusCode: resp.StatusCode, Message: "failed to read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := errorMessage(resp, body)
		if resp.StatusCode == http.StatusNotFound {
			return backoff.Permanent(&errors.AppError{Code: errors.ErrNotFound, Message: msg})
		}
		te := &TransportError{StatusCode: resp.StatusCode, Message: msg}
		if !te.Retryable() {
			return backoff.Permanent(te)
		}
		return te
	}

	if err := json.Unmarshal(body, out); err != nil {
		return backoff.Permanent(&TransportError{StatusCode: resp.StatusCode, Message: "malformed response body", Err: err})
	}
	return nil
}

func errorMessage(resp *http.Response, body []byte) string {
	var er httputil.ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error != nil && er.Error.Message != "" {
		return er.Error.Message
	}
	return http.StatusText(resp.StatusCode)
}

func pageQuery(cursor string, limit int, search string) url.Values {
	q := url.Values{}
	setIf(q, "cursor", cursor)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	setIf(q, "search", search)
	return q
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
