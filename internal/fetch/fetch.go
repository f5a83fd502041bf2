// Package fetch provides the rate-limited, rotating HTTP transport used by the crawler.
// Every request of a run passes through one Transport, which owns the pacer and
// the identity/proxy rotation state.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"syscall"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultMaxAttempts bounds the number of tries per URL.
const DefaultMaxAttempts = 5

const (
	defaultBackoffBase = 2 * time.Second
	defaultBackoffMax  = 60 * time.Second
	maxBodyBytes       = 8 << 20
	maxRedirects       = 10
)

var errTooManyRedirects = errors.New("too many redirects")

// Result holds the body and metadata of a successful fetch.
type Result struct {
	URL         string
	FinalURL    string
	HTML        string
	ContentType string
	StatusCode  int
	Attempts    int
}

// Error represents an error during URL fetching.
type Error struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
	Retryable  bool
	RetryAfter time.Duration
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsTransient reports whether err is a fetch error worth retrying later.
func IsTransient(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Retryable
}

// IsPermanent reports whether err is a fetch error that will not succeed on retry.
func IsPermanent(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && !fe.Retryable
}

// Options configures the transport.
type Options struct {
	Timeout     time.Duration
	BaseDelay   time.Duration
	Jitter      float64
	MaxAttempts int
	BackoffBase time.Duration
	BackoffMax  time.Duration
	Headers     map[string]string
}

// DefaultOptions returns sensible defaults for polite crawling.
func DefaultOptions() *Options {
	return &Options{
		Timeout:     DefaultTimeout,
		BaseDelay:   1500 * time.Millisecond,
		Jitter:      DefaultJitter,
		MaxAttempts: DefaultMaxAttempts,
		BackoffBase: defaultBackoffBase,
		BackoffMax:  defaultBackoffMax,
	}
}

// Transport issues paced, rotated and retried GET requests.
type Transport struct {
	opts     Options
	pacer    *Pacer
	rotation *Rotation
	logger   *slog.Logger

	mu      sync.Mutex
	clients map[string]*http.Client
}

// NewTransport creates a transport. A nil rotation means the default identity
// pool with direct connections; a nil logger means slog.Default().
func NewTransport(opts *Options, rotation *Rotation, logger *slog.Logger) *Transport {
	o := DefaultOptions()
	if opts != nil {
		o = mergeOptions(o, opts)
	}
	if rotation == nil {
		rotation = NewRotation(nil, nil, 0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{
		opts:     *o,
		pacer:    NewPacer(o.BaseDelay, o.Jitter),
		rotation: rotation,
		logger:   logger,
		clients:  make(map[string]*http.Client),
	}
}

func mergeOptions(defaults, opts *Options) *Options {
	merged := *opts
	if merged.Timeout <= 0 {
		merged.Timeout = defaults.Timeout
	}
	if merged.MaxAttempts <= 0 {
		merged.MaxAttempts = defaults.MaxAttempts
	}
	if merged.BackoffBase < 0 {
		merged.BackoffBase = 0
	}
	if merged.BackoffMax <= 0 {
		merged.BackoffMax = defaults.BackoffMax
	}
	if merged.Jitter < 0 {
		merged.Jitter = 0
	}
	return &merged
}

// Fetch retrieves urlStr, waiting on the shared pacer before every attempt.
// Transient failures are retried with exponential backoff up to MaxAttempts;
// permanent failures and context cancellation return immediately.
func (t *Transport) Fetch(ctx context.Context, urlStr string) (*Result, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{
			URL:     urlStr,
			Message: "invalid URL",
			Cause:   err,
		}
	}

	var lastErr *Error
	for attempt := 1; attempt <= t.opts.MaxAttempts; attempt++ {
		if err := t.pacer.Wait(ctx); err != nil {
			return nil, err
		}

		identity, proxy := t.rotation.Next()
		result, err := t.do(ctx, urlStr, identity, proxy)
		t.logAttempt(urlStr, identity, proxy, attempt, result, err)

		if err == nil {
			t.rotation.ReportSuccess(proxy)
			result.Attempts = attempt
			return result, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		var fe *Error
		if !errors.As(err, &fe) {
			return nil, err
		}
		if fe.StatusCode == http.StatusForbidden || fe.Retryable {
			t.rotation.ReportFailure(proxy)
		}
		if !fe.Retryable {
			return nil, fe
		}
		lastErr = fe

		if attempt < t.opts.MaxAttempts {
			if err := sleep(ctx, t.backoff(attempt, fe.RetryAfter)); err != nil {
				return nil, err
			}
		}
	}

	return nil, &Error{
		URL:        urlStr,
		StatusCode: lastErr.StatusCode,
		Message:    fmt.Sprintf("gave up after %d attempts", t.opts.MaxAttempts),
		Cause:      lastErr,
		Retryable:  true,
	}
}

// do performs a single attempt.
func (t *Transport) do(ctx context.Context, urlStr string, identity Identity, proxy *url.URL) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to create request",
			Cause:   err,
		}
	}

	req.Header.Set("User-Agent", identity.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if identity.Referer != "" {
		req.Header.Set("Referer", identity.Referer)
	}
	if identity.AcceptLanguage != "" {
		req.Header.Set("Accept-Language", identity.AcceptLanguage)
	}
	for key, value := range t.opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := t.clientFor(proxy).Do(req)
	if err != nil {
		return nil, classifyTransportError(urlStr, err)
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{
			URL:        urlStr,
			StatusCode: resp.StatusCode,
			Message:    "failed to read response body",
			Cause:      err,
			Retryable:  isTimeout(err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			URL:        urlStr,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
			Retryable:  resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	return &Result{
		URL:         urlStr,
		FinalURL:    resp.Request.URL.String(),
		HTML:        string(bodyBytes),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}, nil
}

// clientFor returns the cached client for proxy, creating it on first use.
func (t *Transport) clientFor(proxy *url.URL) *http.Client {
	key := ""
	if proxy != nil {
		key = proxy.String()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if c, ok := t.clients[key]; ok {
		return c
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	if proxy != nil {
		transport.Proxy = http.ProxyURL(proxy)
	}
	c := &http.Client{
		Timeout:   t.opts.Timeout,
		Transport: transport,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errTooManyRedirects
			}
			return nil
		},
	}
	t.clients[key] = c
	return c
}

// backoff returns the wait before the next attempt: BackoffBase*2^(attempt-1)
// plus up to 50% jitter, raised to retryAfter when that is larger, capped at BackoffMax.
func (t *Transport) backoff(attempt int, retryAfter time.Duration) time.Duration {
	base := t.opts.BackoffBase
	if base <= 0 {
		return 0
	}
	d := base << (attempt - 1)
	if d <= 0 || d > t.opts.BackoffMax {
		d = t.opts.BackoffMax
	}
	if half := int64(d / 2); half > 0 {
		d += time.Duration(rand.Int64N(half))
	}
	if retryAfter > d {
		d = retryAfter
	}
	if d > t.opts.BackoffMax {
		d = t.opts.BackoffMax
	}
	return d
}

func (t *Transport) logAttempt(urlStr string, identity Identity, proxy *url.URL, attempt int, result *Result, err error) {
	outcome := "ok"
	status := 0
	if result != nil {
		status = result.StatusCode
	}
	var fe *Error
	switch {
	case errors.As(err, &fe):
		status = fe.StatusCode
		outcome = "permanent"
		if fe.Retryable {
			outcome = "transient"
		}
	case err != nil:
		outcome = "aborted"
	}

	proxyLabel := "direct"
	if proxy != nil {
		proxyLabel = proxy.Host
	}
	t.logger.Debug("fetch attempt",
		"url", urlStr,
		"attempt", attempt,
		"proxy", proxyLabel,
		"user_agent", identity.UserAgent,
		"status", status,
		"outcome", outcome,
	)
}

// classifyTransportError wraps a client.Do failure. Timeouts and connection
// failures are transient; redirect loops and malformed requests are permanent.
func classifyTransportError(urlStr string, err error) *Error {
	fe := &Error{
		URL:       urlStr,
		Message:   "HTTP request failed",
		Cause:     err,
		Retryable: true,
	}
	switch {
	case errors.Is(err, errTooManyRedirects):
		fe.Message = "redirect loop"
		fe.Retryable = false
	case isTimeout(err):
		fe.Message = "request timed out"
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET):
		fe.Message = "connection failed"
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		fe.Message = "connection closed"
	}
	return fe
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// parseRetryAfter reads a Retry-After header given in seconds or as an HTTP date.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
