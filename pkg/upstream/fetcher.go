package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"animeplan/pkg/logging"
	"animeplan/pkg/metrics"
)

const defaultMaxBody = 4 << 20

type Options struct {
	Name         string // label used in errors, logs and metrics
	Timeout      time.Duration
	UserAgent    string
	RPS          float64 // <= 0 disables rate limiting
	Burst        int
	MaxBodyBytes int64
	HTTPClient   *http.Client // overrides Timeout when set
}

// Fetcher performs GET requests against one upstream host with a shared
// rate limit and circuit breaker. Safe for concurrent use.
type Fetcher struct {
	name      string
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
	breaker   *gobreaker.CircuitBreaker[[]byte]
	maxBody   int64
}

func New(opts Options) *Fetcher {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBody
	}

	var limiter *rate.Limiter
	if opts.RPS > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RPS), burst)
	}

	name := opts.Name
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("upstream", name).Str("from", from.String()).Str("to", to.String()).Msg("[upstream] circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &Fetcher{
		name:      name,
		client:    client,
		userAgent: opts.UserAgent,
		limiter:   limiter,
		breaker:   cb,
		maxBody:   maxBody,
	}
}

func (f *Fetcher) Name() string { return f.name }

// State is the breaker state: "closed", "half-open" or "open".
func (f *Fetcher) State() string { return f.breaker.State().String() }

// Get fetches rawURL with query merged into its query string and returns the
// body of a 2xx response. Every other outcome is a *TransportError.
func (f *Fetcher) Get(ctx context.Context, rawURL string, query url.Values) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%s: bad url %q: %w", f.name, rawURL, err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	target := u.String()

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Upstream: f.name, URL: target, Err: err}
		}
	}

	start := time.Now()
	body, err := f.breaker.Execute(func() ([]byte, error) {
		return f.do(ctx, target)
	})
	metrics.UpstreamDuration.WithLabelValues(f.name).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.UpstreamRequests.WithLabelValues(f.name, "rejected").Inc()
			return nil, &TransportError{Upstream: f.name, URL: target, Err: err}
		}
		return nil, err
	}
	metrics.UpstreamRequests.WithLabelValues(f.name, "ok").Inc()
	return body, nil
}

func (f *Fetcher) do(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &TransportError{Upstream: f.name, URL: target, Err: err}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(f.name, "network_error").Inc()
		return nil, &TransportError{Upstream: f.name, URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		metrics.UpstreamRequests.WithLabelValues(f.name, "http_error").Inc()
		return nil, &TransportError{
			Upstream:   f.name,
			URL:        target,
			StatusCode: resp.StatusCode,
			Err:        errors.New(resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(f.name, "network_error").Inc()
		return nil, &TransportError{Upstream: f.name, URL: target, StatusCode: resp.StatusCode, Err: err}
	}
	return body, nil
}

// countsAsSuccess keeps caller cancellations and client-side 4xx (other
// than 429) from tripping the breaker.
func countsAsSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var te *TransportError
	if errors.As(err, &te) && te.StatusCode >= 400 && te.StatusCode < 500 && te.StatusCode != http.StatusTooManyRequests {
		return true
	}
	return false
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
