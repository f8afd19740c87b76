// Package client provides the GraphQL transport for the RateMyProfessors
// API: a fixed Basic authorization header on every request, optional Redis
// response caching and upstream rate-limit tracking, and Prometheus metrics.
package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Sternrassler/rmp-collector/pkg/cache"
	"github.com/Sternrassler/rmp-collector/pkg/ratelimit"
	"github.com/machinebox/graphql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultEndpoint is the public RateMyProfessors GraphQL endpoint.
	DefaultEndpoint = "https://www.ratemyprofessors.com/graphql"

	// PublicAuthToken is the Basic credential the public site sends.
	PublicAuthToken = "dGVzdDp0ZXN0"
)

var (
	rmpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rmp_request_duration_seconds",
		Help:    "GraphQL call duration in seconds by operation",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"operation"})

	rmpErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rmp_errors_total",
		Help: "Total failed GraphQL calls by error class",
	}, []string{"class"})
)

// Request is one GraphQL call: a query document and its variables.
type Request struct {
	// Operation names the call for metrics, logs and cache keys.
	Operation string

	// Document is the GraphQL query text.
	Document string

	// Variables maps variable names to strings, booleans, numbers or nested maps.
	Variables map[string]interface{}
}

// Config holds the client configuration.
type Config struct {
	// Endpoint is the GraphQL URL.
	Endpoint string

	// AuthToken is sent as "Authorization: Basic <token>" (REQUIRED).
	AuthToken string

	// Timeout bounds each HTTP round trip. Zero means no timeout.
	Timeout time.Duration

	// Redis enables response caching and rate limit tracking. Optional.
	Redis *redis.Client

	// CacheTTL is how long successful responses are cached. Zero disables
	// caching even when Redis is set.
	CacheTTL time.Duration

	// Transport is the underlying round tripper (default http.DefaultTransport).
	Transport http.RoundTripper
}

// DefaultConfig returns a configuration for the public endpoint.
func DefaultConfig(authToken string) Config {
	return Config{
		Endpoint:  DefaultEndpoint,
		AuthToken: authToken,
	}
}

// Client executes GraphQL requests against one endpoint.
type Client struct {
	gql        *graphql.Client
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// New creates a new client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if cfg.AuthToken == "" {
		return nil, fmt.Errorf("auth token is required")
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must be >= 0 (got %s)", cfg.Timeout)
	}

	logger := log.With().Str("component", "rmp-client").Logger()

	next := cfg.Transport
	if next == nil {
		next = http.DefaultTransport
	}

	rt := &instrumentedTransport{
		next:   next,
		logger: logger,
	}
	if cfg.Redis != nil {
		rt.tracker = ratelimit.NewTracker(cfg.Redis, logger)
		if cfg.CacheTTL > 0 {
			rt.cache = cache.NewManager(cfg.Redis)
			rt.cacheTTL = cfg.CacheTTL
		}
	}

	httpClient := &http.Client{
		Transport: rt,
		Timeout:   cfg.Timeout,
	}

	gql := graphql.NewClient(cfg.Endpoint, graphql.WithHTTPClient(httpClient))
	gql.Log = func(s string) {
		logger.Trace().Msg(s)
	}

	return &Client{
		gql:        gql,
		httpClient: httpClient,
		config:     cfg,
		logger:     logger,
	}, nil
}

// Run executes one GraphQL request and decodes the "data" member into out.
// Network failures, non-2xx statuses and GraphQL error envelopes are all
// returned as *APIError. Nothing is retried.
func (c *Client) Run(ctx context.Context, r Request, out interface{}) error {
	req := graphql.NewRequest(r.Document)
	for name, value := range r.Variables {
		req.Var(name, value)
	}
	req.Header.Set("Authorization", "Basic "+c.config.AuthToken)
	req.Header.Set("Access-Control-Allow-Origin", "*")

	info := &callInfo{operation: r.Operation}
	ctx = withCallInfo(ctx, info)

	startTime := time.Now()
	err := c.gql.Run(ctx, req, out)
	rmpRequestDuration.WithLabelValues(info.label()).Observe(time.Since(startTime).Seconds())

	// A non-2xx reply whose body still decodes is not reported by the
	// graphql package, so the observed status is checked as well.
	if err == nil && info.statusCode != 0 && !isSuccess(info.statusCode) {
		err = fmt.Errorf("unexpected status %d", info.statusCode)
	}
	if err == nil {
		c.logger.Debug().
			Str("operation", r.Operation).
			Int("status", info.statusCode).
			Bool("cache_hit", info.cacheHit).
			Dur("duration", time.Since(startTime)).
			Msg("GraphQL request completed")
		return nil
	}

	apiErr := newAPIError(r.Operation, info.statusCode, err)
	rmpErrorsTotal.WithLabelValues(string(apiErr.ErrorClass)).Inc()
	c.logger.Error().
		Err(apiErr).
		Str("operation", r.Operation).
		Int("status", info.statusCode).
		Str("error_class", string(apiErr.ErrorClass)).
		Msg("GraphQL request failed")

	return apiErr
}

// Endpoint returns the configured GraphQL URL.
func (c *Client) Endpoint() string {
	return c.config.Endpoint
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
