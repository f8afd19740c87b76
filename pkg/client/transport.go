package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Sternrassler/rmp-collector/pkg/cache"
	"github.com/Sternrassler/rmp-collector/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var rmpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "rmp_requests_total",
	Help: "Total GraphQL HTTP round trips by operation and status",
}, []string{"operation", "status"})

// callInfo carries per-call state between Client.Run and the transport.
type callInfo struct {
	operation  string
	statusCode int
	cacheHit   bool
}

func (i *callInfo) label() string {
	if i == nil || i.operation == "" {
		return "unknown"
	}
	return i.operation
}

type callInfoKey struct{}

func withCallInfo(ctx context.Context, info *callInfo) context.Context {
	return context.WithValue(ctx, callInfoKey{}, info)
}

func callInfoFrom(ctx context.Context) *callInfo {
	info, _ := ctx.Value(callInfoKey{}).(*callInfo)
	return info
}

func isSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// instrumentedTransport wraps the HTTP round trip with rate limit gating,
// response caching, metrics and logging.
type instrumentedTransport struct {
	next     http.RoundTripper
	tracker  *ratelimit.Tracker
	cache    *cache.Manager
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// RoundTrip implements http.RoundTripper.
func (t *instrumentedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	info := callInfoFrom(ctx)
	if info == nil {
		info = &callInfo{}
	}
	operation := info.label()

	// Step 1: Check rate limit
	if t.tracker != nil {
		allowed, err := t.tracker.ShouldAllowRequest(ctx)
		if err != nil {
			return nil, fmt.Errorf("rate limit check: %w", err)
		}
		if !allowed {
			rmpRequestsTotal.WithLabelValues(operation, "rate_limited").Inc()
			return nil, ErrRateLimited
		}
	}

	// Step 2: Check cache
	var cacheKey cache.CacheKey
	useCache := t.cache != nil && t.cacheTTL > 0
	if useCache {
		body, err := peekBody(req)
		if err != nil {
			t.logger.Warn().Err(err).Str("operation", operation).Msg("Cannot read request body, bypassing cache")
			useCache = false
		} else {
			cacheKey = cache.CacheKey{Operation: info.operation, Body: body}
			entry, err := t.cache.Get(ctx, cacheKey)
			switch {
			case err == nil:
				info.statusCode = entry.StatusCode
				info.cacheHit = true
				rmpRequestsTotal.WithLabelValues(operation, "cache_hit").Inc()
				t.logger.Debug().Str("operation", operation).Bool("cache_hit", true).Msg("Serving response from cache")
				return cache.EntryToResponse(entry, req), nil
			case !errors.Is(err, cache.ErrCacheMiss):
				t.logger.Warn().Err(err).Str("operation", operation).Msg("Cache get error")
			}
		}
	}

	// Step 3: Execute HTTP request
	t.logger.Debug().Str("operation", operation).Str("url", req.URL.String()).Msg("Executing GraphQL request")

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		rmpRequestsTotal.WithLabelValues(operation, "network_error").Inc()
		t.logger.Error().Err(err).Str("operation", operation).Msg("HTTP request failed")
		return nil, err
	}

	info.statusCode = resp.StatusCode
	rmpRequestsTotal.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Inc()

	// Step 4: Update rate limit from headers
	if t.tracker != nil {
		if err := t.tracker.UpdateFromHeaders(ctx, resp.Header); err != nil {
			t.logger.Warn().Err(err).Msg("Failed to update rate limit from headers")
		}
	}

	if !isSuccess(resp.StatusCode) {
		t.logger.Warn().
			Str("operation", operation).
			Int("status", resp.StatusCode).
			Msg("GraphQL endpoint returned non-success status")
		return resp, nil
	}

	// Step 5: Update cache on success
	if useCache && cache.IsCacheable(resp) {
		entry, err := cache.ResponseToEntry(resp, t.cacheTTL)
		if err != nil {
			resp.Body.Close()
			return nil, err
		}
		if hasGraphQLErrors(entry.Data) {
			return resp, nil
		}
		if err := t.cache.Set(ctx, cacheKey, entry); err != nil {
			t.logger.Warn().Err(err).Str("operation", operation).Msg("Failed to cache response")
		} else {
			t.logger.Debug().Str("operation", operation).Dur("ttl", t.cacheTTL).Msg("Cached response")
		}
	}

	return resp, nil
}

// peekBody returns the request body without consuming it.
func peekBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	if req.GetBody == nil {
		return nil, fmt.Errorf("request body cannot be replayed")
	}
	rc, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("get request body: %w", err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	return buf.Bytes(), nil
}

// hasGraphQLErrors reports whether a 2xx body carries an error envelope.
// Such responses are passed through but never cached.
func hasGraphQLErrors(body []byte) bool {
	var envelope struct {
		Errors []json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return true
	}
	return len(envelope.Errors) > 0
}
