// Package metrics is the reference for the collector's Prometheus metrics and
// pushes them to a Pushgateway at the end of a run.
// All metrics are defined in their respective packages (client, cache,
// ratelimit, pagination) to maintain modularity and avoid circular
// dependencies.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Registry is the default Prometheus registry used by the collector.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer collects the metrics registered in Registry.
var Gatherer prometheus.Gatherer = prometheus.DefaultGatherer

// JobName is the Pushgateway job the CLI pushes under.
const JobName = "rmp_collect"

// Push replaces the metrics of job and grouping on the Pushgateway at url.
func Push(ctx context.Context, url, job string, grouping map[string]string) error {
	p := push.New(url, job).Gatherer(Gatherer)
	for name, value := range grouping {
		p = p.Grouping(name, value)
	}
	if err := p.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - rmp_requests_total{operation, status} (Counter): Round trips by GraphQL operation and HTTP status
//   - rmp_request_duration_seconds{operation} (Histogram): Call duration by operation
//   - rmp_errors_total{class} (Counter): Failed calls by class (network, transport, api, rate_limit)
//
// Pagination Metrics (pkg/pagination):
//   - rmp_pagination_pages_fetched_total (Counter): Pages fetched, first pages included
//   - rmp_pagination_entries_fetched_total (Counter): Entries received across all pages
//
// Cache Metrics (pkg/cache):
//   - rmp_cache_hits_total (Counter): Responses served from Redis
//   - rmp_cache_misses_total (Counter): Lookups that went upstream
//   - rmp_cache_written_bytes_total (Counter): Body bytes written to the cache
//   - rmp_cache_errors_total{operation} (Counter): Cache operation errors
//
// Rate Limit Metrics (pkg/ratelimit):
//   - rmp_rate_limit_remaining (Gauge): Last X-RateLimit-Remaining seen
//   - rmp_rate_limit_blocks_total (Counter): Requests refused while below the critical threshold
//   - rmp_rate_limit_throttles_total (Counter): Requests delayed while below the warning threshold
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(rmp_cache_hits_total[5m])) /
//   (sum(rate(rmp_cache_hits_total[5m])) + sum(rate(rmp_cache_misses_total[5m])))
//
//   # Average entries per page
//   rmp_pagination_entries_fetched_total / rmp_pagination_pages_fetched_total
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(rmp_request_duration_seconds_bucket[5m]))
