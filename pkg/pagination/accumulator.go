package pagination

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

var (
	pagesFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rmp_pagination_pages_fetched_total",
		Help: "Total number of pages fetched by the pagination accumulator",
	})

	entriesFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rmp_pagination_entries_fetched_total",
		Help: "Total number of entries merged by the pagination accumulator",
	})
)

// ErrMaxPagesExceeded is returned when Options.MaxPages is set and the
// upstream still reports a next page after that many pages.
var ErrMaxPagesExceeded = errors.New("maximum page count exceeded")

// Page is one batch of entries plus its pagination metadata.
type Page[T any] struct {
	Entries     []T
	EndCursor   string
	HasNextPage bool
}

// Fetcher retrieves the pages of one connection.
type Fetcher[T any] interface {
	// FetchFirst fetches the first page.
	FetchFirst(ctx context.Context) (Page[T], error)

	// FetchNext fetches the page following cursor.
	FetchNext(ctx context.Context, cursor string) (Page[T], error)
}

// ProgressFunc is notified after each merged page with the number of
// entries in that page and the running total.
type ProgressFunc func(fetched, total int)

// Options configures an Accumulator.
type Options struct {
	// Progress is called after every merge. Nil disables notifications.
	Progress ProgressFunc

	// MaxPages caps the number of pages fetched, first page included.
	// Zero means unbounded.
	MaxPages int
}

// Accumulator merges successive pages of a connection.
type Accumulator[T any] struct {
	opts Options
}

// NewAccumulator creates an accumulator.
func NewAccumulator[T any](opts Options) *Accumulator[T] {
	if opts.MaxPages < 0 {
		opts.MaxPages = 0
	}
	return &Accumulator[T]{opts: opts}
}

// Merge returns a new page holding acc's entries followed by next's, with
// next's cursor and has-next flag. Neither argument is modified.
func Merge[T any](acc, next Page[T]) Page[T] {
	entries := make([]T, 0, len(acc.Entries)+len(next.Entries))
	entries = append(entries, acc.Entries...)
	entries = append(entries, next.Entries...)

	return Page[T]{
		Entries:     entries,
		EndCursor:   next.EndCursor,
		HasNextPage: next.HasNextPage,
	}
}

// FetchAll fetches the first page and every following page, returning the
// merged result. If the first page has no successor it is returned as is.
// Any fetch error aborts the run and no partial page is returned.
func (a *Accumulator[T]) FetchAll(ctx context.Context, f Fetcher[T]) (Page[T], error) {
	start := time.Now()

	acc, err := f.FetchFirst(ctx)
	if err != nil {
		return Page[T]{}, fmt.Errorf("fetch first page: %w", err)
	}
	pagesFetchedTotal.Inc()
	entriesFetchedTotal.Add(float64(len(acc.Entries)))

	pages := 1
	for acc.HasNextPage {
		if a.opts.MaxPages > 0 && pages >= a.opts.MaxPages {
			return Page[T]{}, fmt.Errorf("%w: %d pages fetched, cursor %q", ErrMaxPagesExceeded, pages, acc.EndCursor)
		}

		next, err := f.FetchNext(ctx, acc.EndCursor)
		if err != nil {
			return Page[T]{}, fmt.Errorf("fetch page %d: %w", pages+1, err)
		}
		pages++
		pagesFetchedTotal.Inc()
		entriesFetchedTotal.Add(float64(len(next.Entries)))

		acc = Merge(acc, next)

		if a.opts.Progress != nil {
			a.opts.Progress(len(next.Entries), len(acc.Entries))
		}
	}

	log.Debug().
		Int("pages", pages).
		Int("entries", len(acc.Entries)).
		Dur("duration", time.Since(start)).
		Msg("Pagination complete")

	return acc, nil
}
