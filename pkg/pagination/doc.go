// Package pagination folds cursor-paginated GraphQL connections into one
// logical page.
//
// The accumulator fetches the first page, then keeps requesting the page
// after the previous page's end cursor until the upstream reports that no
// further page exists. Pages are fetched strictly one after another: the
// cursor for page N+1 is only known once page N has arrived.
//
// Example usage:
//
//	acc := pagination.NewAccumulator[Edge](pagination.Options{
//		Progress: func(fetched, total int) {
//			log.Info().Int("fetched", fetched).Int("total", total).Msg("page merged")
//		},
//	})
//	page, err := acc.FetchAll(ctx, fetcher)
//
// Each merge allocates a new entry slice, so neither the caller's first
// page nor any fetched page is modified. Entries are never deduplicated.
//
// The loop has no iteration bound unless Options.MaxPages is set; an
// upstream that never reports the last page keeps it running until ctx is
// cancelled.
package pagination
