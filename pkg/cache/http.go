package cache

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// HeaderCache marks responses replayed from the cache.
const HeaderCache = "X-Rmp-Cache"

// ResponseToEntry converts an HTTP response to a CacheEntry that expires
// after ttl. The response body is read and restored for the caller.
func ResponseToEntry(resp *http.Response, ttl time.Duration) (*CacheEntry, error) {
	if resp == nil {
		return nil, fmt.Errorf("response cannot be nil")
	}
	if resp.Body == nil {
		return nil, fmt.Errorf("response body cannot be nil")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))

	now := time.Now()
	return &CacheEntry{
		Data:       body,
		StatusCode: resp.StatusCode,
		Headers:    resp.Header.Clone(),
		CachedAt:   now,
		Expires:    now.Add(ttl),
	}, nil
}

// EntryToResponse rebuilds an HTTP response for req from a cache entry.
func EntryToResponse(entry *CacheEntry, req *http.Request) *http.Response {
	header := entry.Headers.Clone()
	if header == nil {
		header = http.Header{}
	}
	header.Set(HeaderCache, "HIT")

	return &http.Response{
		Status:        strconv.Itoa(entry.StatusCode) + " " + http.StatusText(entry.StatusCode),
		StatusCode:    entry.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(entry.Data)),
		ContentLength: int64(len(entry.Data)),
		Request:       req,
	}
}

// IsCacheable reports whether a response may be stored.
func IsCacheable(resp *http.Response) bool {
	return resp != nil && resp.StatusCode >= 200 && resp.StatusCode < 300
}
