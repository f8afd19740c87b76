package cache

import (
	"bytes"
	"io"
	"net/http"
	"testing"
	"time"
)

func TestResponseToEntry(t *testing.T) {
	tests := []struct {
		name    string
		resp    *http.Response
		wantErr bool
	}{
		{
			name: "valid response",
			resp: &http.Response{
				StatusCode: 200,
				Header:     http.Header{"Content-Type": []string{"application/json"}},
				Body:       io.NopCloser(bytes.NewReader([]byte(`{"data":{}}`))),
			},
		},
		{
			name:    "nil response",
			resp:    nil,
			wantErr: true,
		},
		{
			name:    "nil body",
			resp:    &http.Response{StatusCode: 200},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := ResponseToEntry(tt.resp, time.Minute)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResponseToEntry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if string(entry.Data) != `{"data":{}}` {
				t.Errorf("Data = %q", entry.Data)
			}
			if entry.TTL() <= 0 {
				t.Error("entry should not be expired")
			}

			// Body must still be readable by the caller.
			body, err := io.ReadAll(tt.resp.Body)
			if err != nil {
				t.Fatalf("read restored body: %v", err)
			}
			if string(body) != `{"data":{}}` {
				t.Errorf("restored body = %q", body)
			}
		})
	}
}

func TestEntryToResponse(t *testing.T) {
	req, _ := http.NewRequest(http.MethodPost, "https://example.test/graphql", nil)
	entry := &CacheEntry{
		Data:       []byte(`{"data":{"ok":true}}`),
		StatusCode: http.StatusOK,
		Headers:    http.Header{"Content-Type": []string{"application/json"}},
	}

	resp := EntryToResponse(entry, req)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d", resp.StatusCode)
	}
	if resp.Header.Get(HeaderCache) != "HIT" {
		t.Errorf("missing %s header", HeaderCache)
	}
	if entry.Headers.Get(HeaderCache) != "" {
		t.Error("EntryToResponse must not mutate the entry headers")
	}
	if resp.Request != req {
		t.Error("Request not attached")
	}

	body, _ := io.ReadAll(resp.Body)
	if string(body) != string(entry.Data) {
		t.Errorf("body = %q", body)
	}
}

func TestIsCacheable(t *testing.T) {
	tests := []struct {
		resp *http.Response
		want bool
	}{
		{nil, false},
		{&http.Response{StatusCode: 200}, true},
		{&http.Response{StatusCode: 204}, true},
		{&http.Response{StatusCode: 400}, false},
		{&http.Response{StatusCode: 503}, false},
	}
	for _, tt := range tests {
		if got := IsCacheable(tt.resp); got != tt.want {
			t.Errorf("IsCacheable(%v) = %v, want %v", tt.resp, got, tt.want)
		}
	}
}
