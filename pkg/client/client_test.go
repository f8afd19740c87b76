package client

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Sternrassler/rmp-collector/internal/testutil"
)

const echoDocument = `query EchoQuery($text: String!) { echo(text: $text) }`

type echoResponse struct {
	Echo string `json:"echo"`
}

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()

	cfg := DefaultConfig("dGVzdDp0ZXN0")
	cfg.Endpoint = endpoint
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		errorMsg string
	}{
		{
			name:   "valid config",
			config: DefaultConfig("token"),
		},
		{
			name:     "missing endpoint",
			config:   Config{AuthToken: "token"},
			errorMsg: "endpoint is required",
		},
		{
			name:     "missing token",
			config:   Config{Endpoint: DefaultEndpoint},
			errorMsg: "auth token is required",
		},
		{
			name:     "negative timeout",
			config:   Config{Endpoint: DefaultEndpoint, AuthToken: "token", Timeout: -time.Second},
			errorMsg: "timeout must be >= 0 (got -1s)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.config)
			if tt.errorMsg == "" {
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				if c == nil {
					t.Fatal("Client is nil")
				}
				return
			}
			if err == nil {
				t.Fatal("Expected error but got nil")
			}
			if err.Error() != tt.errorMsg {
				t.Errorf("Error message = %q, want %q", err.Error(), tt.errorMsg)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("abc")

	if cfg.Endpoint != DefaultEndpoint {
		t.Errorf("Endpoint = %q, want %q", cfg.Endpoint, DefaultEndpoint)
	}
	if cfg.AuthToken != "abc" {
		t.Errorf("AuthToken = %q", cfg.AuthToken)
	}
	if cfg.Timeout != 0 {
		t.Errorf("Timeout = %v, want no timeout by default", cfg.Timeout)
	}
	if cfg.CacheTTL != 0 {
		t.Errorf("CacheTTL = %v, want caching disabled by default", cfg.CacheTTL)
	}
}

func TestRun_SendsHeadersAndVariables(t *testing.T) {
	mock := testutil.NewMockGraphQL()
	defer mock.Close()
	mock.Enqueue("EchoQuery", testutil.DataResponse(map[string]string{"echo": "hello"}))

	c := newTestClient(t, mock.URL())

	var out echoResponse
	err := c.Run(context.Background(), Request{
		Operation: "EchoQuery",
		Document:  echoDocument,
		Variables: map[string]interface{}{
			"text":  "hello",
			"query": map[string]interface{}{"fallback": true},
		},
	}, &out)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if out.Echo != "hello" {
		t.Errorf("Echo = %q, want hello", out.Echo)
	}

	reqs := mock.RequestsFor("EchoQuery")
	if len(reqs) != 1 {
		t.Fatalf("got %d requests, want 1", len(reqs))
	}
	got := reqs[0]
	if auth := got.Header.Get("Authorization"); auth != "Basic dGVzdDp0ZXN0" {
		t.Errorf("Authorization = %q", auth)
	}
	if cors := got.Header.Get("Access-Control-Allow-Origin"); cors != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", cors)
	}
	if got.Variables["text"] != "hello" {
		t.Errorf("variables.text = %v", got.Variables["text"])
	}
	nested, ok := got.Variables["query"].(map[string]interface{})
	if !ok || nested["fallback"] != true {
		t.Errorf("variables.query = %v", got.Variables["query"])
	}
}

func TestRun_Failures(t *testing.T) {
	tests := []struct {
		name      string
		response  testutil.MockResponse
		wantClass ErrorClass
		wantCode  int
	}{
		{
			name:      "graphql error envelope",
			response:  testutil.ErrorResponse("Cannot query field \"bogus\""),
			wantClass: ErrorClassAPI,
			wantCode:  http.StatusOK,
		},
		{
			name:      "server error with html body",
			response:  testutil.StatusResponse(http.StatusBadGateway, "<html>bad gateway</html>"),
			wantClass: ErrorClassTransport,
			wantCode:  http.StatusBadGateway,
		},
		{
			name:      "unauthorized with json body",
			response:  testutil.MockResponse{StatusCode: http.StatusUnauthorized, Data: map[string]string{"echo": "x"}},
			wantClass: ErrorClassTransport,
			wantCode:  http.StatusUnauthorized,
		},
		{
			name:      "undecodable 200",
			response:  testutil.StatusResponse(http.StatusOK, "not json"),
			wantClass: ErrorClassAPI,
			wantCode:  http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockGraphQL()
			defer mock.Close()
			mock.Enqueue("EchoQuery", tt.response)

			c := newTestClient(t, mock.URL())

			var out echoResponse
			err := c.Run(context.Background(), Request{Operation: "EchoQuery", Document: echoDocument}, &out)

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("Run() error = %v, want *APIError", err)
			}
			if apiErr.ErrorClass != tt.wantClass {
				t.Errorf("ErrorClass = %q, want %q", apiErr.ErrorClass, tt.wantClass)
			}
			if apiErr.StatusCode != tt.wantCode {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.wantCode)
			}
			if apiErr.Operation != "EchoQuery" {
				t.Errorf("Operation = %q", apiErr.Operation)
			}
		})
	}
}

func TestRun_NetworkError(t *testing.T) {
	mock := testutil.NewMockGraphQL()
	endpoint := mock.URL()
	mock.Close()

	c := newTestClient(t, endpoint)

	var out echoResponse
	err := c.Run(context.Background(), Request{Operation: "EchoQuery", Document: echoDocument}, &out)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Run() error = %v, want *APIError", err)
	}
	if apiErr.ErrorClass != ErrorClassNetwork {
		t.Errorf("ErrorClass = %q, want network", apiErr.ErrorClass)
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	mock := testutil.NewMockGraphQL()
	defer mock.Close()

	c := newTestClient(t, mock.URL())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out echoResponse
	err := c.Run(ctx, Request{Operation: "EchoQuery", Document: echoDocument}, &out)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if mock.RequestCount() != 0 {
		t.Errorf("cancelled call reached the server %d times", mock.RequestCount())
	}
}

func TestHasGraphQLErrors(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{`{"data":{"x":1}}`, false},
		{`{"data":null,"errors":[{"message":"boom"}]}`, true},
		{`{"data":{},"errors":[]}`, false},
		{`not json`, true},
	}
	for _, tt := range tests {
		if got := hasGraphQLErrors([]byte(tt.body)); got != tt.want {
			t.Errorf("hasGraphQLErrors(%s) = %v, want %v", tt.body, got, tt.want)
		}
	}
}
