// Package testutil provides testing utilities for the ratings collector.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
)

// GraphQLRequest is a request received by the mock server.
type GraphQLRequest struct {
	Operation string                 `json:"-"`
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
	Header    http.Header            `json:"-"`
}

// MockResponse is one scripted reply.
type MockResponse struct {
	StatusCode int
	// Data is encoded as the "data" member of the envelope.
	Data interface{}
	// Errors, when set, are encoded as the "errors" member.
	Errors []string
	// Raw, when non-empty, is written verbatim instead of an envelope.
	Raw     string
	Headers map[string]string
}

var operationName = regexp.MustCompile(`(?:query|mutation)\s+(\w+)`)

// MockGraphQL is a scripted GraphQL server. Responses are queued per
// operation name and served in order; the last one repeats once the
// queue is drained.
type MockGraphQL struct {
	server *httptest.Server

	mu        sync.Mutex
	responses map[string][]MockResponse
	requests  []GraphQLRequest
}

// NewMockGraphQL starts a mock GraphQL server.
func NewMockGraphQL() *MockGraphQL {
	mock := &MockGraphQL{
		responses: make(map[string][]MockResponse),
	}
	mock.server = httptest.NewServer(http.HandlerFunc(mock.handle))
	return mock
}

// URL returns the mock server URL.
func (m *MockGraphQL) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockGraphQL) Close() {
	m.server.Close()
}

// Enqueue appends replies for an operation.
func (m *MockGraphQL) Enqueue(operation string, responses ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[operation] = append(m.responses[operation], responses...)
}

// Requests returns a copy of every request received so far.
func (m *MockGraphQL) Requests() []GraphQLRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]GraphQLRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// RequestsFor returns the requests received for one operation.
func (m *MockGraphQL) RequestsFor(operation string) []GraphQLRequest {
	var out []GraphQLRequest
	for _, r := range m.Requests() {
		if r.Operation == operation {
			out = append(out, r)
		}
	}
	return out
}

// RequestCount returns the number of requests made to the server.
func (m *MockGraphQL) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *MockGraphQL) handle(w http.ResponseWriter, r *http.Request) {
	var req GraphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("bad request: %v", err), http.StatusBadRequest)
		return
	}
	if match := operationName.FindStringSubmatch(req.Query); match != nil {
		req.Operation = match[1]
	}
	req.Header = r.Header.Clone()

	m.mu.Lock()
	m.requests = append(m.requests, req)
	queue := m.responses[req.Operation]
	var resp MockResponse
	found := len(queue) > 0
	if found {
		resp = queue[0]
		if len(queue) > 1 {
			m.responses[req.Operation] = queue[1:]
		}
	}
	m.mu.Unlock()

	if !found {
		writeEnvelope(w, MockResponse{
			StatusCode: http.StatusOK,
			Errors:     []string{fmt.Sprintf("no mock response for operation %q", req.Operation)},
		})
		return
	}
	writeEnvelope(w, resp)
}

func writeEnvelope(w http.ResponseWriter, resp MockResponse) {
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if resp.Raw != "" {
		w.Write([]byte(resp.Raw))
		return
	}

	envelope := map[string]interface{}{"data": resp.Data}
	if len(resp.Errors) > 0 {
		errs := make([]map[string]string, 0, len(resp.Errors))
		for _, msg := range resp.Errors {
			errs = append(errs, map[string]string{"message": msg})
		}
		envelope["errors"] = errs
	}
	json.NewEncoder(w).Encode(envelope)
}

// DataResponse creates a 200 OK reply carrying data.
func DataResponse(data interface{}) MockResponse {
	return MockResponse{StatusCode: http.StatusOK, Data: data}
}

// ErrorResponse creates a 200 OK reply carrying a GraphQL error envelope.
func ErrorResponse(messages ...string) MockResponse {
	return MockResponse{StatusCode: http.StatusOK, Errors: messages}
}

// StatusResponse creates a non-GraphQL reply with the given status code.
func StatusResponse(status int, body string) MockResponse {
	return MockResponse{StatusCode: status, Raw: body}
}
