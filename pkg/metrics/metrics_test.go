package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestRegistry(t *testing.T) {
	if Registry == nil {
		t.Error("Registry should not be nil")
	}

	if Registry != prometheus.DefaultRegisterer {
		t.Error("Registry should be the default Prometheus registerer")
	}
}

func TestPush(t *testing.T) {
	var gotMethod, gotPath string
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer gateway.Close()

	err := Push(context.Background(), gateway.URL, JobName, map[string]string{"command": "department"})
	if err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	if gotMethod != http.MethodPut {
		t.Errorf("Expected PUT, got %s", gotMethod)
	}
	if want := "/metrics/job/rmp_collect/command/department"; gotPath != want {
		t.Errorf("Expected path %s, got %s", want, gotPath)
	}
}

func TestPush_GatewayError(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer gateway.Close()

	err := Push(context.Background(), gateway.URL, JobName, nil)
	if err == nil {
		t.Fatal("Expected an error")
	}
	if !strings.Contains(err.Error(), gateway.URL) {
		t.Errorf("Expected error to name the gateway, got %v", err)
	}
}
