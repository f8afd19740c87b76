package export

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewJSONFile_DefaultPath(t *testing.T) {
	if got := NewJSONFile("").Path; got != DefaultPath {
		t.Errorf("Expected default path %q, got %q", DefaultPath, got)
	}
	if got := NewJSONFile("out.json").Path; got != "out.json" {
		t.Errorf("Expected explicit path, got %q", got)
	}
}

func TestJSONFile_WriteIndented(t *testing.T) {
	path := filepath.Join(t.TempDir(), "professors.json")
	sink := NewJSONFile(path)

	in := map[string]interface{}{
		"search": map[string]interface{}{
			"teachers": map[string]interface{}{
				"edges": []interface{}{map[string]interface{}{"cursor": "c1"}},
			},
		},
	}
	if err := sink.Write(context.Background(), in); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "\n  \"search\": {") {
		t.Errorf("Expected two-space indentation, got:\n%s", data)
	}

	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("Round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONFile_FailedWriteKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "professors.json")
	if err := os.WriteFile(path, []byte(`{"previous":true}`), 0o644); err != nil {
		t.Fatal(err)
	}

	sink := NewJSONFile(path)
	if err := sink.Write(context.Background(), math.Inf(1)); err == nil {
		t.Fatal("Expected an encoding error")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"previous":true}` {
		t.Errorf("Previous file was modified: %s", data)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("Expected no temp files left behind, got %d entries", len(entries))
	}
}

func TestJSONFile_MissingDirectory(t *testing.T) {
	sink := NewJSONFile(filepath.Join(t.TempDir(), "missing", "out.json"))
	if err := sink.Write(context.Background(), map[string]int{"a": 1}); err == nil {
		t.Error("Expected an error for a missing directory")
	}
}

func TestJSONFile_CancelledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := NewJSONFile(path).Write(ctx, 1); err == nil {
		t.Fatal("Expected an error for a cancelled context")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected no file to be written, stat error = %v", err)
	}
}
