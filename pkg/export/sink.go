// Package export writes collected results to their destination.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Sternrassler/rmp-collector/pkg/logging"
)

// DefaultPath is where department listings are written when no path is given.
const DefaultPath = "professors.json"

// Sink receives a collected result.
type Sink interface {
	Write(ctx context.Context, v interface{}) error
}

// JSONFile writes results as two-space indented JSON to Path. The file is
// replaced atomically: a failed write leaves any previous file intact.
type JSONFile struct {
	Path string
}

// NewJSONFile returns a sink for path, or DefaultPath when path is empty.
func NewJSONFile(path string) *JSONFile {
	if path == "" {
		path = DefaultPath
	}
	return &JSONFile{Path: path}
}

// Write encodes v and renames it into place.
func (f *JSONFile) Write(ctx context.Context, v interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.Path, err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(f.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, f.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", f.Path, err)
	}

	logger := logging.NewLogger("export")
	logger.Info().
		Str("path", f.Path).
		Int("bytes", len(data)).
		Msg("Result written")

	return nil
}
