// Package archive persists verbatim provider payloads to disk, one
// pretty-printed JSON file per (symbol, calendar date).
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type Archive struct {
	dir string
}

// New creates the archive directory if it does not exist.
func New(dir string) (*Archive, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	return &Archive{dir: dir}, nil
}

// Path returns the archive file path for a symbol on a given day.
func (a *Archive) Path(symbol string, day time.Time) string {
	return filepath.Join(a.dir, fmt.Sprintf("%s_%s.json", symbol, day.Format("2006-01-02")))
}

// Store writes the raw payload pretty-printed to the symbol's file for the
// given day, replacing any earlier write from the same day. The content is
// written to a temp file and renamed into place, so a failed write leaves
// any existing archive untouched.
func (a *Archive) Store(symbol string, day time.Time, raw []byte) error {
	var pretty json.RawMessage
	if err := json.Unmarshal(raw, &pretty); err != nil {
		return fmt.Errorf("archive payload for %s is not valid JSON: %w", symbol, err)
	}
	out, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return fmt.Errorf("format archive payload for %s: %w", symbol, err)
	}

	tmp, err := os.CreateTemp(a.dir, symbol+"_*.tmp")
	if err != nil {
		return fmt.Errorf("create temp archive: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(out); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}

	if err := os.Rename(tmp.Name(), a.Path(symbol, day)); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return nil
}
