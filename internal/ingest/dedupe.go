package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync"
)

// Dedupe remembers content hashes of documents already handed to the queue,
// so a file re-dropped into the inbox (or touched by a copy tool) is not
// processed twice within one daemon run.
type Dedupe struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewDedupe() *Dedupe {
	return &Dedupe{seen: make(map[string]struct{})}
}

// Seen hashes the file's content and reports whether that content was already
// submitted; the first caller for a given hash gets false.
func (d *Dedupe) Seen(path string) (bool, error) {
	sum, err := HashFile(path)
	if err != nil {
		return false, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[sum]; ok {
		return true, nil
	}
	d.seen[sum] = struct{}{}
	return false, nil
}

// HashFile returns the hex SHA-256 of the file's content.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
