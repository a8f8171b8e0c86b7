package filestorage

import (
	"mime/multipart"
	"sync"

	"github.com/yigit/memberdir/internal/pkg/logger"
)

// Ledger records every file written while handling one request so that a
// failed request can remove them again. Release deletes what was tracked;
// Clear forgets it once the work has been committed.
type Ledger struct {
	storage FileStorage

	mu    sync.Mutex
	paths []string
}

// NewLedger creates an empty ledger writing through storage.
func NewLedger(storage FileStorage) *Ledger {
	return &Ledger{storage: storage}
}

// Save stores an upload and tracks its path. A nil header is a no-op.
func (l *Ledger) Save(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}
	p, err := l.storage.SaveFileWithPath(fileHeader, subPath)
	if err != nil {
		return "", err
	}
	l.Track(p)
	return p, nil
}

// SaveAll stores several uploads, returning their paths in order.
func (l *Ledger) SaveAll(fileHeaders []*multipart.FileHeader, subPath string) ([]string, error) {
	paths := make([]string, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		p, err := l.Save(fh, subPath)
		if err != nil {
			return nil, err
		}
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths, nil
}

// Track records a path written elsewhere.
func (l *Ledger) Track(p string) {
	if p == "" {
		return
	}
	l.mu.Lock()
	l.paths = append(l.paths, p)
	l.mu.Unlock()
}

// Paths returns a copy of the tracked paths.
func (l *Ledger) Paths() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.paths...)
}

// Release deletes every tracked file and empties the ledger. It returns the
// number of paths it attempted to remove; individual failures are logged.
func (l *Ledger) Release() int {
	l.mu.Lock()
	paths := l.paths
	l.paths = nil
	l.mu.Unlock()

	return DeleteAll(l.storage, paths)
}

// Clear forgets tracked files without deleting them.
func (l *Ledger) Clear() {
	l.mu.Lock()
	l.paths = nil
	l.mu.Unlock()
}

// DeleteAll removes each path, logging failures, and returns how many were
// handed to storage.
func DeleteAll(storage FileStorage, paths []string) int {
	n := 0
	for _, p := range paths {
		if p == "" {
			continue
		}
		n++
		if err := storage.DeleteFile(p); err != nil {
			logger.Warn().Err(err).Str("path", p).Msg("Failed to remove uploaded file")
		}
	}
	return n
}
