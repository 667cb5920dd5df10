package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/backoffice/pkg/cryptox"
)

type fileEntry struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type fileDocument struct {
	Scopes map[string]map[string]fileEntry `json:"scopes"`
}

// File is the secondary credential layer: a single JSON document, sealed
// with a passphrase-derived key when a Sealer is configured. A file that
// cannot be opened or decoded reads as empty and is replaced on the next
// write.
type File struct {
	path   string
	scope  string
	sealer *cryptox.Sealer

	mu  sync.Mutex
	now func() time.Time
}

// NewFile returns a file backend at path. sealer may be nil, in which case
// the document is stored as plain JSON.
func NewFile(path, scope string, sealer *cryptox.Sealer) *File {
	return &File{path: path, scope: scope, sealer: sealer, now: time.Now}
}

func (f *File) Name() string { return "file" }

func (f *File) load() fileDocument {
	doc := fileDocument{Scopes: map[string]map[string]fileEntry{}}

	raw, err := os.ReadFile(f.path)
	if err != nil {
		return doc
	}

	if f.sealer != nil {
		if raw, err = f.sealer.Open(raw); err != nil {
			return doc
		}
	}

	var parsed fileDocument
	if err := json.Unmarshal(raw, &parsed); err != nil || parsed.Scopes == nil {
		return doc
	}
	return parsed
}

func (f *File) save(doc fileDocument) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	if f.sealer != nil {
		if raw, err = f.sealer.Seal(raw); err != nil {
			return err
		}
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	// CreateTemp already uses 0600; rename keeps readers from seeing a partial file.
	return os.Rename(tmp.Name(), f.path)
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.load().Scopes[f.scope][key]
	if !ok || !f.now().Before(e.ExpiresAt) {
		return "", false, nil
	}
	return e.Value, true, nil
}

func (f *File) Set(_ context.Context, key, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc := f.load()
	if doc.Scopes[f.scope] == nil {
		doc.Scopes[f.scope] = map[string]fileEntry{}
	}
	doc.Scopes[f.scope][key] = fileEntry{Value: value, ExpiresAt: f.now().Add(ttl)}
	return f.save(doc)
}

func (f *File) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc := f.load()
	if _, ok := doc.Scopes[f.scope][key]; !ok {
		return nil
	}
	delete(doc.Scopes[f.scope], key)
	return f.save(doc)
}

func (f *File) Keys(_ context.Context, prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var keys []string
	for k := range f.load().Scopes[f.scope] {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// PurgeExpired drops expired entries of every scope and rewrites the file
// when anything changed.
func (f *File) PurgeExpired(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := os.Stat(f.path); errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}

	doc := f.load()
	now := f.now()

	var n int64
	for scope, entries := range doc.Scopes {
		for k, e := range entries {
			if !now.Before(e.ExpiresAt) {
				delete(entries, k)
				n++
			}
		}
		if len(entries) == 0 {
			delete(doc.Scopes, scope)
		}
	}

	if n == 0 {
		return 0, nil
	}
	return n, f.save(doc)
}
