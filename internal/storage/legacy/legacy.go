// Package legacy reads the flat key-value store used by earlier versions of
// TimeWise. Each key maps to a serialized JSON array.
package legacy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
)

// File is a JSON object on disk mapping keys to serialized values, as
// exported from the old browser storage.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Path() string {
	return f.path
}

// Get returns the raw value stored under key. A missing file or key is
// reported as not found without error.
func (f *File) Get(key string) (string, bool, error) {
	entries, err := f.read()
	if err != nil || entries == nil {
		return "", false, err
	}
	raw, ok := entries[key]
	if !ok {
		return "", false, nil
	}
	return decodeValue(raw)
}

// Keys lists the keys present in the file, sorted.
func (f *File) Keys() ([]string, error) {
	entries, err := f.read()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (f *File) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read legacy store: %w", err)
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse legacy store %s: %w", f.path, err)
	}
	return entries, nil
}

// decodeValue accepts both the browser form, where every value is a JSON
// string, and a hand-edited form holding the array inline.
// A null value counts as absent.
func decodeValue(raw json.RawMessage) (string, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) {
		return "", false, nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s, true, nil
	}
	return string(trimmed), true, nil
}

// Map is an in-memory key-value store.
type Map struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewMap(entries map[string]string) *Map {
	m := &Map{entries: make(map[string]string, len(entries))}
	for k, v := range entries {
		m.entries[k] = v
	}
	return m
}

func (m *Map) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *Map) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
}
