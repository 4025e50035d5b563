package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Options control how data files are read.
type Options struct {
	// Strict makes a missing file an error instead of an empty collection.
	Strict bool
	// Cache keeps the first successful load for the life of the process.
	Cache bool
}

// readJSON decodes the file at path into v. It reports false, with no error,
// when the file is missing and strict is off.
func readJSON(path string, strict bool, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !strict {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}
	return true, nil
}

// writeJSON writes v to path as indented JSON. The file is replaced
// atomically.
func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// cached memoizes the first successful load when enabled. Failed loads are
// retried on the next call.
type cached[T any] struct {
	enabled bool

	mu     sync.Mutex
	loaded bool
	value  T
}

func (c *cached[T]) get(load func() (T, error)) (T, error) {
	if !c.enabled {
		return load()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.value, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	c.value = v
	c.loaded = true
	return v, nil
}

func (c *cached[T]) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.value = zero
	c.loaded = false
}
