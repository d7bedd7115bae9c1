// Package dbconfig implements the named-database configuration registry:
// a small persisted map from database name to its (type, mode, dims, uri)
// tuple, returning errors to the caller instead of calling log.Fatalf.
package dbconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DatabaseConfig names the engine parameters a registered database opens
// with.
type DatabaseConfig struct {
	Type string `json:"type"`
	Mode string `json:"mode"`
	Dims int    `json:"dims"`
	URI  string `json:"uri"`
}

// Config is the on-disk shape: database name -> its configuration.
type Config map[string]DatabaseConfig

// DefaultPath returns the default config file location under the user's
// home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("dbconfig: resolve home directory: %w", err)
	}

	return filepath.Join(home, ".vcached.config"), nil
}

// Registry is a JSON-file-backed, in-process cache of Config, guarded by
// its own RWMutex, independent of any table's lock.
type Registry struct {
	mu   sync.RWMutex
	path string
	conf Config
}

// Open loads the registry at path, creating an empty config file there if
// none exists yet.
func Open(path string) (*Registry, error) {
	r := &Registry{path: path}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		r.conf = Config{}

		if err := r.save(); err != nil {
			return nil, fmt.Errorf("dbconfig: create default config: %w", err)
		}

		return r, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var conf Config
	if err := json.Unmarshal(data, &conf); err != nil {
		return nil, err
	}

	r.conf = conf

	return r, nil
}

// save writes the current config to disk via a temp-file-and-rename, so a
// crash mid-write never leaves a truncated config file behind.
func (r *Registry) save() error {
	data, err := json.Marshal(r.conf)
	if err != nil {
		return err
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, r.path)
}

// Get returns the configuration registered under name.
func (r *Registry) Get(name string) (DatabaseConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.conf[name]

	return c, ok
}

// List returns every registered database name.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.conf))
	for name := range r.conf {
		out = append(out, name)
	}

	return out
}

// Append registers a new database, rejecting a duplicate name or a
// duplicate (type, uri) pair.
func (r *Registry) Append(name string, cfg DatabaseConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.conf[name]; exists {
		return fmt.Errorf("dbconfig: database %q already exists", name)
	}

	for n, existing := range r.conf {
		if existing.Type == cfg.Type && existing.URI == cfg.URI {
			return fmt.Errorf("dbconfig: database %q already uses type %q uri %q", n, cfg.Type, cfg.URI)
		}
	}

	r.conf[name] = cfg

	return r.save()
}

// Delete removes a database's registration.
func (r *Registry) Delete(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.conf[name]; !exists {
		return fmt.Errorf("dbconfig: database %q not found", name)
	}

	delete(r.conf, name)

	return r.save()
}
