package recordstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileExt is the suffix every record file carries.
const FileExt = ".rec"

// FileStorage implements Storage over a directory of one JSON file per
// record, rooted at a configurable directory.
type FileStorage struct {
	root string
}

// NewFileStorage creates a FileStorage rooted at root, creating the
// directory if it does not already exist.
func NewFileStorage(root string) (*FileStorage, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		if err := os.MkdirAll(root, 0o755); err != nil {
			return nil, fmt.Errorf("recordstore: create storage directory: %w", err)
		}
	}

	return &FileStorage{root: root}, nil
}

func (f *FileStorage) path(id string) string {
	return filepath.Join(f.root, id+FileExt)
}

// Save writes r to its id-derived file, overwriting any existing one.
func (f *FileStorage) Save(r *Record) error {
	if r.ID == "" {
		id, err := IDFor(r)
		if err != nil {
			return err
		}

		r.ID = id
	}

	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	return os.WriteFile(f.path(r.ID), data, 0o644)
}

// Load reads the record stored under id.
func (f *FileStorage) Load(id string) (*Record, error) {
	data, err := os.ReadFile(f.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}

	return &r, nil
}

// Check reports whether a record with the given id exists.
func (f *FileStorage) Check(id string) bool {
	_, err := os.Stat(f.path(id))

	return err == nil
}

// Delete removes the record stored under id. Deleting an unknown id
// returns ErrNotFound.
func (f *FileStorage) Delete(id string) error {
	if err := os.Remove(f.path(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}

		return err
	}

	return nil
}

// List returns the IDs of every record currently stored.
func (f *FileStorage) List() ([]string, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, err
	}

	var out []string

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != FileExt {
			continue
		}

		out = append(out, strings.TrimSuffix(e.Name(), FileExt))
	}

	return out, nil
}
