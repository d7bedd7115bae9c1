package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vcached-io/vcached"
	"github.com/vcached-io/vcached/recordstore"
)

func defaultRecordsDir(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".vcached", name)
	}

	return filepath.Join(home, ".vcached", name)
}

// openDatabase resolves name against the registry and opens its table,
// replaying its persisted records.
func openDatabase(ctx context.Context, name string) (*vcached.Database, error) {
	reg, err := openRegistry()
	if err != nil {
		return nil, err
	}

	cfg, ok := reg.Get(name)
	if !ok {
		return nil, fmt.Errorf("database %q not registered (run %q first)", name, "vcachectl open")
	}

	store, err := recordstore.NewFileStorage(cfg.URI)
	if err != nil {
		return nil, err
	}

	return vcached.Open(ctx, name, cfg.Dims, cfg.Mode, store, vcached.NoopLogger())
}
