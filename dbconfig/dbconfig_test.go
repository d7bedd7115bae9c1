package dbconfig

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCreatesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")

	r, err := Open(path)
	require.NoError(t, err)
	assert.Empty(t, r.List())
}

func TestAppendAndGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	r, err := Open(path)
	require.NoError(t, err)

	cfg := DatabaseConfig{Type: "flat", Mode: "L2NORM", Dims: 128, URI: "local://a"}
	require.NoError(t, r.Append("mydb", cfg))

	got, ok := r.Get("mydb")
	require.True(t, ok)
	assert.Equal(t, cfg, got)
}

func TestAppendRejectsDuplicateName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	r, err := Open(path)
	require.NoError(t, err)

	cfg := DatabaseConfig{Type: "flat", Mode: "L2NORM", Dims: 128, URI: "local://a"}
	require.NoError(t, r.Append("mydb", cfg))
	assert.Error(t, r.Append("mydb", cfg))
}

func TestAppendRejectsDuplicateTypeAndURI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	r, err := Open(path)
	require.NoError(t, err)

	cfg := DatabaseConfig{Type: "flat", Mode: "L2NORM", Dims: 128, URI: "local://a"}
	require.NoError(t, r.Append("db1", cfg))
	assert.Error(t, r.Append("db2", cfg))
}

func TestDeleteUnknownFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	r, err := Open(path)
	require.NoError(t, err)

	assert.Error(t, r.Delete("nope"))
}

func TestReopenPersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	r1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, r1.Append("mydb", DatabaseConfig{Type: "flat", Dims: 4, URI: "local://x"}))

	r2, err := Open(path)
	require.NoError(t, err)

	_, ok := r2.Get("mydb")
	assert.True(t, ok)
}
