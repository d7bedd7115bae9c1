package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcached-io/vcached/dbconfig"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg, err := dbconfig.Open(filepath.Join(t.TempDir(), "cfg.json"))
	require.NoError(t, err)

	return New(cfg, t.TempDir(), nil)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	return rec
}

func TestCreateInsertSearchDeleteFlow(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/databases/mydb", CreateDatabaseRequest{Mode: "L2NORM", Dims: 3})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/databases/mydb/vectors", InsertRequest{Vector: []float32{1, 2, 3}})
	require.Equal(t, http.StatusOK, rec.Code)

	var insertResp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &insertResp))

	rec = doJSON(t, s, http.MethodPost, "/databases/mydb/search", SearchRequest{Vector: []float32{1, 2, 3}})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/databases/mydb/search_n", SearchRequest{Vector: []float32{1, 2, 3}, N: 5})
	assert.Equal(t, http.StatusOK, rec.Code)

	result, ok := insertResp.Result.(map[string]any)
	require.True(t, ok)
	id, ok := result["id"].(string)
	require.True(t, ok)

	rec = doJSON(t, s, http.MethodDelete, "/databases/mydb/vectors/"+id, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSearchOnUnknownDatabaseReturns404(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/databases/nope/search", SearchRequest{Vector: []float32{1}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
