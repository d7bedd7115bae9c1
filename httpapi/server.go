// Package httpapi exposes the engine over HTTP: a gorilla/mux-routed JSON
// API dispatching create/insert/search/search_n/delete against named,
// registry-resolved databases. Every request is logged through
// *vcached.Logger and tagged with a uuid correlation ID.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/vcached-io/vcached"
	"github.com/vcached-io/vcached/dbconfig"
	"github.com/vcached-io/vcached/recordstore"
)

// Response is the envelope every handler replies with.
type Response struct {
	Message string `json:"message"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CreateDatabaseRequest creates a new named database.
type CreateDatabaseRequest struct {
	Mode string `json:"mode"`
	Dims int    `json:"dims"`
}

// InsertRequest inserts one vector with optional metadata.
type InsertRequest struct {
	Vector []float32      `json:"vector"`
	Data   map[string]any `json:"data,omitempty"`
}

// SearchRequest queries for the nearest (or n-nearest) vectors.
type SearchRequest struct {
	Vector []float32 `json:"vector"`
	N      int       `json:"n,omitempty"`
}

// Server holds every open database, keyed by name, plus the registry
// config used to open new ones and the record-store root each database's
// persistence boundary lives under.
type Server struct {
	mu        sync.Mutex
	cfg       *dbconfig.Registry
	storeRoot string
	open      map[string]*vcached.Database
	logger    *vcached.Logger
	router    *mux.Router
}

// New creates a Server whose database configs persist in cfg and whose
// record stores live under storeRoot/<name>.
func New(cfg *dbconfig.Registry, storeRoot string, logger *vcached.Logger) *Server {
	if logger == nil {
		logger = vcached.NoopLogger()
	}

	s := &Server{
		cfg:       cfg,
		storeRoot: storeRoot,
		open:      make(map[string]*vcached.Database),
		logger:    logger,
	}

	r := mux.NewRouter()
	r.Use(s.correlationMiddleware)
	r.HandleFunc("/databases/{name}", s.createDatabase).Methods(http.MethodPost)
	r.HandleFunc("/databases/{name}/vectors", s.insertVector).Methods(http.MethodPost)
	r.HandleFunc("/databases/{name}/search", s.search).Methods(http.MethodPost)
	r.HandleFunc("/databases/{name}/search_n", s.searchN).Methods(http.MethodPost)
	r.HandleFunc("/databases/{name}/vectors/{id}", s.deleteVector).Methods(http.MethodDelete)
	s.router = r

	return s
}

// ServeHTTP lets Server be used directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type correlationIDKey struct{}

func (s *Server) correlationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		ctx := context.WithValue(r.Context(), correlationIDKey{}, id)
		s.logger.With("request_id", id).Info("request received", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Response{Error: msg})
}

func (s *Server) database(name string) (*vcached.Database, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, ok := s.open[name]

	return db, ok
}

func (s *Server) createDatabase(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var req CreateDatabaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON input")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.open[name]; exists {
		writeError(w, http.StatusConflict, "database already open")
		return
	}

	uri := s.storeRoot + "/" + name
	if err := s.cfg.Append(name, dbconfig.DatabaseConfig{Type: "flat", Mode: req.Mode, Dims: req.Dims, URI: uri}); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	store, err := recordstore.NewFileStorage(uri)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	db, err := vcached.Open(r.Context(), name, req.Dims, req.Mode, store, s.logger)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.open[name] = db
	writeJSON(w, http.StatusCreated, Response{Message: "database created"})
}

func (s *Server) insertVector(w http.ResponseWriter, r *http.Request) {
	db, ok := s.database(mux.Vars(r)["name"])
	if !ok {
		writeError(w, http.StatusNotFound, "database not open")
		return
	}

	var req InsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON input")
		return
	}

	id, err := db.Insert(r.Context(), req.Vector, req.Data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "vector inserted", Result: map[string]string{"id": id}})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	db, ok := s.database(mux.Vars(r)["name"])
	if !ok {
		writeError(w, http.StatusNotFound, "database not open")
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON input")
		return
	}

	m, err := db.Search(r.Context(), req.Vector)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "search successful", Result: m})
}

func (s *Server) searchN(w http.ResponseWriter, r *http.Request) {
	db, ok := s.database(mux.Vars(r)["name"])
	if !ok {
		writeError(w, http.StatusNotFound, "database not open")
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON input")
		return
	}

	if req.N <= 0 {
		req.N = 10
	}

	results, err := db.SearchN(r.Context(), req.Vector, req.N)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "search successful", Result: results})
}

func (s *Server) deleteVector(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	db, ok := s.database(vars["name"])
	if !ok {
		writeError(w, http.StatusNotFound, "database not open")
		return
	}

	if err := db.Delete(r.Context(), vars["id"]); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "vector deleted"})
}
