// Package mockstore implements an in-process stand-in for the external
// mock CRUD store. It reproduces the collaborator's observable contract:
// typed collections, exact-match query-parameter filtering on any field,
// server-assigned integer ids on POST, full-replace PUT, and DELETE by id.
// No transactions, no validation beyond basic shape.
//
// It exists so tests (and local development without a running store) can
// exercise the real store.Client over real HTTP instead of mocking it.
package mockstore

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
)

// Server is an in-memory collection store exposed over HTTP.
type Server struct {
	mu          sync.RWMutex
	collections map[string][]map[string]any
	nextID      map[string]int
	requests    atomic.Int64
	handler     http.Handler
}

// New creates an empty Server.
func New() *Server {
	s := &Server{
		collections: make(map[string][]map[string]any),
		nextID:      make(map[string]int),
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			s.requests.Add(1)
			next.ServeHTTP(w, req)
		})
	})
	r.Get("/{collection}", s.handleList)
	r.Post("/{collection}", s.handleCreate)
	r.Get("/{collection}/{id}", s.handleGet)
	r.Put("/{collection}/{id}", s.handleReplace)
	r.Delete("/{collection}/{id}", s.handleDelete)
	s.handler = r
	return s
}

// Handler returns the HTTP handler, suitable for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// RequestCount reports how many requests the server has received. Tests
// use it to assert that an operation made no network call.
func (s *Server) RequestCount() int64 {
	return s.requests.Load()
}

// Seed inserts records directly, assigning ids to any record without one.
func (s *Server) Seed(collection string, records ...map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range records {
		if _, ok := record["id"]; !ok {
			record["id"] = s.allocateID(collection)
		}
		s.collections[collection] = append(s.collections[collection], record)
	}
}

// Records returns a copy of a collection's records, for assertions.
func (s *Server) Records(collection string) []map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.collections[collection]
	out := make([]map[string]any, len(records))
	copy(out, records)
	return out
}

// allocateID hands out incrementing integer ids per collection.
// Callers must hold s.mu.
func (s *Server) allocateID(collection string) int {
	s.nextID[collection]++
	return s.nextID[collection]
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	s.mu.RLock()
	defer s.mu.RUnlock()

	// Always an array, even for unknown collections: json-server answers
	// [] rather than 404 for an empty or missing collection.
	matches := make([]map[string]any, 0)
	query := r.URL.Query()
	for _, record := range s.collections[collection] {
		if matchesFilter(record, query) {
			matches = append(matches, record)
		}
	}
	writeJSON(w, http.StatusOK, matches)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, record := range s.collections[collection] {
		if fieldString(record["id"]) == id {
			writeJSON(w, http.StatusOK, record)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	var record map[string]any
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A client-supplied id is honored (the movie_cache collection keys
	// records by movie id); otherwise the store assigns one.
	if supplied, ok := record["id"].(float64); ok {
		if next := int(supplied); next > s.nextID[collection] {
			s.nextID[collection] = next
		}
	} else {
		record["id"] = s.allocateID(collection)
	}
	s.collections[collection] = append(s.collections[collection], record)
	writeJSON(w, http.StatusCreated, record)
}

func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	var record map[string]any
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.collections[collection] {
		if fieldString(existing["id"]) == id {
			// Full replace; the id survives regardless of the body.
			record["id"] = existing["id"]
			s.collections[collection][i] = record
			writeJSON(w, http.StatusOK, record)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.collections[collection]
	for i, existing := range records {
		if fieldString(existing["id"]) == id {
			s.collections[collection] = append(records[:i:i], records[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]any{})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{})
}

// matchesFilter reports whether every query parameter equals the record's
// field, compared as strings so numeric JSON values match their text form.
func matchesFilter(record map[string]any, query map[string][]string) bool {
	for key, values := range query {
		if len(values) == 0 {
			continue
		}
		field, ok := record[key]
		if !ok || fieldString(field) != values[0] {
			return false
		}
	}
	return true
}

// fieldString renders a decoded JSON value for comparison. Whole-number
// floats (the default decoding of JSON numbers) print without a decimal
// point, so "42" matches a stored 42.
func fieldString(v any) string {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprint(int64(f))
	}
	return fmt.Sprint(v)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
