// Package testserver serves an in-memory /Employee collection over HTTP for
// tests and local runs (rosterctl serve). It is a stand-in for the real remote, not a product
// server: there is no persistence and no validation beyond JSON decoding.
package testserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"roster-sync/internal/domain"
	"roster-sync/internal/remote"
)

type failure struct {
	status int
	detail string
}

// Server is an httptest server over a remote.MemoryCollection.
type Server struct {
	*httptest.Server

	Collection *remote.MemoryCollection

	mu       sync.Mutex
	failures map[string]failure
	counts   map[string]int
}

// NewUnstarted builds the server without a listener; mount Router yourself.
func NewUnstarted(seed ...domain.Employee) *Server {
	return &Server{
		Collection: remote.NewMemoryCollection(seed...),
		failures:   map[string]failure{},
		counts:     map[string]int{},
	}
}

// New starts an httptest server; callers must Close it.
func New(seed ...domain.Employee) *Server {
	s := NewUnstarted(seed...)
	s.Server = httptest.NewServer(s.Router())
	return s
}

// Router exposes the handler so callers can mount it on their own listener.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(s.count)

	r.Route("/Employee", func(r chi.Router) {
		r.Get("/", s.list)
		r.Post("/", s.create)
		r.Put("/{id}", s.update)
		r.Delete("/{id}", s.delete)
	})
	return r
}

// Fail makes every request with method answer status and {"data": detail}
// until Recover is called.
func (s *Server) Fail(method string, status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = failure{status: status, detail: detail}
}

func (s *Server) Recover(method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, method)
}

// Count returns how many requests with method reached the server.
func (s *Server) Count(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[method]
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.counts[r.Method]++
		f, failing := s.failures[r.Method]
		s.mu.Unlock()

		if failing {
			writeError(w, f.status, f.detail)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	out, err := s.Collection.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var in domain.Employee
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	created, err := s.Collection.Create(r.Context(), in)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var in domain.Employee
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	in.ID = id
	updated, err := s.Collection.Update(r.Context(), in)
	if err != nil {
		writeCollectionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := s.Collection.Delete(r.Context(), id); err != nil {
		writeCollectionError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func parseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func writeCollectionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, remote.ErrNotFound):
		writeError(w, http.StatusNotFound, "employee not found")
	case errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "request canceled")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"data": detail})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
