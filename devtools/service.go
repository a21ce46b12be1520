// Package devtools provides an HTTP introspection service for wrapped
// classes: registered routines, member descriptors, and generated source can
// be inspected from a browser or editor tooling while developing wrappers.
package devtools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/gorilla/schema"

	"github.com/loganlinn/tortilla"
	"github.com/loganlinn/tortilla/wrapgen"
)

var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// Service exposes introspection endpoints over a registry and the class
// sources its routines were generated from.
type Service struct {
	registry *tortilla.Registry
	classes  map[string]wrapgen.ClassSource
	logger   *slog.Logger
	port     int
}

// New creates a devtools service for the given registry.
func New(registry *tortilla.Registry, port int) *Service {
	return &Service{
		registry: registry,
		classes:  make(map[string]wrapgen.ClassSource),
		logger:   slog.Default(),
		port:     port,
	}
}

// WithLogger sets the request logger.
func (s *Service) WithLogger(logger *slog.Logger) *Service {
	s.logger = logger
	return s
}

// AddClass makes a class source available to the members and source
// endpoints under its class name.
func (s *Service) AddClass(class wrapgen.ClassSource) *Service {
	s.classes[class.ClassName()] = class
	return s
}

// Handler returns the HTTP handler for the service.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", s.handlePing)
	mux.HandleFunc("GET /classes", s.handleClasses)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /members", s.handleMembers)
	mux.HandleFunc("GET /source", s.handleSource)
	return s.logRequests(mux)
}

// ListenAndServe runs the service until ctx is cancelled.
func (s *Service) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.Handler(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("devtools request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}

type pingResponse struct {
	OK bool `json:"ok"`
}

func (s *Service) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pingResponse{OK: true})
}

type classesResponse struct {
	Classes []string `json:"classes"`
}

func (s *Service) handleClasses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, classesResponse{Classes: s.registry.Classes()})
}

type statusResponse struct {
	OK            bool                `json:"ok"`
	Port          int                 `json:"port"`
	GoVersion     string              `json:"go_version"`
	NumGoroutines int                 `json:"num_goroutines"`
	Classes       map[string][]string `json:"classes"`
}

func (s *Service) handleStatus(w http.ResponseWriter, r *http.Request) {
	classes := make(map[string][]string)
	for _, class := range s.registry.Classes() {
		classes[class] = s.registry.Routines(class)
	}
	writeJSON(w, http.StatusOK, statusResponse{
		OK:            true,
		Port:          s.port,
		GoVersion:     runtime.Version(),
		NumGoroutines: runtime.NumGoroutine(),
		Classes:       classes,
	})
}

type membersRequest struct {
	Class   string   `schema:"class,required"`
	Include []string `schema:"include"`
	Exclude []string `schema:"exclude"`
}

type membersResponse struct {
	Class   string   `json:"class"`
	Members []string `json:"members"`
}

func (s *Service) handleMembers(w http.ResponseWriter, r *http.Request) {
	var req membersRequest
	if err := queryDecoder.Decode(&req, r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	class, ok := s.classes[req.Class]
	if !ok {
		writeError(w, http.StatusNotFound,
			tortilla.Errorf(tortilla.CodeClassNotResolvable, "unknown class %q", req.Class))
		return
	}

	descs, err := wrapgen.FromClass(class).
		WithInclude(req.Include...).
		WithExclude(req.Exclude...).
		Descriptors()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	resp := membersResponse{Class: req.Class, Members: []string{}}
	for d := range descs {
		resp.Members = append(resp.Members, d)
	}
	writeJSON(w, http.StatusOK, resp)
}

type sourceRequest struct {
	Class   string `schema:"class,required"`
	Package string `schema:"package"`
	Prefix  string `schema:"prefix"`
}

func (s *Service) handleSource(w http.ResponseWriter, r *http.Request) {
	var req sourceRequest
	if err := queryDecoder.Decode(&req, r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	class, ok := s.classes[req.Class]
	if !ok {
		writeError(w, http.StatusNotFound,
			tortilla.Errorf(tortilla.CodeClassNotResolvable, "unknown class %q", req.Class))
		return
	}

	g := wrapgen.FromClass(class).WithPrefix(req.Prefix)
	if req.Package != "" {
		g = g.WithPackage(req.Package)
	}
	var buf bytes.Buffer
	if err := g.EmitGo(&buf); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/x-go; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Error: err.Error()}
	var terr *tortilla.Error
	if e, ok := err.(*tortilla.Error); ok {
		terr = e
	}
	if terr != nil {
		resp.Code = string(terr.Code)
	}
	writeJSON(w, status, resp)
}
