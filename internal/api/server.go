// Package api serves simulations over HTTP for the web client: a JSON
// simulate endpoint, the default parameter record, presets and the
// compiled single-page app.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"

	"github.com/san-kum/eyespot/internal/config"
	"github.com/san-kum/eyespot/internal/dynamo"
	"github.com/san-kum/eyespot/internal/export"
	"github.com/san-kum/eyespot/internal/eyespot"
	"github.com/san-kum/eyespot/internal/metrics"
)

const maxBodyBytes = 1 << 20

// Options bound what a single request may ask for.
type Options struct {
	// StaticDir holds the compiled web client. Empty disables it.
	StaticDir    string
	MaxGridSize  int
	// MaxEvalTimes caps the reported times of one request, below the
	// package-wide sim.MaxEvalTimes. Zero leaves only the package cap.
	MaxEvalTimes int
	Timeout      time.Duration
}

func DefaultOptions() Options {
	return Options{
		MaxGridSize:  201,
		MaxEvalTimes: 1001,
		Timeout:      5 * time.Minute,
	}
}

type Server struct {
	opts Options
	log  logr.Logger
	mux  *http.ServeMux
}

func NewServer(opts Options, log logr.Logger) *Server {
	s := &Server{opts: opts, log: log, mux: http.NewServeMux()}
	s.mux.HandleFunc("POST /api/simulate", s.handleSimulate)
	s.mux.HandleFunc("GET /api/defaults", s.handleDefaults)
	s.mux.HandleFunc("GET /api/presets", s.handlePresets)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.StaticDir != "" {
		s.mux.Handle("GET /", spaHandler(opts.StaticDir))
	}
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	s.log.Info("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
}

// SimulateRequest is a configuration record plus the output shape.
type SimulateRequest struct {
	config.Config
	// Output is "final" (default) or "series".
	Output string `json:"output,omitempty"`
}

// ErrorResponse names the error kind so clients can branch on it.
type ErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	req := SimulateRequest{Config: *config.DefaultConfig()}
	req.Foci = nil
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.fail(w, dynamo.Configf("decode request: %v", err))
		return
	}

	cfg := &req.Config
	if cfg.Foci == nil {
		cfg.Foci = [][2]int{{cfg.GridSize / 2, cfg.GridSize / 2}}
	}
	if s.opts.MaxGridSize > 0 && cfg.GridSize > s.opts.MaxGridSize {
		s.fail(w, dynamo.Configf("grid size %d exceeds server limit %d", cfg.GridSize, s.opts.MaxGridSize))
		return
	}
	if req.Output != "" && req.Output != "final" && req.Output != "series" {
		s.fail(w, dynamo.Configf("unknown output %q (want final or series)", req.Output))
		return
	}
	if err := cfg.Validate(); err != nil {
		s.fail(w, err)
		return
	}

	m, err := cfg.NewModel()
	if err != nil {
		s.fail(w, err)
		return
	}
	m.WithLogger(s.log)
	times, err := cfg.EvalTimes()
	if err != nil {
		s.fail(w, err)
		return
	}
	if s.opts.MaxEvalTimes > 0 && len(times) > s.opts.MaxEvalTimes {
		s.fail(w, dynamo.Configf("%d evaluation times exceed server limit %d", len(times), s.opts.MaxEvalTimes))
		return
	}

	ctx := r.Context()
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	sol, err := m.Solve(ctx, cfg.Span(), times, eyespot.RunOptions{
		Method:  cfg.Method,
		Solver:  cfg.SolverOptions(),
		Metrics: metrics.Standard(m.Codec()),
	})
	if err != nil {
		s.fail(w, err)
		return
	}

	if req.Output == "series" {
		writeJSON(w, http.StatusOK, export.NewSeries(sol))
		return
	}
	final, err := export.NewFinal(sol)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, final)
}

func (s *Server) handleDefaults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, config.DefaultConfig())
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]map[string]*config.Config)
	for _, group := range config.ListGroups() {
		out[group] = make(map[string]*config.Config)
		for _, name := range config.ListPresets(group) {
			out[group][name] = config.GetPreset(group, name)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, dynamo.ErrConfiguration), errors.Is(err, dynamo.ErrShape):
		return http.StatusBadRequest
	case errors.Is(err, dynamo.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, dynamo.ErrIntegration):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error(err, "simulate failed")
	}
	writeJSON(w, status, ErrorResponse{Kind: dynamo.Kind(err), Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// spaHandler serves files from dir and falls back to index.html so client
// side routes resolve.
func spaHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+r.URL.Path)))
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		files.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
