// Package server exposes a catalog over HTTP so callers can preview how
// option payloads validate and flatten into wire params.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	og "github.com/reoring/optgrammar"
	"github.com/reoring/optgrammar/catalog"
	"github.com/reoring/optgrammar/metrics"
	mw "github.com/reoring/optgrammar/middleware"
)

// Options configures the router.
type Options struct {
	Logger zerolog.Logger
	// Recorder receives one observation per validate/params request.
	// Nil disables recording.
	Recorder *metrics.Recorder
	// MetricsHandler is mounted at MetricsPath when set. Leave it nil and
	// set Recorder to serve the default Prometheus registry.
	MetricsHandler http.Handler
	MetricsPath    string
	MaxBodyBytes   int64
	Timeout        time.Duration
}

// Source yields the catalog to serve. It is consulted once per request so
// a reloading source takes effect without restarting the server.
type Source interface {
	Get() *catalog.Catalog
}

type static struct{ cat *catalog.Catalog }

func (s static) Get() *catalog.Catalog { return s.cat }

// Static serves cat as is.
func Static(cat *catalog.Catalog) Source { return static{cat: cat} }

// Server serves the catalog of its source.
type Server struct {
	src Source
	opt Options
}

// New creates a server for src. *catalog.Holder is a Source.
func New(src Source, opt Options) *Server {
	if opt.MetricsPath == "" {
		opt.MetricsPath = "/metrics"
	}
	if opt.MaxBodyBytes == 0 {
		opt.MaxBodyBytes = 1 << 20
	}
	if opt.Timeout == 0 {
		opt.Timeout = 30 * time.Second
	}
	return &Server{src: src, opt: opt}
}

// Router builds the HTTP routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggingMiddleware(s.opt.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.opt.Timeout))

	r.Get("/health", s.health)

	if s.opt.MetricsHandler != nil {
		r.Handle(s.opt.MetricsPath, s.opt.MetricsHandler)
	} else if s.opt.Recorder != nil {
		r.Handle(s.opt.MetricsPath, promhttp.Handler())
	}

	r.Route("/operations", func(r chi.Router) {
		r.Get("/", s.listOperations)
		r.Route("/{op}", func(r chi.Router) {
			r.Get("/schema", s.schema)
			r.Group(func(r chi.Router) {
				r.Use(mw.DecodeOptions(s.opt.MaxBodyBytes, mw.DefaultDecodeOpt(), decodeFailed))
				r.Post("/validate", s.validate)
				r.Post("/params", s.params)
			})
		})
	})
	return r
}

// ListenAndServe serves h on addr until ctx is cancelled, then shuts down
// gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, readTimeout, writeTimeout time.Duration, logger zerolog.Logger) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("preview server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down preview server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"operations": len(s.src.Get().Operations()),
	})
}

func (s *Server) listOperations(w http.ResponseWriter, r *http.Request) {
	ops := s.src.Get().Operations()
	if ops == nil {
		ops = []string{}
	}
	writeJSON(w, http.StatusOK, ops)
}

func (s *Server) schema(w http.ResponseWriter, r *http.Request) {
	sch, ok := s.operation(w, r)
	if !ok {
		return
	}
	js, err := sch.JSONSchema()
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, js)
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	sch, ok := s.operation(w, r)
	if !ok {
		return
	}
	opts, _ := mw.OptionsFromContext(r.Context())
	err := sch.Validate(opts)
	s.opt.Recorder.Observe(chi.URLParam(r, "op"), 0, err)
	if err != nil {
		writeValidationError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) params(w http.ResponseWriter, r *http.Request) {
	sch, ok := s.operation(w, r)
	if !ok {
		return
	}
	opts, _ := mw.OptionsFromContext(r.Context())
	ps, err := sch.RequestParams(opts)
	s.opt.Recorder.Observe(chi.URLParam(r, "op"), len(ps), err)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "query" {
		w.Header().Set("Content-Type", "application/x-www-form-urlencoded")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, ps.QueryString())
		return
	}
	out := make([]paramJSON, len(ps))
	for i, p := range ps {
		out[i] = paramJSON{Key: p.Key, Value: p.Value}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) operation(w http.ResponseWriter, r *http.Request) (*og.Schema, bool) {
	sch, err := s.src.Get().Operation(chi.URLParam(r, "op"))
	if err != nil {
		writeProblem(w, http.StatusNotFound, "unknown_operation", err.Error())
		return nil, false
	}
	return sch, true
}

func decodeFailed(w http.ResponseWriter, r *http.Request, status int, err error) {
	code := "invalid_json"
	if status == http.StatusRequestEntityTooLarge {
		code = "body_too_large"
	}
	writeProblem(w, status, code, err.Error())
}

type paramJSON struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type problem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Context string `json:"context,omitempty"`
	Path    string `json:"path,omitempty"`
}

func writeValidationError(w http.ResponseWriter, err error) {
	e, ok := og.AsError(err)
	if !ok {
		writeProblem(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, problem{
		Code:    e.Code,
		Message: e.Error(),
		Context: e.Context,
		Path:    e.Path,
	})
}

func writeProblem(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, problem{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
