// Package api exposes the comparison pipeline over HTTP.
//
// The server is deliberately small: compare and batch endpoints that run
// the same pipeline the CLI runs, plus report retrieval backed by a
// report.Store. Raster caching and report persistence are wired by the
// caller, so the server itself holds no backend-specific code.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/brothertop/svgdiff/pkg/errors"
	"github.com/brothertop/svgdiff/pkg/pipeline"
	"github.com/brothertop/svgdiff/pkg/plan"
	"github.com/brothertop/svgdiff/pkg/report"
)

// maxRequestBody bounds compare and batch request payloads (SVG documents
// inline) to 16 MiB.
const maxRequestBody = 16 << 20

// Server handles HTTP requests against a pipeline Runner and a report
// store.
type Server struct {
	runner *pipeline.Runner
	store  report.Store
	logger *log.Logger
	opts   pipeline.Options
}

// NewServer creates a Server. The options act as server-side defaults for
// requests that omit them; store may be nil to disable report persistence.
func NewServer(runner *pipeline.Runner, store report.Store, logger *log.Logger, opts pipeline.Options) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Server{runner: runner, store: store, logger: logger, opts: opts}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/compare", s.handleCompare)
		r.Post("/batch", s.handleBatch)
		r.Get("/reports", s.handleListReports)
		r.Get("/reports/{id}", s.handleGetReport)
	})
	return r
}

// logRequests logs one line per request through the structured logger.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, req)
		s.logger.Info("request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(req.Context()))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// compareRequest is the body of POST /v1/compare. Documents are inline
// SVG source.
type compareRequest struct {
	SVG1 string `json:"svg1"`
	SVG2 string `json:"svg2"`
	pipeline.Options
	Resolution string `json:"resolution,omitempty"`
	Alignment  string `json:"alignment,omitempty"`
}

func (s *Server) handleCompare(w http.ResponseWriter, req *http.Request) {
	var body compareRequest
	if !s.decode(w, req, &body) {
		return
	}
	if body.SVG1 == "" || body.SVG2 == "" {
		writeError(w, errors.New(errors.ErrCodeValidation, "both svg1 and svg2 are required"))
		return
	}
	opts, err := s.requestOptions(body.Options, body.Resolution, body.Alignment)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.runner.Compare(req.Context(), body.SVG1, body.SVG2, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	s.respondWithRecord(req.Context(), w, report.NewCompareRecord(result))
}

// batchRequest is the body of POST /v1/batch. Pairs reference files
// visible to the server.
type batchRequest struct {
	Pairs []pipeline.Pair `json:"pairs"`
	pipeline.Options
	Resolution string `json:"resolution,omitempty"`
	Alignment  string `json:"alignment,omitempty"`
}

func (s *Server) handleBatch(w http.ResponseWriter, req *http.Request) {
	var body batchRequest
	if !s.decode(w, req, &body) {
		return
	}
	opts, err := s.requestOptions(body.Options, body.Resolution, body.Alignment)
	if err != nil {
		writeError(w, err)
		return
	}

	batch, err := s.runner.RunBatch(req.Context(), body.Pairs, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	s.respondWithRecord(req.Context(), w, report.NewBatchRecord(batch))
}

func (s *Server) handleGetReport(w http.ResponseWriter, req *http.Request) {
	if s.store == nil {
		writeError(w, errors.New(errors.ErrCodeValidation, "report storage is not configured"))
		return
	}
	rec, err := s.store.Get(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if rec == nil {
		writeError(w, errors.New(errors.ErrCodeFileNotFound, "report not found"))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListReports(w http.ResponseWriter, req *http.Request) {
	if s.store == nil {
		writeError(w, errors.New(errors.ErrCodeValidation, "report storage is not configured"))
		return
	}
	records, err := s.store.List(req.Context(), 50)
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []*report.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

// requestOptions merges request overrides onto the server defaults and
// parses the string-typed enum fields.
func (s *Server) requestOptions(reqOpts pipeline.Options, resolution, alignment string) (pipeline.Options, error) {
	opts := s.opts
	if reqOpts.Threshold != 0 {
		opts.Threshold = reqOpts.Threshold
	}
	if reqOpts.AspectTolerance != nil {
		opts.AspectTolerance = reqOpts.AspectTolerance
	}
	if reqOpts.Scale != 0 {
		opts.Scale = reqOpts.Scale
	}
	if reqOpts.Workers != 0 {
		opts.Workers = reqOpts.Workers
	}
	opts.ForceRepair = opts.ForceRepair || reqOpts.ForceRepair
	opts.FailOnMismatch = opts.FailOnMismatch || reqOpts.FailOnMismatch
	opts.Logger = s.logger

	if resolution != "" {
		res, err := plan.ParseResolution(resolution)
		if err != nil {
			return opts, err
		}
		opts.Resolution = res
	}
	if alignment != "" {
		align, err := plan.ParseAlignment(alignment)
		if err != nil {
			return opts, err
		}
		opts.Alignment = align
	}
	return opts, nil
}

// respondWithRecord persists the record when a store is configured and
// writes it as the response either way.
func (s *Server) respondWithRecord(ctx context.Context, w http.ResponseWriter, rec *report.Record) {
	if s.store != nil {
		if err := s.store.Set(ctx, rec); err != nil {
			s.logger.Warn("failed to persist report", "id", rec.ID, "err", err)
		}
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) decode(w http.ResponseWriter, req *http.Request, v any) bool {
	req.Body = http.MaxBytesReader(w, req.Body, maxRequestBody)
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeValidation, err, "invalid request body"))
		return false
	}
	return true
}

// errorResponse is the JSON shape of every error reply.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	writeJSON(w, statusFor(code), errorResponse{
		Code:    string(code),
		Message: errors.UserMessage(err),
	})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeValidation, errors.ErrCodeInvalidThresh, errors.ErrCodeInvalidTol,
		errors.ErrCodeInvalidMode, errors.ErrCodeInvalidBatch:
		return http.StatusBadRequest
	case errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
