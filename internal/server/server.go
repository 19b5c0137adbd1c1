// internal/server/server.go
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"readiness-workers/internal/common/config"
	"readiness-workers/internal/common/logger"
	"readiness-workers/internal/models"
	"readiness-workers/internal/report"
)

// ProcessStarter is satisfied by camunda.Client.
type ProcessStarter interface {
	StartProcessInstance(ctx context.Context, processID string, variables map[string]interface{}) (int64, error)
}

// Throttle is the submit rate guard, satisfied by store.ArtifactCache.
type Throttle interface {
	ReserveSubmit(ctx context.Context, email string) error
	ReleaseSubmit(ctx context.Context, email string) error
}

// ReportCache is satisfied by store.ArtifactCache.
type ReportCache interface {
	GetReport(ctx context.Context, submissionID string) ([]byte, error)
	PutReport(ctx context.Context, submissionID string, html []byte) error
}

// Searcher is satisfied by store.SearchIndex.
type Searcher interface {
	Search(ctx context.Context, query string, size int) ([]models.SubmissionSummary, error)
}

// Repository is the subset of store.Repository the API serves.
type Repository interface {
	Append(ctx context.Context, sub *models.Submission) error
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	List(ctx context.Context, limit, offset int) ([]models.SubmissionSummary, error)
	UpdateStatus(ctx context.Context, id, status string) error
	ExportCSV(ctx context.Context) ([]byte, error)
}

// Server is the intake and admin HTTP API.
type Server struct {
	cfg      *config.Config
	repo     Repository
	throttle Throttle
	cache    ReportCache
	search   Searcher
	starter  ProcessStarter
	renderer *report.Renderer
	logger   logger.Logger

	httpServer *http.Server
}

func New(
	cfg *config.Config,
	repo Repository,
	throttle Throttle,
	cache ReportCache,
	search Searcher,
	starter ProcessStarter,
	renderer *report.Renderer,
	log logger.Logger,
) *Server {
	return &Server{
		cfg:      cfg,
		repo:     repo,
		throttle: throttle,
		cache:    cache,
		search:   search,
		starter:  starter,
		renderer: renderer,
		logger:   log.WithFields(map[string]interface{}{"component": "intake-server"}),
	}
}

// Handler builds the route table. Split out from Start for httptest use.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/submissions", s.handleSubmit)
	mux.HandleFunc("GET /api/v1/catalog", s.handleCatalog)

	mux.HandleFunc("GET /api/v1/admin/submissions", s.handleList)
	mux.HandleFunc("GET /api/v1/admin/submissions/export.csv", s.handleExportCSV)
	mux.HandleFunc("GET /api/v1/admin/submissions/{id}", s.handleGetSubmission)
	mux.HandleFunc("GET /api/v1/admin/submissions/{id}/report", s.handleGetReport)
	mux.HandleFunc("POST /api/v1/admin/submissions/{id}/deliver", s.handleDeliver)
	mux.HandleFunc("PATCH /api/v1/admin/submissions/{id}/status", s.handleUpdateStatus)
	mux.HandleFunc("GET /api/v1/admin/search", s.handleSearch)

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s.logRequests(mux)
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start() error {
	readTimeout := time.Duration(s.cfg.Server.ReadTimeout) * time.Millisecond
	if readTimeout <= 0 {
		readTimeout = 10 * time.Second
	}
	writeTimeout := time.Duration(s.cfg.Server.WriteTimeout) * time.Millisecond
	if writeTimeout <= 0 {
		writeTimeout = 30 * time.Second
	}

	s.httpServer = &http.Server{
		Addr:         s.cfg.Server.Address,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	s.logger.Info("http server listening", map[string]interface{}{
		"address": s.cfg.Server.Address,
	})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request", map[string]interface{}{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		})
	})
}
