package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/johnnynv/RouteScribe/internal/config"
	"github.com/johnnynv/RouteScribe/internal/storage"
	"github.com/johnnynv/RouteScribe/internal/transform"
	"github.com/johnnynv/RouteScribe/pkg/logger"
)

// Server represents the HTTP read API server
type Server struct {
	port          int
	server        *http.Server
	configManager *config.Manager
	storage       storage.Storage
	runtime       RuntimeProvider
	logger        *logger.Entry
}

// NewServer creates a new API server
func NewServer(port int, configManager *config.Manager, storage storage.Storage, parentLogger *logger.Entry) *Server {
	log := parentLogger.WithFields(logger.Fields{
		"component": "api",
		"module":    "server",
		"port":      port,
	})
	return &Server{
		port:          port,
		configManager: configManager,
		storage:       storage,
		logger:        log,
	}
}

// SetRuntime sets the runtime provider (called after creation)
func (s *Server) SetRuntime(runtime RuntimeProvider) {
	s.runtime = runtime
}

// Handler returns the routed and wrapped handler without starting a listener
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.setupRouter(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.WithFields(logger.Fields{
		"operation": "start",
		"addr":      s.server.Addr,
	}).Info("Starting API server")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithFields(logger.Fields{
				"operation": "start",
				"error":     err.Error(),
			}).Error("API server failed to start")
		}
	}()

	return nil
}

// Stop stops the HTTP server gracefully
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	s.logger.WithField("operation", "stop").Info("Stopping API server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown API server: %w", err)
	}
	return nil
}

// Health reports whether the server can serve records
func (s *Server) Health(ctx context.Context) error {
	if s.storage == nil {
		return errors.New("api server has no storage")
	}
	return nil
}

func (s *Server) swaggerEnabled() bool {
	if s.configManager == nil {
		return true
	}
	if cfg := s.configManager.Get(); cfg != nil {
		return cfg.API.EnableSwagger
	}
	return true
}

func (s *Server) metricsEnabled() bool {
	if s.configManager == nil {
		return true
	}
	if cfg := s.configManager.Get(); cfg != nil {
		return cfg.API.EnableMetrics
	}
	return true
}

// HTTP Handlers

// handleDocs returns every stored documentation record
// @Summary List documentation records
// @Description Returns all stored records in id order as a bare JSON array
// @Tags Docs
// @Produce json
// @Success 200 {array} transform.Doc "Documentation records"
// @Failure 500 {object} ErrorResponse "Storage error"
// @Router /api/docs [get]
func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	docs, err := s.storage.ListDocs(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("Failed to list documentation records")
		NewErrorResponse("failed to list documentation records").WriteWithStatus(w, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, transform.Docs(docs))
}

// handleDoc returns a single documentation record
// @Summary Get documentation record
// @Description Returns one stored record by id, shaped like the list entries
// @Tags Docs
// @Produce json
// @Param id path int true "Record ID"
// @Success 200 {object} transform.Doc "Documentation record"
// @Failure 400 {object} ErrorResponse "Invalid id"
// @Failure 404 {object} ErrorResponse "Record not found"
// @Router /api/docs/{id} [get]
func (s *Server) handleDoc(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/api/docs/")
	if raw == "" {
		s.handleDocs(w, r)
		return
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		NewErrorResponse("invalid record id: " + raw).WriteWithStatus(w, http.StatusBadRequest)
		return
	}

	doc, err := s.storage.GetDoc(r.Context(), id)
	if storage.IsNotFound(err) {
		NewErrorResponse(err.Error()).WriteWithStatus(w, http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.WithError(err).WithField("id", id).Error("Failed to get documentation record")
		NewErrorResponse("failed to get documentation record").WriteWithStatus(w, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, transform.DocOf(doc))
}

// handleHealth returns overall system health
// @Summary Get system health
// @Description Returns the overall health status of all RouteScribe components
// @Tags Health
// @Produce json
// @Success 200 {object} JSONResponse{data=object} "Healthy"
// @Success 503 {object} JSONResponse{data=object} "Unhealthy"
// @Router /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.runtime != nil {
		health := s.runtime.Health(r.Context())
		status := http.StatusOK
		if !health.Healthy {
			status = http.StatusServiceUnavailable
		}
		NewJSONResponse(health).WriteWithStatus(w, status)
		return
	}

	storageStatus := "healthy"
	status := http.StatusOK
	if s.storage == nil || s.storage.HealthCheck(r.Context()) != nil {
		storageStatus = "unhealthy"
		status = http.StatusServiceUnavailable
	}
	NewJSONResponse(map[string]interface{}{
		"healthy": status == http.StatusOK,
		"components": map[string]string{
			"api":     "healthy",
			"storage": storageStatus,
		},
	}).WriteWithStatus(w, status)
}

// handleLiveness returns liveness probe status
// @Summary Liveness probe
// @Description Simple alive status
// @Tags Health
// @Produce json
// @Success 200 {object} JSONResponse{data=object} "Alive"
// @Router /health/live [get]
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse(map[string]string{"status": "alive"}).Write(w)
}

// handleReadiness returns readiness probe status
// @Summary Readiness probe
// @Description Ready once storage answers
// @Tags Health
// @Produce json
// @Success 200 {object} JSONResponse{data=object} "Ready"
// @Failure 503 {object} ErrorResponse "Not ready"
// @Router /health/ready [get]
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		NewErrorResponse("storage not configured").WriteWithStatus(w, http.StatusServiceUnavailable)
		return
	}
	if err := s.storage.HealthCheck(r.Context()); err != nil {
		NewErrorResponse("storage unavailable: " + err.Error()).WriteWithStatus(w, http.StatusServiceUnavailable)
		return
	}
	NewJSONResponse(map[string]string{"status": "ready"}).Write(w)
}

// handleStatus returns runtime status and record statistics
// @Summary Get system status
// @Description Returns runtime status, component information and record statistics
// @Tags Status
// @Produce json
// @Success 200 {object} JSONResponse{data=object} "System status"
// @Router /status [get]
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{"status": "running"}
	if s.runtime != nil {
		if rs := s.runtime.GetStatus(); rs != nil {
			status["runtime"] = rs
		}
	}

	if s.storage != nil {
		stats, err := s.storage.GetStats(r.Context())
		if err != nil {
			s.logger.WithError(err).Warn("Failed to get storage statistics")
		} else {
			status["docs"] = stats
		}
	}

	NewJSONResponse(status).Write(w)
}

// handleVersion returns version information
// @Summary Get version information
// @Description Returns API and application version details
// @Tags System
// @Produce json
// @Success 200 {object} JSONResponse{data=VersionInfo} "Version information"
// @Router /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse(GetVersion()).Write(w)
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	NewErrorResponse("method not allowed").WriteWithStatus(w, http.StatusMethodNotAllowed)
	return false
}
