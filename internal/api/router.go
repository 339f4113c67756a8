package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/johnnynv/RouteScribe/internal/api/middleware"
	"github.com/johnnynv/RouteScribe/internal/metrics"

	// Registers the generated OpenAPI document with swag
	_ "github.com/johnnynv/RouteScribe/docs"
)

// setupRouter configures all API routes
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	// Documentation records
	mux.HandleFunc("/api/docs", s.handleDocs)
	mux.HandleFunc("/api/docs/", s.handleDoc)

	// Health check endpoints
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/health/live", s.handleLiveness)
	mux.HandleFunc("/health/ready", s.handleReadiness)

	// System endpoints
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/version", s.handleVersion)
	mux.HandleFunc("/api", s.handleAPIDocumentation)

	if s.metricsEnabled() {
		mux.Handle("/metrics", metrics.Handler())
	}
	if s.swaggerEnabled() {
		mux.Handle("/swagger/", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	handler := middleware.RequestLogger(s.logger)(mux)
	handler = metrics.InstrumentHandler(handler)
	handler = middleware.CORS()(handler)
	handler = middleware.Recovery(s.logger)(handler)

	return handler
}

// handleAPIDocumentation lists the endpoints served by this process
func (s *Server) handleAPIDocumentation(w http.ResponseWriter, r *http.Request) {
	version := GetVersion()

	endpoints := map[string]interface{}{
		"docs": map[string]interface{}{
			"GET /api/docs": map[string]string{
				"description": "All stored documentation records in id order",
				"returns":     "Bare JSON array of records",
			},
			"GET /api/docs/{id}": map[string]string{
				"description": "One stored documentation record",
				"parameters":  "id: record ID",
				"returns":     "Single record, 404 when missing",
			},
		},
		"health": map[string]interface{}{
			"GET /health":       map[string]string{"description": "Overall health of all components"},
			"GET /health/live":  map[string]string{"description": "Liveness probe"},
			"GET /health/ready": map[string]string{"description": "Readiness probe, checks storage"},
		},
		"system": map[string]interface{}{
			"GET /status":  map[string]string{"description": "Runtime status and record statistics"},
			"GET /version": map[string]string{"description": "API and application version"},
		},
	}
	if s.metricsEnabled() {
		endpoints["metrics"] = map[string]interface{}{
			"GET /metrics": map[string]string{"description": "Prometheus metrics"},
		}
	}
	if s.swaggerEnabled() {
		endpoints["swagger"] = map[string]interface{}{
			"GET /swagger/index.html": map[string]string{"description": "Swagger UI"},
		}
	}

	NewJSONResponse(map[string]interface{}{
		"name":        "RouteScribe API",
		"version":     version.API,
		"app_version": version.App,
		"description": "Read API for generated route documentation",
		"base_url":    r.Host,
		"endpoints":   endpoints,
		"middleware": []string{
			"Request logging",
			"Metrics",
			"CORS headers",
			"Panic recovery",
		},
	}).Write(w)
}
