package api

import (
	"context"
	"time"
)

// RuntimeHealthStatus is the aggregated health served on /health
type RuntimeHealthStatus struct {
	Healthy    bool                       `json:"healthy"`
	Components map[string]ComponentHealth `json:"components"`
	Checks     []HealthCheck              `json:"checks"`
}

// ComponentHealth represents individual component health
type ComponentHealth struct {
	Status   string        `json:"status"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// HealthCheck represents a health check result
type HealthCheck struct {
	Name     string        `json:"name"`
	Status   string        `json:"status"`
	Duration time.Duration `json:"duration"`
}

// RuntimeStatus is the runtime section of /status
type RuntimeStatus struct {
	State      string                     `json:"state"`
	StartedAt  time.Time                  `json:"started_at"`
	Uptime     time.Duration              `json:"uptime"`
	Version    string                     `json:"version"`
	Components map[string]ComponentStatus `json:"components"`
}

// ComponentStatus represents individual component status
type ComponentStatus struct {
	Name      string        `json:"name"`
	State     string        `json:"state"`
	StartedAt time.Time     `json:"started_at"`
	Uptime    time.Duration `json:"uptime"`
	Health    string        `json:"health"`
}

// RuntimeProvider is implemented by the runtime that owns the server
type RuntimeProvider interface {
	Health(ctx context.Context) RuntimeHealthStatus
	GetStatus() *RuntimeStatus
}

// JSONResponse documents the Response envelope for swag
// @Description Standard envelope of the service endpoints
type JSONResponse struct {
	Success   bool        `json:"success" example:"true"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp" example:"2024-05-01T10:00:00Z"`
} // @name JSONResponse

// ErrorResponse documents an error envelope for swag
// @Description Standard error response format
type ErrorResponse struct {
	Success   bool      `json:"success" example:"false"`
	Error     string    `json:"error" example:"api doc not found: 7"`
	Timestamp time.Time `json:"timestamp" example:"2024-05-01T10:00:00Z"`
} // @name ErrorResponse
