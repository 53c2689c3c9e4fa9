// Copyright (c) 2026 Arvio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Orchestration probes: GET /health reports process liveness, GET /ready
// reports whether the backing dependencies can serve traffic.
package api

import (
	"log/slog"
	"net/http"

	"github.com/taibuivan/arvio/internal/platform/respond"
)

// HealthDependencies carries the pingers the readiness probe reports on.
// Nil entries are skipped, so tests can wire only what they exercise.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase func() error

	// CheckCache pings the Redis client.
	CheckCache func() error
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

// NewHealthHandlers builds the GET /health and GET /ready handlers.
//
// Liveness answers "is the process up"; readiness answers "can it serve",
// which requires every backing dependency to respond.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{"status": "ok"})
}

// dependencyStatus is one row of the readiness report.
type dependencyStatus struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	probes := []struct {
		name string
		ping func() error
	}{
		{"postgres", handler.dependencies.CheckDatabase},
		{"redis", handler.dependencies.CheckCache},
	}

	report := make([]dependencyStatus, 0, len(probes))
	ready := true

	for _, probe := range probes {
		if probe.ping == nil {
			continue
		}

		status := dependencyStatus{Name: probe.name, IsOK: true}
		if err := probe.ping(); err != nil {
			status.IsOK = false
			status.Error = err.Error()
			ready = false
			handler.logger.Error("readiness_check_failed",
				slog.String("dependency", probe.name),
				slog.Any("error", err),
			)
		}
		report = append(report, status)
	}

	body := map[string]any{
		"status": "ready",
		"checks": report,
	}

	if !ready {
		body["status"] = "degraded"
		// respond.OK always writes 200, so the 503 header goes out first.
		writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		writer.WriteHeader(http.StatusServiceUnavailable)
	}

	respond.OK(writer, body)
}
