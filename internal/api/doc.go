// Package api hosts the HTTP invocation surface. Routes:
//   - POST /v1/runs runs the pipeline once and returns the invocation response.
//   - GET /healthz and /readyz for container probes.
//   - GET /metrics for Prometheus scraping.
package api
