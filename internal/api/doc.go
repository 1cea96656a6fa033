// Package api implements the HTTP REST API for Gray Logic Companion.
//
// This package provides:
//   - Catalog endpoints for node configs
//   - Automation CRUD with rendered summaries
//   - A stateless describe endpoint for clients that hold their own catalog
//   - Prometheus exposition and a JSON status report
//   - Middleware stack (request ID, logging, recovery, CORS, metrics)
//
// # Graceful Degradation
//
// The server operates without MQTT. Writes are stored and summaries are
// served on demand; only retained summary publishing is skipped.
package api
