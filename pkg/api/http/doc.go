// Package http provides the HTTP REST API implementation.
//
// The HTTP server exposes endpoints for:
//   - Simulator defaults and static constants
//   - Preference updates (showAdvanced, mostRecentUrls)
//   - Relay sessions and connector messages
//   - Health checks
//   - Prometheus metrics
package http
