// Package app composes the report service: it loads configuration,
// initializes the structured logger and metrics registry, builds the
// price client, aggregator and exporters, and runs the chi HTTP server
// with graceful shutdown.
package app
