// Package http contains the chi HTTP handlers for the report API:
// the four aggregation views, the file export endpoint and health.
// Handlers translate transport concerns (query parsing, validation,
// content negotiation) and delegate all computation to the report
// service; errors surface as RFC 7807 problem documents.
package http
