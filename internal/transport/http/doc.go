// Package http provides the HTTP handlers for the yield curve analysis API.
//
// Handlers follow a consistent pattern: parse and validate the request,
// invoke the analysis pipeline, and render either the result tables or a
// structured error through the shared error handler. All responses are JSON.
package http
