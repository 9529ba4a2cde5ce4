// Package handler contains the HTTP request handlers of the inference service.
//
// Handlers parse requests, call the prediction service and shape responses.
// They never write error bodies themselves: failures are returned as
// apperrors values and rendered by the fiber error handler, so every error
// response has the same {"detail": ...} shape.
//
// Authentication and rate limiting run as middleware in front of
// POST /predictions; by the time Predict runs the caller is authenticated.
//
// All handlers are safe for concurrent use.
package handler
