// Package middleware holds the fiber middleware chain of the inference
// service: request IDs, access logging, panic recovery, CORS, Prometheus
// request metrics, rate limiting and bearer authentication, plus the
// error handler that renders every failure as a {"detail": ...} body.
package middleware
