// Package errors provides application error types for the inference service.
//
// This package defines:
//   - AppError type with error classification
//   - Error constructors for the failures the API surfaces
//   - HTTP status code mapping
//
// # Error Types
//
//   - Unauthorized: missing or rejected bearer token (401, with challenge header)
//   - Unprocessable: request body failed schema validation (422)
//   - RateLimited: request rejected by the limiter (429)
//   - Model: model load or inference failed (500)
//   - Internal: unexpected server error (500)
//
// # Response Shape
//
// Body renders errors the way clients of the prediction API expect:
//
//	{"detail": "Not authenticated"}
//	{"detail": [{"loc": ["body", "sex"], "msg": "field required", "type": "value_error.missing"}]}
//
// # Error Wrapping
//
// Errors support wrapping with fmt.Errorf:
//
//	return fmt.Errorf("predict: %w", apperrors.Model(err))
package errors
