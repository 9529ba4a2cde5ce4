// Package service contains the business logic of the inference service.
//
// Two concerns live here:
//   - credential validation, behind the CredentialValidator interface with
//     static, bcrypt-hashed, JWT and OAuth2 introspection variants
//   - prediction, which acquires a model from a model.Provider and runs it
//     on a domain.FeatureRecord
//
// # Thread Safety
//
// All services are safe for concurrent use from multiple goroutines.
package service
