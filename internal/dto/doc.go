// Package dto defines request and response bodies of the HTTP API and turns
// raw request bodies into validated domain values.
package dto
