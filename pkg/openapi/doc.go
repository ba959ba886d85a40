// Package openapi loads OpenAPI documents and extracts the operations that
// accept form submissions, turning their request bodies into form models.
// Parsing is backed by kin-openapi.
package openapi
