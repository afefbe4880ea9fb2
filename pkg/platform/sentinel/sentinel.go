// Package sentinel holds sentinel errors for infrastructure facts. Stores
// return these (optionally wrapped) so services can translate them into
// coded domain errors without importing store internals.
//
// These represent factual states about stored records, not validation
// failures:
//   - ErrNotFound: record does not exist in the store
//   - ErrConflict: record already exists where uniqueness is required
//
// For validation errors use pkg/domain-errors directly.
package sentinel

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)
