package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into coded domain errors.
//
// These represent factual states about stored resources, not validation
// failures:
// - ErrNotFound: record does not exist in the store
// - ErrConflict: a uniqueness constraint would be violated
// - ErrInvalidState: record is in the wrong state for the requested mutation
// - ErrInsufficient: a balance or counter cannot cover the requested amount
// - ErrUnavailable: backing service temporarily unreachable
//
// For validation of external input use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrInsufficient = errors.New("insufficient")
	ErrUnavailable  = errors.New("unavailable")
)
