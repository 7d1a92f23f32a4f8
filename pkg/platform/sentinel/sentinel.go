package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Registries, caches and stores
// return these (optionally wrapped) so services can translate them into
// domain errors without knowing which backend answered.
//
// - ErrNotFound: no record for the requested key
// - ErrMalformed: stored or imported data failed to parse
// - ErrUnavailable: backend temporarily unreachable
var (
	ErrNotFound    = errors.New("not found")
	ErrMalformed   = errors.New("malformed data")
	ErrUnavailable = errors.New("unavailable")
)
