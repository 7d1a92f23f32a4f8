// Package municipality resolves municipality names to cadastral codes.
//
// Matching is exact and case-sensitive: "Roma" never resolves "Romano" and
// "milano" does not resolve "Milano". A miss is reported as *NotFoundError,
// which matches both ErrNotFound and sentinel.ErrNotFound.
package municipality

//go:generate mockgen -source=municipality.go -destination=mocks/mocks.go -package=mocks Resolver

import (
	"context"
	"errors"
	"fmt"

	"fiscalcode/internal/fiscalcode"
	"fiscalcode/pkg/platform/sentinel"
)

// Resolver maps a municipality name to its cadastral code.
type Resolver interface {
	Resolve(ctx context.Context, name string) (fiscalcode.CadastralCode, error)
}

// Entry is one row of the cadastral registry.
type Entry struct {
	Name string
	Code fiscalcode.CadastralCode
}

// ErrNotFound is matched by every *NotFoundError.
var ErrNotFound = fmt.Errorf("municipality %w", sentinel.ErrNotFound)

// NotFoundError reports a name with no registry entry.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("municipality %q not found in cadastral registry", e.Name)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound || target == sentinel.ErrNotFound
}

// IsNotFound reports whether err is a lookup miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
