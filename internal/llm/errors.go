package llm

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a completion-call failure at the vendor
// boundary. The retry policy branches on this closed set, never on
// provider error prose.
type ErrorKind int

const (
	// KindOther covers any failure without a more specific kind.
	// Retried against the general budget.
	KindOther ErrorKind = iota
	// KindUnsupportedParameter means the target model rejected a
	// request parameter (in practice: temperature). Triggers exactly
	// one downgrade-and-retry outside the general budget.
	KindUnsupportedParameter
	// KindRateLimited means the provider returned a rate-limit or
	// overload response.
	KindRateLimited
	// KindTimeout means the per-call deadline expired.
	KindTimeout
)

// String returns a human-readable kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindUnsupportedParameter:
		return "unsupported_parameter"
	case KindRateLimited:
		return "rate_limited"
	case KindTimeout:
		return "timeout"
	default:
		return "other"
	}
}

// Error is a classified completion failure.
type Error struct {
	Kind     ErrorKind
	Provider string
	Err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s completion failed (%s): %v", e.Provider, e.Kind, e.Err)
}

// Unwrap returns the underlying provider error.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the ErrorKind from err, or KindOther when err carries
// no classification.
func KindOf(err error) ErrorKind {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Kind
	}
	return KindOther
}
