package lppool

import (
	"errors"
	"fmt"
)

// Kind classifies a configuration error. Every Kind is itself an error so it
// can be used as a sentinel with errors.Is.
type Kind int

// Configuration error kinds.
const (
	KindUnsupportedRank Kind = iota + 1
	KindFeatureExtentTooSmall
	KindWidthOutOfRange
	KindStrideOutOfRange
	KindPowerOutOfRange
	KindShapeMismatch
	KindDTypeMismatch
	KindOutputMismatch
	KindInvalidTensor
)

// Sentinels for errors.Is.
var (
	ErrUnsupportedRank       error = KindUnsupportedRank
	ErrFeatureExtentTooSmall error = KindFeatureExtentTooSmall
	ErrWidthOutOfRange       error = KindWidthOutOfRange
	ErrStrideOutOfRange      error = KindStrideOutOfRange
	ErrPowerOutOfRange       error = KindPowerOutOfRange
	ErrShapeMismatch         error = KindShapeMismatch
	ErrDTypeMismatch         error = KindDTypeMismatch
	ErrOutputMismatch        error = KindOutputMismatch
	ErrInvalidTensor         error = KindInvalidTensor
)

// String returns the snake_case name used in logs, metrics and API responses.
func (k Kind) String() string {
	switch k {
	case KindUnsupportedRank:
		return "unsupported_rank"
	case KindFeatureExtentTooSmall:
		return "feature_extent_too_small"
	case KindWidthOutOfRange:
		return "width_out_of_range"
	case KindStrideOutOfRange:
		return "stride_out_of_range"
	case KindPowerOutOfRange:
		return "power_out_of_range"
	case KindShapeMismatch:
		return "shape_mismatch"
	case KindDTypeMismatch:
		return "dtype_mismatch"
	case KindOutputMismatch:
		return "output_mismatch"
	case KindInvalidTensor:
		return "invalid_tensor"
	default:
		return "unknown"
	}
}

func (k Kind) Error() string {
	return "lppool: " + k.String()
}

// Error is a caller configuration error. It names the operation and the
// invariant that failed. Configuration errors are never retried.
type Error struct {
	Op     string // "forward" or "backward"
	Kind   Kind
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("lppool %s: %s: %s", e.Op, e.Kind, e.Detail)
}

// Unwrap exposes the Kind so errors.Is matches the sentinels.
func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(op string, kind Kind, format string, args ...any) *Error {
	return &Error{Op: op, Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind carried by err, or 0 if err is not a configuration error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return 0
}

// IsConfigError reports whether err is a caller configuration error as
// opposed to a failure of the compute backend.
func IsConfigError(err error) bool {
	return KindOf(err) != 0
}
