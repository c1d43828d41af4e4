// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import "github.com/born-ml/lppool/internal/lppool"

// Error is a configuration error reported by a pooling call.
type Error = lppool.Error

// Kind classifies an Error.
type Kind = lppool.Kind

// Sentinels for errors.Is.
var (
	ErrUnsupportedRank       = lppool.ErrUnsupportedRank
	ErrFeatureExtentTooSmall = lppool.ErrFeatureExtentTooSmall
	ErrWidthOutOfRange       = lppool.ErrWidthOutOfRange
	ErrStrideOutOfRange      = lppool.ErrStrideOutOfRange
	ErrPowerOutOfRange       = lppool.ErrPowerOutOfRange
	ErrShapeMismatch         = lppool.ErrShapeMismatch
	ErrDTypeMismatch         = lppool.ErrDTypeMismatch
	ErrOutputMismatch        = lppool.ErrOutputMismatch
	ErrInvalidTensor         = lppool.ErrInvalidTensor
)

// KindOf returns the Kind of err, or 0 if err is not a configuration error.
func KindOf(err error) Kind {
	return lppool.KindOf(err)
}

// IsConfigError reports whether err was caused by invalid parameters or
// tensors rather than a backend failure.
func IsConfigError(err error) bool {
	return lppool.IsConfigError(err)
}
