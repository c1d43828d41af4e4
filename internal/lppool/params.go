package lppool

import "fmt"

// Parameter domains fixed by the kernels.
const (
	MinWidth  = 2
	MaxWidth  = 16
	MinStride = 1
	MaxStride = 4
)

// DefaultVerifyTolerance is the relative tolerance used by the optional
// stale-output check when Params.VerifyTolerance is zero.
const DefaultVerifyTolerance = 1e-4

// Params are the per-call window parameters.
type Params struct {
	Width     int     // Window length along the feature axis, in [MinWidth, MaxWidth].
	Stride    int     // Step between consecutive windows, in [MinStride, MaxStride].
	Power     float64 // Exponent p of the Lp norm, finite and > 0.
	BatchMode bool    // Whether axis 0 of the input is a batch axis.

	// VerifyOutput makes Backward recompute the forward pass and reject an
	// output tensor that was not produced from input with these parameters.
	VerifyOutput    bool
	VerifyTolerance float64
}

// String returns a compact description for logs.
func (p Params) String() string {
	return fmt.Sprintf("width=%d stride=%d power=%g batch=%t", p.Width, p.Stride, p.Power, p.BatchMode)
}

func (p Params) verifyTolerance() float64 {
	if p.VerifyTolerance > 0 {
		return p.VerifyTolerance
	}
	return DefaultVerifyTolerance
}
