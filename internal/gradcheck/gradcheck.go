// Package gradcheck compares the analytic feature Lp pooling gradient with a
// central finite-difference estimate.
package gradcheck

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/born-ml/lppool/internal/lppool"
	"github.com/born-ml/lppool/internal/tensor"
)

// Options controls the finite-difference estimate.
type Options struct {
	Epsilon float64 // Perturbation size. Defaults to 1e-6.
	Seed    int64   // Seed for the random upstream gradient.
}

// Report holds the per-element comparison.
type Report struct {
	Analytic    []float64
	Numeric     []float64
	MaxAbsError float64
	MaxRelError float64
	Worst       int // Flat input index with the largest relative error.
}

// Passed reports whether every element is within tol relative error.
func (r Report) Passed(tol float64) bool {
	return r.MaxRelError <= tol
}

// String summarizes the report.
func (r Report) String() string {
	return fmt.Sprintf("elements=%d max_abs=%.3g max_rel=%.3g worst=%d",
		len(r.Analytic), r.MaxAbsError, r.MaxRelError, r.Worst)
}

// Check runs forward and backward on backend and compares the analytic input
// gradient of L = Σ w·forward(x) with central differences, where w is a
// random upstream gradient. The computation is done in float64 regardless of
// the input's dtype.
func Check(backend lppool.Backend, input *tensor.RawTensor, p lppool.Params, opts Options) (Report, error) {
	eps := opts.Epsilon
	if eps <= 0 {
		eps = 1e-6
	}

	x, err := tensor.FromFloat64s(tensor.Float64s(input), input.Shape(), tensor.Float64)
	if err != nil {
		return Report{}, fmt.Errorf("gradcheck: %w", err)
	}

	output, err := lppool.Pool(backend, x, p)
	if err != nil {
		return Report{}, err
	}

	rng := rand.New(rand.NewSource(opts.Seed)) //nolint:gosec // deterministic test weights
	weights, err := tensor.Randn[float64](output.Shape(), rng)
	if err != nil {
		return Report{}, fmt.Errorf("gradcheck: %w", err)
	}

	gradInput, err := lppool.Gradient(backend, weights, x, output, p)
	if err != nil {
		return Report{}, err
	}

	loss := func() (float64, error) {
		out, err := lppool.Pool(backend, x, p)
		if err != nil {
			return 0, err
		}
		w := weights.AsFloat64()
		var sum float64
		for i, v := range out.AsFloat64() {
			sum += w[i] * v
		}
		return sum, nil
	}

	xs := x.AsFloat64()
	report := Report{
		Analytic: append([]float64(nil), gradInput.AsFloat64()...),
		Numeric:  make([]float64, len(xs)),
	}
	for i := range xs {
		orig := xs[i]

		xs[i] = orig + eps
		plus, err := loss()
		if err != nil {
			return Report{}, err
		}
		xs[i] = orig - eps
		minus, err := loss()
		if err != nil {
			return Report{}, err
		}
		xs[i] = orig

		report.Numeric[i] = (plus - minus) / (2 * eps)

		abs := math.Abs(report.Analytic[i] - report.Numeric[i])
		rel := abs / math.Max(1, math.Abs(report.Analytic[i])+math.Abs(report.Numeric[i]))
		report.MaxAbsError = math.Max(report.MaxAbsError, abs)
		if rel > report.MaxRelError {
			report.MaxRelError = rel
			report.Worst = i
		}
	}
	return report, nil
}
