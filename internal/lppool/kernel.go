package lppool

import (
	"math"

	"github.com/born-ml/lppool/internal/tensor"
)

// powAbs returns |v|^p with exact fast paths for the common norms.
func powAbs(v, p float64) float64 {
	a := math.Abs(v)
	switch p {
	case 1:
		return a
	case 2:
		return a * a
	default:
		return math.Pow(a, p)
	}
}

// root returns acc^(1/p).
func root(acc, p float64) float64 {
	switch p {
	case 1:
		return acc
	case 2:
		return math.Sqrt(acc)
	default:
		return math.Pow(acc, 1/p)
	}
}

// ForwardAt computes the Lp norm of the window feeding output position
// (b, y, e1, e2). It reads only that window.
func ForwardAt[T tensor.Float](in View[T], b, y, e1, e2 int, p Params) T {
	start := y * p.Stride
	var acc float64
	for i := 0; i < p.Width; i++ {
		acc += powAbs(float64(in.At(b, start+i, e1, e2)), p.Power)
	}
	return T(root(acc, p.Power))
}

// BackwardAt computes the gradient for input position (b, x, e1, e2) by
// gathering the contribution of every window that covers it. The previously
// computed output is used in place of the window sum.
func BackwardAt[T tensor.Float](gradOut, in, out View[T], b, x, e1, e2 int, p Params) T {
	v := float64(in.At(b, x, e1, e2))
	if v == 0 {
		// sign(0) == 0; also avoids 0^(p-1) = Inf for p < 1.
		return 0
	}

	first, last := WindowsCovering(x, p.Width, p.Stride, out.Dims[AxisFeature])
	var sum float64
	for y := first; y < last; y++ {
		o := float64(out.At(b, y, e1, e2))
		if o == 0 {
			continue
		}
		g := float64(gradOut.At(b, y, e1, e2))
		if p.Power == 1 {
			sum += g
			continue
		}
		sum += g * math.Pow(o, 1-p.Power)
	}
	if sum == 0 {
		return 0
	}

	local := math.Copysign(1, v)
	if p.Power != 1 {
		local *= math.Pow(math.Abs(v), p.Power-1)
	}
	return T(local * sum)
}

// ForwardRange fills the output cells with flat row-major indices in
// [start, end). Disjoint ranges may run concurrently.
func ForwardRange[T tensor.Float](in, out View[T], p Params, start, end int) {
	for i := start; i < end; i++ {
		b, y, e1, e2 := out.Coord(i)
		out.Set(b, y, e1, e2, ForwardAt(in, b, y, e1, e2, p))
	}
}

// BackwardRange fills the gradInput cells with flat row-major indices in
// [start, end). Disjoint ranges may run concurrently.
func BackwardRange[T tensor.Float](gradOut, in, out, gradIn View[T], p Params, start, end int) {
	for i := start; i < end; i++ {
		b, x, e1, e2 := gradIn.Coord(i)
		gradIn.Set(b, x, e1, e2, BackwardAt(gradOut, in, out, b, x, e1, e2, p))
	}
}
