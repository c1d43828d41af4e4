package lppool

import (
	"fmt"

	"github.com/born-ml/lppool/internal/tensor"
)

// Canonical axis positions.
const (
	AxisBatch = iota
	AxisFeature
	AxisExtra1
	AxisExtra2
)

// noAxis marks a canonical slot that the source tensor does not have.
const noAxis = -1

// axisMaps gives, for each (batchMode, rank), the source axis feeding each
// canonical slot [batch, feature, extra1, extra2].
var axisMaps = map[bool]map[int][4]int{
	false: {
		1: {noAxis, 0, noAxis, noAxis}, // [feature]
		2: {noAxis, 0, 1, noAxis},      // [feature][extra1]
		3: {noAxis, 0, 1, 2},           // [feature][extra1][extra2]
	},
	true: {
		2: {0, 1, noAxis, noAxis}, // [batch][feature]
		3: {0, 1, 2, noAxis},      // [batch][feature][extra1]
		4: {0, 1, 2, 3},           // [batch][feature][extra1][extra2]
	},
}

// Canonical is the 4-axis shape of a normalized tensor together with the
// strides that address it inside the source tensor's storage. Inserted axes
// have extent 1 and stride 0.
type Canonical struct {
	Dims    [4]int
	Strides [4]int
}

// NumElements returns the number of elements addressed by c.
func (c Canonical) NumElements() int {
	return c.Dims[0] * c.Dims[1] * c.Dims[2] * c.Dims[3]
}

// FeatureAxis returns the source-tensor axis that carries features.
func FeatureAxis(batchMode bool) int {
	if batchMode {
		return 1
	}
	return 0
}

// rankRangeMessage describes the ranks accepted for a batch mode.
func rankRangeMessage(batchMode bool) string {
	if batchMode {
		return "batch mode: tensor must have 2-4 dimensions"
	}
	return "non-batch mode: tensor must have 1-3 dimensions"
}

// Normalize maps a shape of rank 1-4 to its canonical 4-axis form. It fails
// with KindUnsupportedRank when the rank does not fit batchMode.
func Normalize(shape tensor.Shape, strides []int, batchMode bool) (Canonical, error) {
	axes, ok := axisMaps[batchMode][len(shape)]
	if !ok {
		return Canonical{}, fmt.Errorf("%w: got %d dimensions (%s)",
			ErrUnsupportedRank, len(shape), rankRangeMessage(batchMode))
	}
	if strides == nil {
		strides = shape.ComputeStrides()
	}

	var c Canonical
	for slot, src := range axes {
		if src == noAxis {
			c.Dims[slot] = 1
			continue
		}
		c.Dims[slot] = shape[src]
		c.Strides[slot] = strides[src]
	}
	return c, nil
}

// View is a canonical 4-axis window onto a tensor's storage. It never owns
// the memory it addresses.
type View[T tensor.Float] struct {
	Data []T
	Canonical
}

// mustNormalize is Normalize for tensors that validation has already accepted.
func mustNormalize(r *tensor.RawTensor, batchMode bool) Canonical {
	c, err := Normalize(r.Shape(), r.Strides(), batchMode)
	if err != nil {
		panic(fmt.Sprintf("lppool: canonical view of validated tensor %v failed: %v", r, err))
	}
	return c
}

// Offset returns the storage index of canonical coordinate (b, f, e1, e2).
func (c Canonical) Offset(b, f, e1, e2 int) int {
	return b*c.Strides[0] + f*c.Strides[1] + e1*c.Strides[2] + e2*c.Strides[3]
}

// Coord decodes a flat row-major index over Dims into canonical coordinates.
func (c Canonical) Coord(i int) (b, f, e1, e2 int) {
	e2 = i % c.Dims[3]
	i /= c.Dims[3]
	e1 = i % c.Dims[2]
	i /= c.Dims[2]
	f = i % c.Dims[1]
	b = i / c.Dims[1]
	return b, f, e1, e2
}

// At returns the element at canonical coordinate (b, f, e1, e2).
func (v View[T]) At(b, f, e1, e2 int) T {
	return v.Data[v.Offset(b, f, e1, e2)]
}

// Set stores x at canonical coordinate (b, f, e1, e2).
func (v View[T]) Set(b, f, e1, e2 int, x T) {
	v.Data[v.Offset(b, f, e1, e2)] = x
}
