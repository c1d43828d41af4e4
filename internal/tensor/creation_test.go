package tensor

import (
	"math"
	"math/rand"
	"testing"
)

func TestFromSlice(t *testing.T) {
	data := []float32{1, 2, 3, 4, 5, 6}
	raw, err := FromSlice(data, Shape{2, 3})
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	if raw.DType() != Float32 {
		t.Errorf("DType = %v, want float32", raw.DType())
	}

	data[0] = 100
	if raw.AsFloat32()[0] != 1 {
		t.Error("FromSlice should copy the input")
	}

	if _, err := FromSlice([]float64{1, 2}, Shape{3}); err == nil {
		t.Error("FromSlice with a mismatched length should fail")
	}
}

func TestRandn(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	raw, err := Randn[float64](Shape{100, 50}, rng)
	if err != nil {
		t.Fatalf("Randn failed: %v", err)
	}

	var sum float64
	nonZero := 0
	for _, v := range raw.AsFloat64() {
		sum += v
		if v != 0 {
			nonZero++
		}
	}
	if nonZero < raw.NumElements()/2 {
		t.Errorf("Randn should produce mostly non-zero values, got %d of %d", nonZero, raw.NumElements())
	}
	if mean := sum / float64(raw.NumElements()); mean > 0.1 || mean < -0.1 {
		t.Errorf("mean = %v, want close to 0", mean)
	}
}

func TestFloat64sAndFromFloat64s(t *testing.T) {
	raw, err := FromFloat64s([]float64{0.5, -1.25, 3}, Shape{3}, Float32)
	if err != nil {
		t.Fatalf("FromFloat64s failed: %v", err)
	}
	if raw.DType() != Float32 {
		t.Fatalf("DType = %v, want float32", raw.DType())
	}

	got := Float64s(raw)
	want := []float64{0.5, -1.25, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Float64s()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	got[0] = 7
	if raw.AsFloat32()[0] != 0.5 {
		t.Error("Float64s should return a copy")
	}

	if _, err := FromFloat64s(want, Shape{3}, DataType(9)); err == nil {
		t.Error("FromFloat64s with an unknown dtype should fail")
	}
}

func TestValues(t *testing.T) {
	raw, _ := FromSlice([]float64{1, 2}, Shape{2})
	Values[float64](raw)[1] = 5
	if raw.AsFloat64()[1] != 5 {
		t.Error("Values should share storage")
	}
}

func TestFromSlice_RejectsOverflowingShape(t *testing.T) {
	// 4 * 2^62 wraps to 0 and would match the empty slice.
	huge := Shape{4, math.MaxInt/4 + 1}
	if _, err := FromSlice([]float32{}, huge); err == nil {
		t.Fatalf("FromSlice(%v) succeeded, want error", huge)
	}
	if _, err := FromFloat64s(nil, huge, Float32); err == nil {
		t.Fatalf("FromFloat64s(%v) succeeded, want error", huge)
	}
}
