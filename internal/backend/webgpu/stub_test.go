//go:build !windows

package webgpu

import (
	"errors"
	"testing"

	"github.com/born-ml/lppool/internal/lppool"
)

func TestNew_Unavailable(t *testing.T) {
	backend, err := New()
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("New() error = %v, want ErrUnavailable", err)
	}
	if backend != nil {
		t.Error("New() should return a nil backend")
	}
	if IsAvailable() {
		t.Error("IsAvailable() = true on a platform without WebGPU")
	}

	var stub Backend
	if err := stub.FeatureLPPoolForward(lppool.ForwardPass{}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("FeatureLPPoolForward error = %v", err)
	}
}
