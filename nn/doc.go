// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the feature Lp pooling layer and its functional form.
//
// # Overview
//
// Feature Lp pooling slides a window of Width consecutive features, Stride
// apart, along the feature axis and replaces each window by its Lp norm
//
//	out = (sum |x|^p)^(1/p)
//
// The feature axis is axis 0, or axis 1 in batch mode. Inputs have rank 1 to
// 3 without a batch axis and 2 to 4 with one.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/lppool/backend/cpu"
//	    "github.com/born-ml/lppool/nn"
//	    "github.com/born-ml/lppool/tensor"
//	)
//
//	func main() {
//	    pool := nn.NewFeatureLPPool(2, 1, 2, false, cpu.New())
//
//	    x, _ := tensor.FromSlice([]float32{3, 4, 0, 0, 5}, tensor.Shape{5})
//	    y, _ := pool.UpdateOutput(x)                  // [5 4 0 5]
//
//	    g, _ := tensor.FromSlice([]float32{1, 0, 0, 1}, tensor.Shape{4})
//	    dx, _ := pool.UpdateGradInput(x, g)           // [0.6 0.8 0 0 1]
//	}
//
// # Errors
//
// Invalid parameters or shapes return an *Error whose Kind can be matched
// with errors.Is against the Err sentinels:
//
//	if errors.Is(err, nn.ErrWidthOutOfRange) { ... }
package nn
