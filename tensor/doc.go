// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense tensors consumed and produced by Lp
// pooling.
//
// # Overview
//
// A RawTensor is a row-major buffer of float32 or float64 values with a
// shape of rank 1 to 4. Its buffer can be larger than the current shape so a
// layer can resize its output between calls without reallocating.
//
// # Basic Usage
//
//	import "github.com/born-ml/lppool/tensor"
//
//	func main() {
//	    x, err := tensor.FromSlice([]float32{3, 4, 0, 0, 5}, tensor.Shape{5})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(x)              // float32[5]
//	    fmt.Println(x.AsFloat32())  // [3 4 0 0 5]
//	}
//
// # Supported Data Types
//
//   - Float32 (default for documents without a dtype)
//   - Float64
//
// # Device Support
//
//   - CPU: always available
//   - WebGPU: float32 only, Windows
package tensor
