// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for feature Lp pooling.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Float32 and Float64 support
//   - Work split across goroutines by output or input element
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/lppool/backend/cpu"
//	    "github.com/born-ml/lppool/nn"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    pool := nn.NewFeatureLPPool(2, 1, 2, false, backend)
//	}
//
// # Performance
//
// Small tensors run on the calling goroutine. Set NumWorkers to 1 for fully
// sequential execution; results are identical either way.
package cpu
