// Command lppool runs feature Lp pooling from the command line or as an
// HTTP service.
package main

import (
	"os"

	"github.com/born-ml/lppool/cmd/lppool/cmd"
)

func main() {
	if err := cmd.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
