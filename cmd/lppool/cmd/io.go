package cmd

import (
	"github.com/spf13/cobra"

	"github.com/born-ml/lppool/internal/tensor"
	"github.com/born-ml/lppool/internal/tensorio"
)

// writeTensor saves r to path, or writes JSON to the command's stdout when
// path is empty.
func writeTensor(cmd *cobra.Command, path string, r *tensor.RawTensor) error {
	if path == "" || path == "-" {
		return tensorio.WriteTensor(cmd.OutOrStdout(), tensorio.JSON, r)
	}
	return tensorio.Save(path, r)
}
