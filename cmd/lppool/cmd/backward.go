package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/born-ml/lppool/internal/lppool"
	"github.com/born-ml/lppool/internal/tensor"
	"github.com/born-ml/lppool/internal/tensorio"
)

func newBackwardCommand(a *app) *cobra.Command {
	var inputPath, outputPath, gradOutputPath, outPath string

	cmd := &cobra.Command{
		Use:   "backward",
		Short: "Compute the input gradient of a pooling pass",
		Long: `Compute the gradient with respect to --input given --grad-output.

--forward-output is the result of "lppool forward" on the same input and
parameters. When it is omitted the forward pass is recomputed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := tensorio.Load(inputPath)
			if err != nil {
				return err
			}
			gradOutput, err := tensorio.Load(gradOutputPath)
			if err != nil {
				return err
			}

			backend, release, err := a.newBackend()
			if err != nil {
				return err
			}
			defer release()

			p := a.cfg.ToParams()
			var output *tensor.RawTensor
			if outputPath != "" {
				if output, err = tensorio.Load(outputPath); err != nil {
					return err
				}
			} else if output, err = lppool.Pool(backend, input, p); err != nil {
				return err
			}

			gradInput, err := lppool.Gradient(backend, gradOutput, input, output, p)
			if err != nil {
				return err
			}
			slog.Info("backward complete",
				"backend", backend.Name(),
				"input", input.String(),
				"params", p.String())

			return writeTensor(cmd, outPath, gradInput)
		},
	}
	cmd.Flags().StringVar(&inputPath, "input", "", "input tensor file")
	cmd.Flags().StringVar(&gradOutputPath, "grad-output", "", "gradient with respect to the output")
	cmd.Flags().StringVar(&outputPath, "forward-output", "", "forward output tensor file (recomputed if empty)")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "gradient output file (default stdout)")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("grad-output")
	return cmd
}
