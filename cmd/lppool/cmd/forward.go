package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/born-ml/lppool/internal/lppool"
	"github.com/born-ml/lppool/internal/tensorio"
)

func newForwardCommand(a *app) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "forward INPUT",
		Short: "Pool a tensor",
		Long: `Pool INPUT (a JSON or YAML tensor file, or - for JSON on stdin) and write
the result to --output, or to stdout as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := tensorio.Load(args[0])
			if err != nil {
				return err
			}

			backend, release, err := a.newBackend()
			if err != nil {
				return err
			}
			defer release()

			p := a.cfg.ToParams()
			output, err := lppool.Pool(backend, input, p)
			if err != nil {
				return err
			}
			slog.Info("forward complete",
				"backend", backend.Name(),
				"input", input.String(),
				"output", output.String(),
				"params", p.String())

			return writeTensor(cmd, outPath, output)
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default stdout)")
	return cmd
}
