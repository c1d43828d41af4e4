// Package cmd implements the lppool command tree.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/born-ml/lppool/internal/backend/cpu"
	"github.com/born-ml/lppool/internal/backend/webgpu"
	"github.com/born-ml/lppool/internal/config"
	"github.com/born-ml/lppool/internal/lppool"
)

// app carries state shared by every subcommand of one root command.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
}

// NewRootCommand builds the lppool command tree with its own viper instance.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "lppool",
		Short: "Feature Lp pooling over 1-4 dimensional tensors",
		Long: `lppool computes the Lp norm of overlapping windows of consecutive features
and its exact gradient.

Tensors are JSON or YAML documents of the form {dtype, shape, data}.

Examples:
  lppool forward input.json --width 2 --stride 1 --power 2
  lppool backward --input input.json --grad-output grad.json -o grad_input.json
  lppool gradcheck --shape 2,8,3 --batch-mode
  lppool serve --port 8080`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is search in ., $HOME, $XDG_CONFIG_HOME/lppool, /etc/lppool)")
	flags.BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("backend", config.BackendCPU, "compute backend (cpu, webgpu)")
	flags.Int("workers", 0, "CPU worker goroutines (0 = number of CPUs)")
	flags.Int("width", 2, "window width along the feature axis")
	flags.Int("stride", 1, "step between windows")
	flags.Float64("power", 2, "exponent p of the Lp norm")
	flags.Bool("batch-mode", false, "treat axis 0 as a batch axis")
	flags.Bool("verify-output", false, "check in backward that output matches a fresh forward pass")

	for key, name := range map[string]string{
		"verbose":              "verbose",
		"log_level":            "log-level",
		"backend":              "backend",
		"parallel.num_workers": "workers",
		"pool.width":           "width",
		"pool.stride":          "stride",
		"pool.power":           "power",
		"pool.batch_mode":      "batch-mode",
		"pool.verify_output":   "verify-output",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(name))
	}

	rootCmd.AddCommand(
		newForwardCommand(a),
		newBackwardCommand(a),
		newGradcheckCommand(a),
		newServeCommand(a),
		newVersionCommand(),
	)
	return rootCmd
}

// setup loads configuration and installs the default logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.NewLoaderWithViper(a.v).Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	a.cfg = cfg

	slog.SetDefault(newLogger(cmd.ErrOrStderr(), cfg))
	if used := a.v.ConfigFileUsed(); used != "" {
		slog.Debug("configuration loaded", "file", used)
	}
	return nil
}

// newLogger returns a JSON logger at the configured level.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	var level slog.Level
	if cfg.Verbose {
		level = slog.LevelDebug
	} else {
		switch cfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// newBackend creates the configured backend. WebGPU falls back to the CPU
// backend when no adapter is available. The returned function releases it.
func (a *app) newBackend() (lppool.Backend, func(), error) {
	cpuBackend := cpu.NewWithConfig(a.cfg.ToParallelConfig())
	if a.cfg.Backend != config.BackendWebGPU {
		return cpuBackend, func() {}, nil
	}

	gpu, err := webgpu.New()
	if err != nil {
		if errors.Is(err, webgpu.ErrUnavailable) {
			slog.Warn("WebGPU unavailable, falling back to CPU", "error", err)
			return cpuBackend, func() {}, nil
		}
		return nil, nil, err
	}
	return gpu, gpu.Release, nil
}
