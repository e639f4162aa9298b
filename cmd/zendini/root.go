package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zendwasm/zendini/domain/errors"
	"github.com/zendwasm/zendini/host"
	"github.com/zendwasm/zendini/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "zendini",
	Short: "Register PHP ini entries with a WebAssembly Zend engine",
	Long: `zendini - Declare PHP ini entries in YAML, TOML or HCL and register them
with a Zend engine compiled to WebAssembly.

Manifests are validated before the engine is touched. Registration hands the
entry array to the engine, which owns it from then on.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		format, _ := cmd.Flags().GetString("log-format")
		l, err := logger.New(level, format)
		if err != nil {
			return fmt.Errorf("invalid logging flags: %w", err)
		}
		logger.SetLogger(l)
		return nil
	},
}

// engineOptions and onLoad let tests serve the engine's imports.
var (
	engineOptions []host.Option
	onLoad        = func(*host.Instance) {}
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		d := errors.ToErrorDetail(err)
		fmt.Fprintf(os.Stderr, "error: %s\n", d.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "console", "Log format: console, json")
}

// loadEngine reads and instantiates the engine binary named by --engine.
func loadEngine(ctx context.Context, cmd *cobra.Command) (*host.Engine, *host.Instance, error) {
	path, _ := cmd.Flags().GetString("engine")
	wasm, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read engine: %w", err)
	}

	opts := append([]host.Option{host.WithLogger(logger.Logger())}, engineOptions...)
	engine, err := host.NewEngine(ctx, opts...)
	if err != nil {
		return nil, nil, err
	}
	inst, err := engine.Load(ctx, wasm)
	if err != nil {
		engine.Close(ctx)
		return nil, nil, err
	}
	onLoad(inst)
	return engine, inst, nil
}
