package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zendwasm/zendini/application/manifest"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a manifest's ini entries with an engine",
	Long: `Load a Zend engine compiled to WebAssembly and register every entry of the
manifest in one call. The module number comes from the manifest unless
--module-number is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		path, _ := cmd.Flags().GetString("manifest")

		m, _, err := manifest.Load(path)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("module-number") {
			m.ModuleNumber, _ = cmd.Flags().GetInt32("module-number")
		}

		engine, inst, err := loadEngine(ctx, cmd)
		if err != nil {
			return err
		}
		defer engine.Close(ctx)

		h, err := inst.RegisterManifest(ctx, m)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "registered %d entries for module %d at 0x%x\n", h.Count()-1, m.ModuleNumber, h.Addr())
		return nil
	},
}

func init() {
	registerCmd.Flags().StringP("engine", "e", "", "Engine wasm binary")
	registerCmd.Flags().StringP("manifest", "m", "", "Manifest file (.yaml, .toml, .hcl)")
	registerCmd.Flags().Int32("module-number", 0, "Override the manifest module number")
	_ = registerCmd.MarkFlagRequired("engine")
	_ = registerCmd.MarkFlagRequired("manifest")
	rootCmd.AddCommand(registerCmd)
}
