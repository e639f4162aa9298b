package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zendwasm/zendini/application/manifest"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate an ini manifest",
	Long: `Parse a manifest, check it against the manifest schema and build every
entry without touching an engine. All invalid entries are reported at once.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("manifest")
		m, defs, err := manifest.Load(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d entries for module %q (number %d)\n", path, len(defs), m.Module, m.ModuleNumber)
		for _, d := range defs {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", d)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringP("manifest", "m", "", "Manifest file (.yaml, .toml, .hcl)")
	_ = validateCmd.MarkFlagRequired("manifest")
	rootCmd.AddCommand(validateCmd)
}
