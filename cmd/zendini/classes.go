package main

import (
	stdErrors "errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zendwasm/zendini/application/classes"
	"github.com/zendwasm/zendini/domain/errors"
)

var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "List the engine's well-known class entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		engine, inst, err := loadEngine(ctx, cmd)
		if err != nil {
			return err
		}
		defer engine.Close(ctx)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CLASS\tSYMBOL\tENTRY")
		for _, name := range classes.All() {
			sym, _ := name.Symbol()
			ptr, err := inst.Classes().Lookup(ctx, name)
			var nf *errors.ClassNotFoundError
			switch {
			case stdErrors.As(err, &nf):
				fmt.Fprintf(w, "%s\t%s\t-\n", name, sym)
			case err != nil:
				return err
			default:
				fmt.Fprintf(w, "%s\t%s\t0x%x\n", name, sym, uint32(ptr))
			}
		}
		return w.Flush()
	},
}

func init() {
	classesCmd.Flags().StringP("engine", "e", "", "Engine wasm binary")
	_ = classesCmd.MarkFlagRequired("engine")
	rootCmd.AddCommand(classesCmd)
}
