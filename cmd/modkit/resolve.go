package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kbukum/modkit/module"
)

func newResolveCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the declared modules in bootstrap order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.load(cmd); err != nil {
				return err
			}
			p, err := module.NewPattern(a.cfg.Runtime.Namespace)
			if err != nil {
				return err
			}
			res := module.NewResolver(p, module.WithLogger(a.log.WithComponent("module"))).ResolveDetailed(a.view)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}

			if !a.view.Bool(a.cfg.Runtime.EnabledKey) {
				cmd.Printf("runtime disabled: %s is not true\n", a.cfg.Runtime.EnabledKey)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ORDER\tID\tFACTORY")
			for _, d := range res.Descriptors {
				fmt.Fprintf(w, "%d\t%s\t%s\n", d.Order, d.ID, d.FactoryRef)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			for _, order := range res.Ties {
				cmd.Printf("warning: order %d is declared by more than one module\n", order)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the resolution as JSON")
	return cmd
}
