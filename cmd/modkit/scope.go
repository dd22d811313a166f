package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/modkit/module"
	"github.com/kbukum/modkit/util"
)

func newScopeCmd(a *app) *cobra.Command {
	var reveal bool
	cmd := &cobra.Command{
		Use:   "scope <module-id>",
		Short: "Print the configuration a module is built with",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := module.ValidateID(args[0]); err != nil {
				return err
			}
			if err := a.load(cmd); err != nil {
				return err
			}
			p, err := module.NewPattern(a.cfg.Runtime.Namespace)
			if err != nil {
				return err
			}
			scoped := p.WithEnabledKey(a.cfg.Runtime.EnabledKey).Scope(a.view, args[0])
			for _, k := range scoped.Keys() {
				v := scoped.Get(k)
				if !reveal && util.IsSensitiveKey(k) {
					v = util.MaskSecret(v, 0)
				}
				cmd.Printf("%s=%s\n", k, v)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&reveal, "reveal", false, "print secret values instead of masking them")
	return cmd
}
