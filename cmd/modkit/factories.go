package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/modkit/factory"
)

func newFactoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "factories",
		Short: "List the factory references modules can be declared with",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range factory.Default.Names() {
				cmd.Println(name)
			}
		},
	}
}
