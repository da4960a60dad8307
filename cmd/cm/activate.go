package main

import (
	"github.com/spf13/cobra"

	"cm/internal/plan"
)

var activateCmd = &cobra.Command{
	Use:     "activate",
	Aliases: []string{"a"},
	Short:   "Print shell commands to activate a set of global options",
	Long: `Print shell statements that pin the current global options: CM_SRC,
CM_BIN and CM_CFG are exported (with source and binary paths made absolute),
the "bin" subdirectory of the binary path is prepended to PATH, and a "cm"
alias carries the pinned values. Intended to be evaluated by the shell:

    eval $(cm -s src -b bin -c debug activate)`,
	RunE: runActivate,
}

func init() {
	rootCmd.AddCommand(activateCmd)
}

func runActivate(cmd *cobra.Command, args []string) error {
	ctx, err := invocationContext()
	if err != nil {
		return err
	}
	specs, err := plan.Activate(ctx)
	if err != nil {
		return err
	}
	return runPlan(specs)
}
