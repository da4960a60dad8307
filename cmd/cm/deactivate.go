package main

import (
	"github.com/spf13/cobra"

	"cm/internal/plan"
)

var deactivateCmd = &cobra.Command{
	Use:     "deactivate",
	Aliases: []string{"d"},
	Short:   "Print shell commands to deactivate global options set via activate",
	Long: `Print shell statements that attempt to undo all of the effects of
"activate": the alias is removed, the previously prepended PATH segment is
stripped (best effort), and CM_SRC, CM_BIN and CM_CFG are unset.`,
	RunE: runDeactivate,
}

func init() {
	rootCmd.AddCommand(deactivateCmd)
}

func runDeactivate(cmd *cobra.Command, args []string) error {
	return runPlan(plan.Deactivate())
}
