package main

import (
	"github.com/spf13/cobra"

	"cm/internal/plan"
)

var buildCmd = &cobra.Command{
	Use:     "build [-- <build tool args>]",
	Aliases: []string{"b"},
	Short:   "CMake Build",
	Long: `Build the project via "cmake --build" over the resolved binary directory
and build config. Trailing arguments after -- are forwarded to the underlying
build tool verbatim.`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx, err := invocationContext()
	if err != nil {
		return err
	}
	return runPlan(plan.Build(ctx, args))
}
