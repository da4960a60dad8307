package main

import (
	"errors"

	"github.com/spf13/cobra"

	"cm/internal/fuzzy"
	"cm/internal/plan"
	"cm/internal/resolve"
	"cm/internal/resultdb"
)

var (
	litPrintOnly   resolve.SettableBool
	litXfailExport resolve.SettableBool
	litUpdate      resolve.SettableBool
	litGroup       = resolve.NewFuzzyString(fuzzy.New([]string{"all", "llvm", "clang", "lld"}, "check-"), "")
	litFirst       resolve.SettableBool
	litVerbose     resolve.SettableBool
)

var litCmd = &cobra.Command{
	Use:     "lit [TESTS...] [-- <llvm-lit args>]",
	Aliases: []string{"l"},
	Short:   "llvm-lit",
	Long: `Run tests through llvm-lit (and cmake --build, to implement the
-g/--group flag).

The subcommand optionally ensures that a ResultDB file called "lit.json" is
written to the binary path when tests are run, allowing subsequent runs to
recall which tests failed. With no arguments or flags specifying which tests
to run, all tests marked as failed in the ResultDB are run. Repeatedly
invoking the subcommand thus incrementally resolves tests as the ResultDB is
updated, until the failing list is empty. This behavior is controlled by
-u/--update-resultdb, which defaults to true unless a particular subset of
tests is specified (via -1/--first or TESTS arguments): focusing on specific
failing tests does not lose track of the remaining ones, and a full run
records newly passing tests.

The -- separator is mandatory before verbatim llvm-lit arguments, which is
inconsistent with configure and build; the compromise makes explicit passing
of TESTS more ergonomic, with no flags or separators in the default case.`,
	RunE: runLit,
}

func init() {
	f := litCmd.Flags()
	resolve.RegisterSettableBool(f, &litPrintOnly, "print-only", "p", false, "Print tests that would be run")
	resolve.RegisterSettableBool(f, &litXfailExport, "xfail-export", "x", false, "Print a command line which exports LIT_XFAIL to the tests that would be run")
	resolve.RegisterSettableBool(f, &litUpdate, "update-resultdb", "u", true, "Update the ResultDB file (defaults to false when -1/--first or TESTS are given)")
	f.VarP(litGroup, "group", "g", `Run the named LLVM "check-*" test group (the check- prefix can be omitted for known groups)`)
	resolve.RegisterSettableBool(f, &litFirst, "first", "1", false, "Only consider at most the first failing test in the ResultDB")
	resolve.RegisterSettableBool(f, &litVerbose, "verbose", "v", false, "Be as verbose as possible, asking FileCheck to dump its input")

	registerFlagValues(litCmd, "group", litGroup)

	rootCmd.AddCommand(litCmd)
}

func runLit(cmd *cobra.Command, args []string) error {
	ctx, err := invocationContext()
	if err != nil {
		return err
	}

	// Split positionals into explicit tests and the verbatim tail after --.
	tests := args
	var tail []string
	if at := cmd.ArgsLenAtDash(); at >= 0 {
		tests = args[:at]
		tail = args[at:]
	}

	// --group, --first and TESTS are alternative ways to select what runs.
	selectors := 0
	if litGroup.String() != "" {
		selectors++
	}
	if litFirst.Value {
		selectors++
	}
	if len(tests) > 0 {
		selectors++
	}
	if selectors > 1 {
		return errors.New("only one of --group, --first, or TESTS may be used")
	}

	update := litUpdate.Value
	if !cmd.Flags().Changed("update-resultdb") {
		update = resultdb.UpdateDefault(tests, litFirst.Value)
	}

	specs, err := plan.Lit(ctx, plan.LitOptions{
		PrintOnly:      litPrintOnly.Value,
		XfailExport:    litXfailExport.Value,
		UpdateResultDB: update,
		Group:          litGroup.String(),
		First:          litFirst.Value,
		Verbose:        litVerbose.Value,
		Tests:          tests,
		Args:           tail,
	})
	if err != nil {
		return err
	}
	return runPlan(specs)
}
