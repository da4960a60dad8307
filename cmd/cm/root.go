package main

import (
	"github.com/spf13/cobra"

	"cm/internal/fuzzy"
	"cm/internal/logging"
	"cm/internal/plan"
	"cm/internal/quirks"
	"cm/internal/resolve"
	"cm/internal/runner"
	"cm/internal/version"
)

var logger = logging.NewLogger(logging.Config{
	Format: logging.HumanFormat,
	Level:  logging.InfoLevel,
})

var (
	sourceFlag string
	binaryFlag string
	configFlag = resolve.NewFuzzyString(
		fuzzy.New([]string{"Release", "Debug", "RelWithDebInfo", "MinSizeRel"}, ""),
		"RelWithDebInfo")
	quirksFlag string
	dryRunFlag resolve.SettableBool
)

var rootCmd = &cobra.Command{
	Use:   "cm",
	Short: "Frontend for configuring/building/testing CMake projects",
	Long: `cm provides a subcommand-based interface with saner defaults for working
with CMake projects, with special support for LLVM.

All subcommands share a common interface for specifying the source (-s/--source)
and binary (-b/--binary) paths, as well as the config (-c/--config). Typical
usage leaves a shell parked at the top level of the project:

    cm configure      # default values for --source, --binary, and --config
    cm build
    cm l -g llvm      # run a test group (subcommands can be abbreviated)
    cm l              # re-run the tests recorded as failing

Global configuration is read from a file named "cm.rc" in the platform user
config directory. Set CM_CONFIG_PATH to read another file instead, or to the
empty string to disable the file. The file is line-based: '#' starts a
comment, lines starting with '-' are arguments taken verbatim, and any other
line names a subcommand that scopes the arguments below it.

Options are resolved with later-wins precedence: config file, then
environment variables (CM_SRC, CM_BIN, CM_CFG, CM_QUIRKS), then command-line
options. Boolean flags have explicit --flag=false forms so configured
defaults can always be overridden on the command line.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&sourceFlag, "source", "s", "", `CMake source directory (default ".", or "llvm" in LLVM quirks mode)`)
	pf.StringVarP(&binaryFlag, "binary", "b", "", `CMake binary directory (default "build")`)
	pf.VarP(configFlag, "config", "c", "CMake build config")
	pf.StringVarP(&quirksFlag, "quirks", "q", "", "Disable quirks-mode detection and specify one explicitly (none, llvm)")
	resolve.RegisterSettableBool(pf, &dryRunFlag, "dry-run", "n", false, "Perform a dry run, only printing the generated command lines")

	registerFlagValues(rootCmd, "config", configFlag)
}

// registerFlagValues wires a fuzzy matcher's known values into cobra's shell
// completion for the flag.
func registerFlagValues(cmd *cobra.Command, name string, value interface{ Completions() []string }) {
	_ = cmd.RegisterFlagCompletionFunc(name,
		func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return value.Completions(), cobra.ShellCompDirectiveNoFileComp
		})
}

// invocationContext applies the quirks heuristic and path defaults to the
// resolved global options.
func invocationContext() (plan.Context, error) {
	mode := quirks.None
	if quirksFlag != "" {
		var err error
		mode, err = quirks.Parse(quirksFlag)
		if err != nil {
			return plan.Context{}, err
		}
	} else {
		detectAt := sourceFlag
		if detectAt == "" {
			detectAt = "."
		}
		mode = quirks.Detect(detectAt)
	}

	source := sourceFlag
	if source == "" {
		if mode == quirks.LLVM {
			source = "llvm"
		} else {
			source = "."
		}
	}
	binary := binaryFlag
	if binary == "" {
		binary = "build"
	}

	return plan.Context{
		Source: source,
		Binary: binary,
		Config: configFlag.String(),
		Quirks: mode,
		Prober: plan.ExecProber{},
		Logger: logger,
	}, nil
}

// runPlan executes (or dry-prints) the planned commands in order.
func runPlan(specs []plan.Spec) error {
	r := &runner.Runner{DryRun: dryRunFlag.Value}
	return r.Run(specs)
}
