package main

import (
	"github.com/spf13/cobra"

	"cm/internal/fuzzy"
	"cm/internal/plan"
	"cm/internal/resolve"
)

// Known LLVM selections, used for abbreviation-free fuzzy canonicalization
// and shell completion. The domains are open: unknown values pass through to
// cmake untouched.
var (
	llvmProjects = []string{
		"bolt", "clang", "clang-tools-extra", "compiler-rt",
		"cross-project-tests", "flang", "libc", "libclc", "lld", "lldb",
		"mlir", "openmp", "polly", "pstl",
	}
	llvmRuntimes = []string{
		"compiler-rt", "libc", "libcxx", "libcxxabi", "libunwind",
		"llvm-libgcc", "offload", "openmp", "pstl",
	}
	llvmTargets = []string{
		"AArch64", "AMDGPU", "ARM", "AVR", "BPF", "Hexagon", "Lanai",
		"LoongArch", "MSP430", "Mips", "NVPTX", "PowerPC", "RISCV", "Sparc",
		"SystemZ", "VE", "WebAssembly", "X86", "XCore",
	}
)

var (
	prefixPathFlag      = resolve.NewOverridingList(nil)
	generatorFlag       string
	sharedLibsFlag      resolve.SettableBool
	sanFlag             resolve.SettableBool
	linkerFlag          = resolve.NewFuzzyString(fuzzy.New([]string{"lld", "gold", "mold", "bfd", "default"}, ""), "")
	expensiveChecksFlag resolve.SettableBool
	enableProjectsFlag  = resolve.NewOverridingList(fuzzy.New(llvmProjects, ""))
	enableRuntimesFlag  = resolve.NewOverridingList(fuzzy.New(llvmRuntimes, ""))
	targetsFlag         = resolve.NewOverridingList(fuzzy.New(llvmTargets, ""))
	noImplicitNative    resolve.SettableBool
	extraFlagsFlag      = resolve.NewOverridingList(nil)
)

var configureCmd = &cobra.Command{
	Use:     "configure [-- <cmake args>]",
	Aliases: []string{"c"},
	Short:   "CMake Configure",
	Long: `Configure the project from scratch: any existing CMakeCache.txt and
CMakeFiles under the binary directory are removed first, then cmake is
invoked with explicit values for everything cm has an opinion about.
Trailing arguments after -- are forwarded to cmake verbatim.`,
	RunE: runConfigure,
}

func init() {
	f := configureCmd.Flags()
	f.Var(prefixPathFlag, "prefix-path", "Set CMAKE_PREFIX_PATH (comma-separated, overrides previous occurrences)")
	f.StringVarP(&generatorFlag, "generator", "g", "Ninja", "CMake generator")
	resolve.RegisterSettableBool(f, &sharedLibsFlag, "shared-libs", "", true, "Set BUILD_SHARED_LIBS")
	resolve.RegisterSettableBool(f, &sanFlag, "san", "", false, "Enable ASan and UBSan")
	f.Var(linkerFlag, "linker", `Preferred linker; honored best-effort in LLVM quirks mode ("default" disables automatic selection)`)
	resolve.RegisterSettableBool(f, &expensiveChecksFlag, "expensive-checks", "", false, "Enable expensive checks")
	f.VarP(enableProjectsFlag, "enable-projects", "p", "Set LLVM_ENABLE_PROJECTS [default: llvm,clang,lld] (comma-separated)")
	f.VarP(enableRuntimesFlag, "enable-runtimes", "r", `Set LLVM_ENABLE_RUNTIMES [default: ""] (comma-separated)`)
	f.VarP(targetsFlag, "targets-to-build", "t", "Set LLVM_TARGETS_TO_BUILD [default: all]; any explicit target also enables the Native target")
	resolve.RegisterSettableBool(f, &noImplicitNative, "disable-implicit-native", "T", false, `Disable the implicit "Native" target in -t/--targets-to-build`)
	f.Var(extraFlagsFlag, "flag", "Extra compiler flags for CMAKE_C_FLAGS and CMAKE_CXX_FLAGS (comma-separated)")

	registerFlagValues(configureCmd, "linker", linkerFlag)
	registerFlagValues(configureCmd, "enable-projects", enableProjectsFlag)
	registerFlagValues(configureCmd, "enable-runtimes", enableRuntimesFlag)
	registerFlagValues(configureCmd, "targets-to-build", targetsFlag)

	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	ctx, err := invocationContext()
	if err != nil {
		return err
	}

	opts := plan.ConfigureOptions{
		PrefixPath:            prefixPathFlag.Values(),
		Generator:             generatorFlag,
		SharedLibs:            sharedLibsFlag.Value,
		San:                   sanFlag.Value,
		Linker:                linkerFlag.String(),
		ExpensiveChecks:       expensiveChecksFlag.Value,
		EnableProjects:        enableProjectsFlag.Values(),
		EnableRuntimes:        enableRuntimesFlag.Values(),
		TargetsToBuild:        targetsFlag.Values(),
		DisableImplicitNative: noImplicitNative.Value,
		ExtraFlags:            extraFlagsFlag.Values(),
		Args:                  args,
	}

	specs, err := plan.Configure(ctx, opts)
	if err != nil {
		return err
	}
	return runPlan(specs)
}
