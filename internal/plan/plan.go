package plan

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"

	"cm/internal/logging"
	"cm/internal/quirks"
	"cm/internal/resultdb"
)

// Context carries the invocation-wide resolved state every planner needs.
type Context struct {
	Source string
	Binary string
	Config string
	Quirks quirks.Mode
	Prober Prober
	Logger *logging.Logger
}

// ConfigureOptions are the resolved options of the configure subcommand.
// Nil list fields mean "not specified" and select the documented defaults.
type ConfigureOptions struct {
	PrefixPath            []string
	Generator             string
	SharedLibs            bool
	San                   bool
	Linker                string
	ExpensiveChecks       bool
	EnableProjects        []string
	EnableRuntimes        []string
	TargetsToBuild        []string
	DisableImplicitNative bool
	ExtraFlags            []string
	Args                  []string
}

// Default selections for the LLVM list-valued cache variables.
const (
	DefaultProjects = "llvm;clang;lld"
	DefaultRuntimes = ""
	DefaultTargets  = "all"
)

// Configure plans a fresh cmake configure: the stale cache is removed first,
// then cmake is invoked with explicit values for everything cm has an
// opinion about so the result does not depend on cache history.
func Configure(ctx Context, opts ConfigureOptions) ([]Spec, error) {
	rm := Command("rm", "-rf",
		filepath.Join(ctx.Binary, "CMakeCache.txt"),
		filepath.Join(ctx.Binary, "CMakeFiles"))

	args := []string{
		"-S", ctx.Source,
		"-B", ctx.Binary,
		"-G", opts.Generator,
		"-DCMAKE_BUILD_TYPE=" + ctx.Config,
		"-DCMAKE_PREFIX_PATH=" + strings.Join(opts.PrefixPath, ";"),
		"-DCMAKE_INSTALL_PREFIX=dist",
		"-DCMAKE_EXPORT_COMPILE_COMMANDS=On",
		"-DBUILD_SHARED_LIBS=" + onOff(opts.SharedLibs),
	}
	var flags []string

	if ctx.Quirks == quirks.LLVM {
		args = append(args,
			"-DLLVM_ENABLE_ASSERTIONS=On",
			"-DLLVM_OPTIMIZED_TABLEGEN=On")
		if ok, err := ctx.Prober.HasCommand("sphinx-build"); err != nil {
			return nil, err
		} else if ok {
			args = append(args, "-DLLVM_ENABLE_SPHINX=On")
		}
		linker, err := selectLinker(ctx, opts.Linker)
		if err != nil {
			return nil, err
		}
		if linker != "" {
			args = append(args, "-DLLVM_USE_LINKER="+linker)
		}
	}

	if ok, err := ctx.Prober.HasCommand("ccache"); err != nil {
		return nil, err
	} else if ok {
		if ctx.Quirks == quirks.LLVM {
			args = append(args, "-DLLVM_CCACHE_BUILD=On")
		} else {
			args = append(args,
				"-DCMAKE_C_COMPILER_LAUNCHER=ccache",
				"-DCMAKE_CXX_COMPILER_LAUNCHER=ccache")
		}
	}

	if ok, err := ctx.Prober.HasCCFlag("-fcolor-diagnostics"); err != nil {
		return nil, err
	} else if ok {
		flags = append(flags, "-fcolor-diagnostics")
	}

	if opts.San {
		if ctx.Quirks == quirks.LLVM {
			args = append(args,
				"-DLLVM_USE_SANITIZER=Address;Undefined",
				"-DLLVM_USE_SANITIZE_COVERAGE=Yes")
		} else {
			flags = append(flags, "-fsanitize=address,undefined")
		}
	}

	if opts.ExpensiveChecks {
		args = append(args,
			"-DLLVM_ENABLE_EXPENSIVE_CHECKS=On",
			"-DLLVM_ENABLE_WERROR=Off")
	}

	args = append(args,
		"-DLLVM_ENABLE_PROJECTS="+listOrDefault(opts.EnableProjects, DefaultProjects),
		"-DLLVM_ENABLE_RUNTIMES="+listOrDefault(opts.EnableRuntimes, DefaultRuntimes),
		"-DLLVM_TARGETS_TO_BUILD="+targetList(opts))

	flags = append(flags, opts.ExtraFlags...)
	joined := strings.Join(flags, " ")
	args = append(args,
		"-DCMAKE_C_FLAGS="+joined+inheritedFlags("CFLAGS", joined),
		"-DCMAKE_CXX_FLAGS="+joined+inheritedFlags("CXXFLAGS", joined))

	args = append(args, opts.Args...)
	return []Spec{rm, Command("cmake", args...)}, nil
}

// selectLinker resolves the --linker option against the probe results.
// "default" explicitly disables automatic selection; an unset value tries
// lld then gold, working around impractically slow system linkers for debug
// builds of LLVM. An explicitly named linker is gated on the compiler flag
// probe alone, since linkers often install under names the flag does not
// use (ld.bfd, ld.gold).
func selectLinker(ctx Context, explicit string) (string, error) {
	switch explicit {
	case "default":
		return "", nil
	case "":
	default:
		ok, err := ctx.Prober.HasCCFlag("-fuse-ld=" + explicit)
		if err != nil || !ok {
			return "", err
		}
		return explicit, nil
	}
	for _, linker := range []string{"lld", "gold"} {
		ok, err := ctx.Prober.HasCommand(linker)
		if err != nil {
			return "", err
		}
		if !ok {
			continue
		}
		ok, err = ctx.Prober.HasCCFlag("-fuse-ld=" + linker)
		if err != nil {
			return "", err
		}
		if ok {
			return linker, nil
		}
	}
	return "", nil
}

func onOff(b bool) string {
	if b {
		return "On"
	}
	return "Off"
}

func listOrDefault(values []string, fallback string) string {
	if values == nil {
		return fallback
	}
	return strings.Join(values, ";")
}

// targetList joins the explicit targets, implicitly adding the host-native
// target unless suppressed. With no explicit targets the default set is used
// as-is.
func targetList(opts ConfigureOptions) string {
	if opts.TargetsToBuild == nil {
		return DefaultTargets
	}
	targets := opts.TargetsToBuild
	if !opts.DisableImplicitNative {
		targets = append(append([]string{}, targets...), "Native")
	}
	return strings.Join(targets, ";")
}

// inheritedFlags returns the value of the given flag variable, with a
// leading space only when there is prior content to separate from.
func inheritedFlags(name, prior string) string {
	value, ok := os.LookupEnv(name)
	if !ok {
		return ""
	}
	if prior != "" {
		return " " + value
	}
	return value
}

// buildCommand is the shared cmake --build invocation.
func buildCommand(ctx Context) Spec {
	return Command("cmake", "--build", ctx.Binary, "--config", ctx.Config, "--")
}

// Build plans a build of the whole project, forwarding trailing arguments to
// the underlying build tool.
func Build(ctx Context, extra []string) []Spec {
	cmd := buildCommand(ctx)
	cmd.Args = append(cmd.Args, extra...)
	return []Spec{cmd}
}

// LitOptions are the resolved options of the lit subcommand. UpdateResultDB
// has already had its conditional default applied.
type LitOptions struct {
	PrintOnly      bool
	XfailExport    bool
	UpdateResultDB bool
	Group          string
	First          bool
	Verbose        bool
	Tests          []string
	Args           []string
}

// Lit plans a test run. With a named group the group's build target is
// driven through the build tool; otherwise the failing tests recorded in the
// ResultDB (or the explicitly listed tests) are run directly under llvm-lit.
// An empty selection yields an empty plan.
func Lit(ctx Context, opts LitOptions) ([]Spec, error) {
	if opts.XfailExport {
		db, err := resultdb.Load(ctx.Binary)
		if err != nil {
			return nil, err
		}
		stmt := "export LIT_XFAIL=\"" + strings.Join(db.FailingIDs(), ";") + "\""
		return []Spec{Command("printf", "%s\\n", stmt)}, nil
	}

	if opts.Group != "" {
		cmd := buildCommand(ctx)
		cmd.Args = append(cmd.Args, opts.Group)
		if opts.UpdateResultDB {
			var err error
			cmd, err = withResultDBEnv(cmd, ctx.Binary)
			if err != nil {
				return nil, err
			}
		}
		return []Spec{cmd}, nil
	}

	tests := opts.Tests
	if len(tests) == 0 {
		db, err := resultdb.Load(ctx.Binary)
		if err != nil {
			ctx.Logger.Warn("ignoring "+resultdb.FileName, map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			tests = resultdb.Select(nil, opts.First, db, ctx.Source)
		}
	}
	tests = append(tests, opts.Args...)
	if len(tests) == 0 {
		return nil, nil
	}

	if opts.PrintOnly {
		return []Spec{Command("printf", append([]string{"%s\\n"}, tests...)...)}, nil
	}

	cmd := Command(filepath.Join(ctx.Binary, "bin", "llvm-lit"))
	if opts.Verbose {
		cmd = cmd.WithEnv("FILECHECK_OPTS", "--dump-input always")
		cmd.Args = append(cmd.Args, "-a")
	}
	cmd.Args = append(cmd.Args, tests...)
	if opts.UpdateResultDB {
		var err error
		cmd, err = withResultDBEnv(cmd, ctx.Binary)
		if err != nil {
			return nil, err
		}
	}
	return []Spec{cmd}, nil
}

// withResultDBEnv asks llvm-lit to rewrite the snapshot for this run.
func withResultDBEnv(cmd Spec, binary string) (Spec, error) {
	path, err := resultdb.Path(binary)
	if err != nil {
		return cmd, err
	}
	return cmd.WithEnv("LIT_OPTS", "--resultdb-output "+shellquote.Join(path)), nil
}

// activateScript parameterizes the shell snippet printed by Activate. The
// \n sequences are expanded by printf, not by cm.
const activateScript = "CM_SRC=%s CM_BIN=%s CM_CFG=%s;\\n" +
	"export CM_SRC CM_BIN CM_CFG;\\n" +
	"PATH=\"$CM_BIN/bin:$PATH\";\\n" +
	"alias cm='cm -s \"$CM_SRC\" -b \"$CM_BIN\" -c \"$CM_CFG\"';\\n"

const deactivateScript = "unalias cm;\\n" +
	"[ -z \"$CM_BIN\" ] || PATH=\"${PATH/$CM_BIN\\/bin:/}\";\\n" +
	"unset -v CM_SRC CM_BIN CM_CFG;\\n"

// Activate plans the shell statements that pin the current global options in
// the environment and put the build's bin directory on PATH. The paths are
// made absolute so the activated shell works from any directory; the only
// side effect of the planned command is writing to stdout (the caller is
// expected to eval it).
func Activate(ctx Context) ([]Spec, error) {
	source, err := filepath.Abs(ctx.Source)
	if err != nil {
		return nil, err
	}
	binary, err := filepath.Abs(ctx.Binary)
	if err != nil {
		return nil, err
	}
	return []Spec{Command("printf", activateScript,
		shellquote.Join(source),
		shellquote.Join(binary),
		shellquote.Join(ctx.Config))}, nil
}

// Deactivate plans the inverse of Activate. The PATH restoration is a
// best-effort string substitution in the printed snippet; it handles the
// common single-activation case.
func Deactivate() []Spec {
	return []Spec{Command("printf", deactivateScript)}
}
