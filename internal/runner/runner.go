// Package runner executes a plan: strictly sequential, aborting on the first
// failing command, or printing the plan as re-executable shell lines when
// dry-running.
package runner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"

	"cm/internal/cmerrors"
	"cm/internal/plan"
)

// Runner runs or prints plans.
type Runner struct {
	// DryRun prints each command instead of executing it.
	DryRun bool
	// Stdout receives dry-run output. Defaults to os.Stdout.
	Stdout io.Writer
}

// Run processes the plan in order. A command exiting non-zero aborts the
// remaining commands and returns an ExitError carrying the child's code so
// the process can mirror it.
func (r *Runner) Run(specs []plan.Spec) error {
	for _, spec := range specs {
		if r.DryRun {
			fmt.Fprintln(r.stdout(), Render(spec))
			continue
		}
		if err := runOne(spec); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func runOne(spec plan.Spec) error {
	cmd := exec.Command(spec.Program, spec.Args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), envStrings(spec.Env)...)
	err := cmd.Run()
	if err == nil {
		return nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return cmerrors.NewExitError(ee.ExitCode())
	}
	// Spawn failures (program missing, permissions) have no child exit code.
	return cmerrors.Wrap(cmerrors.CommandFailed, "running "+spec.Program, err)
}

// Render formats a Spec as one shell-executable line: environment overrides,
// then the program, then its arguments, each token quoted so values
// round-trip through the shell unchanged.
func Render(spec plan.Spec) string {
	parts := make([]string, 0, len(spec.Env)+len(spec.Args)+1)
	for _, k := range sortedKeys(spec.Env) {
		parts = append(parts, shellquote.Join(k)+"="+shellquote.Join(spec.Env[k]))
	}
	parts = append(parts, shellquote.Join(spec.Program))
	for _, a := range spec.Args {
		parts = append(parts, shellquote.Join(a))
	}
	return strings.Join(parts, " ")
}

func envStrings(env map[string]string) []string {
	var out []string
	for _, k := range sortedKeys(env) {
		out = append(out, k+"="+env[k])
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
