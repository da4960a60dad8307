package plan

import (
	"errors"
	"os"
	"os/exec"

	"cm/internal/cmerrors"
)

// Prober answers feature-availability questions during configure planning.
type Prober interface {
	// HasCommand reports whether name can be spawned. "Not found" is a
	// negative result, not an error.
	HasCommand(name string) (bool, error)
	// HasCCFlag reports whether the C compiler accepts flag when compiling
	// a trivial translation unit.
	HasCCFlag(flag string) (bool, error)
}

// ExecProber probes by spawning short-lived subprocesses.
type ExecProber struct{}

// HasCommand spawns name with no arguments and discards its output; the
// verdict is whether the spawn succeeded at all, not the exit status. When
// CM_TESTING is set every command is reported as available so test runs do
// not depend on the host toolchain.
func (ExecProber) HasCommand(name string) (bool, error) {
	if _, testing := os.LookupEnv("CM_TESTING"); testing {
		return true, nil
	}
	cmd := exec.Command(name)
	err := cmd.Run()
	switch {
	case err == nil:
		return true, nil
	case isExitError(err):
		return true, nil
	case errors.Is(err, exec.ErrNotFound):
		return false, nil
	default:
		return false, cmerrors.Wrap(cmerrors.FeatureProbe, "probing for "+name, err)
	}
}

// HasCCFlag compiles an empty unit from stdin through $CC (or cc) with flag
// appended; the compiler's exit status is the verdict.
func (ExecProber) HasCCFlag(flag string) (bool, error) {
	cc := os.Getenv("CC")
	if cc == "" {
		cc = "cc"
	}
	cmd := exec.Command(cc, "-x", "c", "-", "-o", "-", "-c", flag)
	err := cmd.Run()
	switch {
	case err == nil:
		return true, nil
	case isExitError(err):
		return false, nil
	case errors.Is(err, exec.ErrNotFound):
		return false, nil
	default:
		return false, cmerrors.Wrap(cmerrors.FeatureProbe, "probing cc for "+flag, err)
	}
}

func isExitError(err error) bool {
	var ee *exec.ExitError
	return errors.As(err, &ee)
}
