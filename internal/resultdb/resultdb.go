// Package resultdb reads the persisted lit test-result snapshot and decides
// which tests to re-run.
//
// The snapshot is a JSON file named lit.json under the binary directory,
// written by llvm-lit (via LIT_OPTS --resultdb-output). cm only ever reads
// it: each record carries a test identifier and whether the test passed on
// the last run, and the failing subset drives incremental re-runs.
package resultdb

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"

	"cm/internal/cmerrors"
)

// FileName is the snapshot file name under the binary directory.
const FileName = "lit.json"

// DB is a parsed snapshot.
type DB struct {
	Tests []Test `json:"tests"`
}

// Test is one recorded result. Expected reports whether the test behaved as
// expected on the last run; failing tests have Expected == false.
type Test struct {
	Expected bool   `json:"expected"`
	TestID   string `json:"testId"`
}

// Path returns the snapshot location under the canonicalized binary path.
func Path(binary string) (string, error) {
	resolved, err := filepath.EvalSymlinks(binary)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return "", err
	}
	return filepath.Join(abs, FileName), nil
}

// Load reads and parses the snapshot under binary. A missing or malformed
// snapshot is reported as a RESULTDB_UNAVAILABLE error; callers generally
// degrade to an empty failing-test list rather than aborting.
func Load(binary string) (*DB, error) {
	path, err := Path(binary)
	if err != nil {
		return nil, cmerrors.Wrap(cmerrors.ResultDBUnavailable, "locating "+FileName, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cmerrors.Wrap(cmerrors.ResultDBUnavailable, "reading "+path, err)
	}
	var db DB
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, cmerrors.Wrap(cmerrors.ResultDBUnavailable, "parsing "+path, err)
	}
	return &db, nil
}

// translation maps a test-identifier family to a source-relative path stem.
// Rules are tried top to bottom and the first match wins.
type translation struct {
	pattern     *regexp.Regexp
	replacement string
}

func rule(pattern, replacement string) translation {
	return translation{regexp.MustCompile(pattern), replacement}
}

// translations covers the lit suites of the LLVM monorepo. Identifiers from
// unknown suites pass through unchanged as literal paths; llvm-lit will
// complain about them if they are bogus.
var translations = []translation{
	rule(`LLVM :: `, "test/"),
	rule(`LLVM-Unit :: .*`, "test/Unit"),
	rule(`Clang :: `, "../clang/test/"),
	rule(`Clang-Unit :: .*`, "../clang/test/Unit"),
	rule(`Flang :: `, "../flang/test/"),
	rule(`flang-OldUnit :: .*`, "../flang/test/NonGtestUnit"),
	rule(`flang-Unit :: .*`, "../flang/test/Unit"),
	rule(`lld :: `, "../lld/test/"),
	rule(`lldb :: `, "../lldb/test/"),
	rule(`lldb-shell :: .*`, "../lldb/test/Shell"),
	rule(`lldb-unit :: .*`, "../lldb/test/Unit"),
	rule(`lldb-api :: .*`, "../lldb/test/API"),
	rule(`MLIR :: `, "../mlir/test/"),
	rule(`MLIR-Unit .*:: `, "../mlir/test/Unit"),
	rule(`libomptarget :: [^:]* :: `, "../openmp/libomptarget/test/"),
	rule(`ompt-test :: `, "../openmp/libompd/test/"),
	rule(`libomp :: `, "../openmp/runtime/test/"),
	rule(`OMPT multiplex :: `, "../openmp/tools/multiplex/tests/"),
	rule(`libarcher :: `, "../openmp/tools/archer/tests/"),
	rule(`Polly :: `, "../polly/test/"),
	rule(`Polly-Unit :: .*`, "../polly/test/Unit"),
	rule(`Polly - isl unit tests :: .*`, "../polly/test/UnitIsl"),
}

// TestPath translates t's identifier into a runnable path under source.
// The first matching translation rule wins, replacing the matched portion of
// the identifier. Unrecognized identifiers are assumed to be literal paths.
func (t Test) TestPath(source string) string {
	for _, tr := range translations {
		if loc := tr.pattern.FindStringIndex(t.TestID); loc != nil {
			return filepath.Join(source, t.TestID[:loc[0]]+tr.replacement+t.TestID[loc[1]:])
		}
	}
	return t.TestID
}

// Failing returns the failing records in file order, truncated to the first
// one when firstOnly is set.
func (db *DB) Failing(firstOnly bool) []Test {
	var out []Test
	for _, t := range db.Tests {
		if t.Expected {
			continue
		}
		out = append(out, t)
		if firstOnly {
			break
		}
	}
	return out
}

// FailingIDs returns the raw identifiers of the failing records.
func (db *DB) FailingIDs() []string {
	var out []string
	for _, t := range db.Failing(false) {
		out = append(out, t.TestID)
	}
	return out
}

// Select computes the test targets to run. Explicit tests are returned
// unchanged and the snapshot is never consulted for them; otherwise the
// failing records are translated to paths under source.
func Select(explicit []string, firstOnly bool, db *DB, source string) []string {
	if len(explicit) > 0 {
		return explicit
	}
	var out []string
	for _, t := range db.Failing(firstOnly) {
		out = append(out, t.TestPath(source))
	}
	return out
}

// UpdateDefault decides whether a run should update the snapshot when the
// user did not say. Re-running an explicit subset must not be recorded as a
// full pass that clears other tracked failures.
func UpdateDefault(explicit []string, firstOnly bool) bool {
	return len(explicit) == 0 && !firstOnly
}
