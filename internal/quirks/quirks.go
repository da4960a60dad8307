// Package quirks classifies the shape of the target project so defaults can
// adapt to it.
package quirks

import (
	"fmt"
	"os"
	"path/filepath"
)

// Mode is a heuristic profile that adjusts default paths and cache-variable
// names for a specific host project shape.
type Mode int

const (
	// None applies no project-specific behavior.
	None Mode = iota
	// LLVM enables the LLVM monorepo conveniences (llvm/ source default,
	// LLVM cache variables, check-* test groups).
	LLVM
)

// String returns the spelling used on the command line and in CM_QUIRKS.
func (m Mode) String() string {
	switch m {
	case LLVM:
		return "llvm"
	default:
		return "none"
	}
}

// Parse maps a user-supplied quirks value to a Mode.
func Parse(s string) (Mode, error) {
	switch s {
	case "none":
		return None, nil
	case "llvm":
		return LLVM, nil
	default:
		return None, fmt.Errorf("invalid quirks mode %q (possible values: none, llvm)", s)
	}
}

// Detect infers the quirks mode from the filesystem under source. An LLVM
// monorepo checkout has no top-level CMakeLists.txt but does have an llvm
// subdirectory. Best effort only; an explicit user value always wins and
// callers only consult Detect when none was supplied.
func Detect(source string) Mode {
	if !isFile(filepath.Join(source, "CMakeLists.txt")) && isDir(filepath.Join(source, "llvm")) {
		return LLVM
	}
	return None
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
