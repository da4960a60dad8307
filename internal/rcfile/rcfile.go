// Package rcfile reads the line-oriented cm.rc configuration file.
//
// The format is line-based: lines starting with '#' (after leading
// whitespace) and blank lines are ignored, lines starting with '-' are
// arguments taken verbatim (no quoting), and any other line switches the
// current section to its full content. Arguments before the first section
// line are global. Section labels scope their arguments to subcommands whose
// name the label is a prefix of.
package rcfile

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"cm/internal/cmerrors"
)

// ConfigPathEnv overrides the rc file location. Empty string disables the
// file entirely.
const ConfigPathEnv = "CM_CONFIG_PATH"

// TestingEnv, when set, bypasses the default rc file location so test runs
// are reproducible regardless of the user's configuration.
const TestingEnv = "CM_TESTING"

// DefaultName is the rc file name under the platform user config directory.
const DefaultName = "cm.rc"

// File holds the raw lines of an rc file. The zero value behaves as an
// absent file and yields no arguments.
type File struct {
	lines []string
}

// FromPath reads the rc file at path.
func FromPath(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return &File{lines: lines}, nil
}

// FromEnv locates and reads the rc file according to CM_CONFIG_PATH:
// unset means the platform default location (where a missing or unreadable
// file silently degrades to no configuration), the empty string disables the
// file, and any other value is an explicit path whose read errors are fatal.
func FromEnv() (*File, error) {
	path, explicit := os.LookupEnv(ConfigPathEnv)
	if !explicit {
		if _, testing := os.LookupEnv(TestingEnv); testing {
			return &File{}, nil
		}
		dir, err := os.UserConfigDir()
		if err != nil {
			return &File{}, nil
		}
		f, err := FromPath(filepath.Join(dir, DefaultName))
		if err != nil {
			// The implicit default is best-effort.
			return &File{}, nil
		}
		return f, nil
	}
	if path == "" {
		return &File{}, nil
	}
	f, err := FromPath(path)
	if err != nil {
		return nil, cmerrors.Wrap(cmerrors.ConfigParse, "reading config file "+path, err)
	}
	return f, nil
}

// SlurpInto appends every argument applicable to subcommand, in file order.
// The current section is carried through the scan as an explicit accumulator.
func (f *File) SlurpInto(subcommand string, out *[]string) {
	section := ""
	for _, line := range f.lines {
		switch {
		case strings.HasPrefix(line, "-"):
			if section == "" || strings.HasPrefix(subcommand, section) {
				*out = append(*out, line)
			}
		case strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimLeft(line, " \t"), "#"):
			// comment or blank
		default:
			section = line
		}
	}
}
