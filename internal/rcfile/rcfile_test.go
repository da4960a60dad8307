package rcfile

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"cm/internal/cmerrors"
)

func writeRc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cm.rc")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const sampleRc = `# global defaults
--source=src

--quirks=none

configure
# configure-only
--generator=Unix Makefiles
--prefix-path=/opt/deps

lit
--update-resultdb=false

build
--verbose
`

func TestSlurpInto(t *testing.T) {
	tests := []struct {
		name       string
		subcommand string
		want       []string
	}{
		{
			name:       "configure gets globals then its section",
			subcommand: "configure",
			want:       []string{"--source=src", "--quirks=none", "--generator=Unix Makefiles", "--prefix-path=/opt/deps"},
		},
		{
			name:       "build gets globals then its section",
			subcommand: "build",
			want:       []string{"--source=src", "--quirks=none", "--verbose"},
		},
		{
			name:       "lit gets globals and lit section only",
			subcommand: "lit",
			want:       []string{"--source=src", "--quirks=none", "--update-resultdb=false"},
		},
		{
			name:       "unrelated subcommand gets globals only",
			subcommand: "activate",
			want:       []string{"--source=src", "--quirks=none"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := FromPath(writeRc(t, sampleRc))
			if err != nil {
				t.Fatal(err)
			}
			var got []string
			f.SlurpInto(tt.subcommand, &got)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SlurpInto(%q) = %v, want %v", tt.subcommand, got, tt.want)
			}
		})
	}
}

func TestSlurpIntoAbbreviatedSection(t *testing.T) {
	// A section label that is a prefix of the full subcommand name scopes
	// its arguments to that subcommand.
	f, err := FromPath(writeRc(t, "c\n--generator=Ninja\n"))
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	f.SlurpInto("configure", &got)
	if !reflect.DeepEqual(got, []string{"--generator=Ninja"}) {
		t.Errorf("SlurpInto(\"configure\") = %v", got)
	}
	got = nil
	f.SlurpInto("build", &got)
	if len(got) != 0 {
		t.Errorf("SlurpInto(\"build\") = %v, want empty", got)
	}
}

func TestZeroValueYieldsNothing(t *testing.T) {
	var f File
	out := []string{"existing"}
	f.SlurpInto("configure", &out)
	if !reflect.DeepEqual(out, []string{"existing"}) {
		t.Errorf("zero-value SlurpInto modified out: %v", out)
	}
}

func TestFromEnv(t *testing.T) {
	t.Run("explicit path is read", func(t *testing.T) {
		t.Setenv(ConfigPathEnv, writeRc(t, "--source=src\n"))
		f, err := FromEnv()
		if err != nil {
			t.Fatal(err)
		}
		var got []string
		f.SlurpInto("build", &got)
		if !reflect.DeepEqual(got, []string{"--source=src"}) {
			t.Errorf("got %v", got)
		}
	})

	t.Run("explicit missing path is fatal", func(t *testing.T) {
		t.Setenv(ConfigPathEnv, filepath.Join(t.TempDir(), "nope.rc"))
		_, err := FromEnv()
		if err == nil {
			t.Fatal("want error for missing explicit config file")
		}
		if !cmerrors.HasCode(err, cmerrors.ConfigParse) {
			t.Errorf("error %v, want CONFIG_PARSE", err)
		}
	})

	t.Run("empty override disables the file", func(t *testing.T) {
		t.Setenv(ConfigPathEnv, "")
		f, err := FromEnv()
		if err != nil {
			t.Fatal(err)
		}
		var got []string
		f.SlurpInto("build", &got)
		if len(got) != 0 {
			t.Errorf("got %v, want empty", got)
		}
	})

	t.Run("testing mode bypasses the default location", func(t *testing.T) {
		os.Unsetenv(ConfigPathEnv)
		t.Setenv(TestingEnv, "1")
		f, err := FromEnv()
		if err != nil {
			t.Fatal(err)
		}
		var got []string
		f.SlurpInto("build", &got)
		if len(got) != 0 {
			t.Errorf("got %v, want empty", got)
		}
	})
}
