package resolve

import (
	"reflect"
	"testing"

	"github.com/spf13/pflag"

	"cm/internal/fuzzy"
)

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.SetOutput(discard{})
	return fs
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestSettableBoolSpellings(t *testing.T) {
	tests := []struct {
		name string
		def  bool
		args []string
		want bool
	}{
		{"bare flag means true", false, []string{"--san"}, true},
		{"explicit true", false, []string{"--san=true"}, true},
		{"explicit false overrides default", true, []string{"--san=false"}, false},
		{"unset keeps default", true, nil, true},
		{"later occurrence wins", true, []string{"--san", "--san=false"}, false},
		{"rc default overridden on the command line", false, []string{"--san=true", "--san=false"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newFlagSet()
			var b SettableBool
			RegisterSettableBool(fs, &b, "san", "", tt.def, "enable sanitizers")
			if err := fs.Parse(tt.args); err != nil {
				t.Fatal(err)
			}
			if b.Value != tt.want {
				t.Errorf("parse(%v) = %v, want %v", tt.args, b.Value, tt.want)
			}
		})
	}
}

func TestSettableBoolRejectsGarbage(t *testing.T) {
	fs := newFlagSet()
	var b SettableBool
	RegisterSettableBool(fs, &b, "san", "", false, "")
	if err := fs.Parse([]string{"--san=maybe"}); err == nil {
		t.Error("want parse error for --san=maybe")
	}
}

func TestOverridingListReplacesWholesale(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"unspecified is nil", nil, nil},
		{"single occurrence with commas", []string{"--enable-projects=llvm,clang"}, []string{"llvm", "clang"}},
		{"later occurrence replaces earlier", []string{"--enable-projects=llvm,clang", "--enable-projects=mlir"}, []string{"mlir"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newFlagSet()
			l := NewOverridingList(nil)
			fs.Var(l, "enable-projects", "")
			if err := fs.Parse(tt.args); err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(l.Values(), tt.want) {
				t.Errorf("Values() = %v, want %v", l.Values(), tt.want)
			}
		})
	}
}

func TestOverridingListFuzzyElements(t *testing.T) {
	fs := newFlagSet()
	l := NewOverridingList(fuzzy.New([]string{"AMDGPU", "X86", "NVPTX"}, ""))
	fs.Var(l, "targets-to-build", "")
	if err := fs.Parse([]string{"--targets-to-build=amdgpu,X86"}); err != nil {
		t.Fatal(err)
	}
	want := []string{"AMDGPU", "X86"}
	if !reflect.DeepEqual(l.Values(), want) {
		t.Errorf("Values() = %v, want %v", l.Values(), want)
	}
}

func TestFuzzyStringFlag(t *testing.T) {
	fs := newFlagSet()
	f := NewFuzzyString(fuzzy.New([]string{"Release", "Debug", "RelWithDebInfo", "MinSizeRel"}, ""), "RelWithDebInfo")
	fs.Var(f, "config", "")

	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}
	if f.String() != "RelWithDebInfo" {
		t.Errorf("default = %q", f.String())
	}

	if err := fs.Parse([]string{"--config=debug"}); err != nil {
		t.Fatal(err)
	}
	if f.String() != "Debug" {
		t.Errorf("canonicalized = %q, want Debug", f.String())
	}
}

func TestFuzzyStringGroupFlag(t *testing.T) {
	fs := newFlagSet()
	f := NewFuzzyString(fuzzy.New([]string{"all", "llvm", "clang", "lld"}, "check-"), "")
	fs.Var(f, "group", "")

	if err := fs.Parse([]string{"--group=a"}); err != nil {
		t.Fatal(err)
	}
	if f.String() != "check-all" {
		t.Errorf("group = %q, want check-all", f.String())
	}

	fs = newFlagSet()
	f = NewFuzzyString(fuzzy.New([]string{"all", "llvm", "clang", "lld"}, "check-"), "")
	fs.Var(f, "group", "")
	if err := fs.Parse([]string{"--group=ll"}); err == nil {
		t.Error("want error for ambiguous group abbreviation")
	}
}
