package fuzzy

import (
	"reflect"
	"strings"
	"testing"

	"cm/internal/cmerrors"
)

func TestResolveOpenMode(t *testing.T) {
	m := New([]string{"Release", "Debug", "RelWithDebInfo", "MinSizeRel"}, "")

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"exact match keeps canonical casing", "Release", "Release"},
		{"case-insensitive match canonicalizes", "release", "Release"},
		{"mixed case canonicalizes", "relwithdebinfo", "RelWithDebInfo"},
		{"unknown value passes through", "Custom", "Custom"},
		{"prefix alone is not a match", "Rel", "Rel"},
		{"empty token passes through", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Resolve(tt.raw)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestResolveOpenModeDuplicateFold(t *testing.T) {
	// Two known values that fold to the same string: neither wins, the raw
	// token passes through.
	m := New([]string{"FOO", "foo"}, "")
	got, err := m.Resolve("Foo")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got != "Foo" {
		t.Errorf("Resolve(\"Foo\") = %q, want passthrough \"Foo\"", got)
	}
}

func TestResolvePrefixedMode(t *testing.T) {
	m := New([]string{"all", "llvm", "clang", "lld"}, "check-")

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"unique abbreviation expands", "a", "check-all", false},
		{"full known value expands", "clang", "check-clang", false},
		{"prefixed token is an escape hatch", "check-mlir", "check-mlir", false},
		{"prefixed unknown still passes", "check-whatever", "check-whatever", false},
		{"ambiguous abbreviation fails", "l", "", true},
		{"ambiguous two-char abbreviation fails", "ll", "", true},
		{"unknown value fails", "polly", "", true},
		{"case folding is not applied", "CLANG", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Resolve(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Resolve(%q) = %q, want error", tt.raw, got)
				}
				if !cmerrors.HasCode(err, cmerrors.AmbiguousValue) {
					t.Errorf("Resolve(%q) error %v, want AMBIGUOUS_VALUE", tt.raw, err)
				}
				if !strings.Contains(err.Error(), "check-*") {
					t.Errorf("error %q should mention the open check-* namespace", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCompletions(t *testing.T) {
	open := New([]string{"lld", "gold"}, "")
	if got := open.Completions(); !reflect.DeepEqual(got, []string{"lld", "gold"}) {
		t.Errorf("open Completions() = %v", got)
	}

	prefixed := New([]string{"all", "llvm"}, "check-")
	want := []string{"check-*", "all", "llvm"}
	if got := prefixed.Completions(); !reflect.DeepEqual(got, want) {
		t.Errorf("prefixed Completions() = %v, want %v", got, want)
	}
}
