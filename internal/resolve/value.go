package resolve

import (
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"cm/internal/fuzzy"
)

// SettableBool is a boolean flag accepting three spellings: bare (true),
// =true, and =false, so an rc-file default can always be overridden on the
// command line. Register it with RegisterSettableBool so the bare spelling
// works.
type SettableBool struct {
	Value bool
}

// Set implements pflag.Value
func (b *SettableBool) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	b.Value = v
	return nil
}

// Type implements pflag.Value
func (b *SettableBool) Type() string {
	return "bool"
}

// String implements pflag.Value
func (b *SettableBool) String() string {
	return strconv.FormatBool(b.Value)
}

// RegisterSettableBool registers a settable boolean flag with a default.
func RegisterSettableBool(flags *pflag.FlagSet, b *SettableBool, name, shorthand string, def bool, usage string) {
	b.Value = def
	if shorthand != "" {
		flags.VarP(b, name, shorthand, usage)
	} else {
		flags.Var(b, name, usage)
	}
	flags.Lookup(name).NoOptDefVal = "true"
}

// OverridingList is a list-valued flag whose value is replaced wholesale by
// each occurrence rather than accumulated, so a command-line occurrence
// fully supersedes an rc-file one. Occurrences accept comma-separated
// elements; each element is canonicalized through the matcher when one is
// set.
type OverridingList struct {
	matcher *fuzzy.Matcher
	values  []string
	set     bool
}

// NewOverridingList creates an OverridingList; matcher may be nil for fully
// open domains.
func NewOverridingList(matcher *fuzzy.Matcher) *OverridingList {
	return &OverridingList{matcher: matcher}
}

// Set implements pflag.Value, replacing any previous value.
func (l *OverridingList) Set(s string) error {
	var values []string
	for _, elem := range strings.Split(s, ",") {
		if l.matcher != nil {
			resolved, err := l.matcher.Resolve(elem)
			if err != nil {
				return err
			}
			elem = resolved
		}
		values = append(values, elem)
	}
	l.values = values
	l.set = true
	return nil
}

// Type implements pflag.Value
func (l *OverridingList) Type() string {
	return "list"
}

// String implements pflag.Value
func (l *OverridingList) String() string {
	return strings.Join(l.values, ",")
}

// Values returns the list, or nil when the flag was never supplied so
// callers can distinguish "unspecified" from "explicitly empty".
func (l *OverridingList) Values() []string {
	if !l.set {
		return nil
	}
	return l.values
}

// Completions returns the matcher's completion strings, if any.
func (l *OverridingList) Completions() []string {
	if l.matcher == nil {
		return nil
	}
	return l.matcher.Completions()
}

// FuzzyString is a scalar flag canonicalized through a fuzzy matcher.
type FuzzyString struct {
	matcher *fuzzy.Matcher
	value   string
}

// NewFuzzyString creates a FuzzyString with a default value.
func NewFuzzyString(matcher *fuzzy.Matcher, def string) *FuzzyString {
	return &FuzzyString{matcher: matcher, value: def}
}

// Set implements pflag.Value
func (f *FuzzyString) Set(s string) error {
	resolved, err := f.matcher.Resolve(s)
	if err != nil {
		return err
	}
	f.value = resolved
	return nil
}

// Type implements pflag.Value
func (f *FuzzyString) Type() string {
	return "string"
}

// String implements pflag.Value
func (f *FuzzyString) String() string {
	return f.value
}

// Completions returns the matcher's completion strings.
func (f *FuzzyString) Completions() []string {
	return f.matcher.Completions()
}
