// Package fuzzy resolves raw option values against an incomplete set of known
// values. Two modes exist: an open mode where known values only provide
// canonical casing and completion hints, and an inferable-prefix mode (for
// things like LLVM's "check-*" targets) where the user can abbreviate a known
// value or escape into the prefixed namespace with any string.
package fuzzy

import (
	"fmt"
	"strings"

	"cm/internal/cmerrors"
)

// Matcher resolves raw tokens against an ordered known-value list.
type Matcher struct {
	known           []string
	inferablePrefix string
}

// New creates a Matcher. An empty inferablePrefix selects the open mode.
func New(known []string, inferablePrefix string) *Matcher {
	return &Matcher{known: known, inferablePrefix: inferablePrefix}
}

// Known returns the known-value list, in declaration order.
func (m *Matcher) Known() []string {
	return m.known
}

// Completions returns the strings to offer for shell completion. The
// inferable-prefix namespace is represented by a single "prefix*" entry so
// completion generation is not confused by an infinite namespace.
func (m *Matcher) Completions() []string {
	var out []string
	if m.inferablePrefix != "" {
		out = append(out, m.inferablePrefix+"*")
	}
	out = append(out, m.known...)
	return out
}

// Resolve maps a raw token to its canonical value.
func (m *Matcher) Resolve(raw string) (string, error) {
	if m.inferablePrefix == "" {
		return m.resolveOpen(raw), nil
	}
	return m.resolvePrefixed(raw)
}

// resolveOpen canonicalizes casing when the token matches exactly one known
// value; any other token passes through unchanged since the domain is open.
func (m *Matcher) resolveOpen(raw string) string {
	match := ""
	for _, v := range m.known {
		if strings.EqualFold(v, raw) {
			if match != "" {
				return raw
			}
			match = v
		}
	}
	if match != "" {
		return match
	}
	return raw
}

// resolvePrefixed treats the token as an abbreviation of a known value unless
// it already carries the prefix. Abbreviation matching is case-sensitive.
func (m *Matcher) resolvePrefixed(raw string) (string, error) {
	if strings.HasPrefix(raw, m.inferablePrefix) {
		return raw, nil
	}
	var candidates []string
	for _, v := range m.known {
		if strings.HasPrefix(v, raw) {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 1 {
		return m.inferablePrefix + candidates[0], nil
	}
	return "", cmerrors.New(cmerrors.AmbiguousValue, fmt.Sprintf(
		"invalid value %q (possible values: %s)",
		raw, strings.Join(m.Completions(), ", ")))
}
