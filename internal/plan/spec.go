// Package plan maps a resolved cm invocation to the ordered external
// commands that realize it. Planning is a pure function of the resolved
// options, quirks mode and paths; the only I/O it performs is the feature
// probing done for the configure subcommand.
package plan

// Spec describes one external command to run: a program, its arguments in
// order, and any environment variables to set on top of the inherited
// environment. A Spec is immutable once constructed; an ordered []Spec is a
// plan, executed strictly in sequence.
type Spec struct {
	Program string
	Args    []string
	Env     map[string]string
}

// Command is a convenience constructor for a Spec without environment
// overrides.
func Command(program string, args ...string) Spec {
	return Spec{Program: program, Args: args}
}

// WithEnv returns a copy of s with the variable set.
func (s Spec) WithEnv(key, value string) Spec {
	env := make(map[string]string, len(s.Env)+1)
	for k, v := range s.Env {
		env[k] = v
	}
	env[key] = value
	s.Env = env
	return s
}
