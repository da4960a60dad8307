// Package resolve merges the configuration layers into one canonical
// argument vector.
//
// cm takes options from three places with defined precedence: the rc file is
// weakest, environment variables come next, and command-line flags always
// win. Rather than resolving each layer ad hoc, the resolver rewrites the
// process argv into a "cooked" vector ordered so that the flag parser's
// last-occurrence-wins behavior realizes the precedence:
//
//	[prog, subcommand, <rc args>, <global values as --flag=value>,
//	 <help flags>, <remaining tokens verbatim>]
//
// Each re-expressed global carries the command-line value when one was
// typed before the subcommand, and the environment value otherwise. The
// environment layer is read through viper.
package resolve

import (
	"strings"

	"github.com/spf13/viper"

	"cm/internal/rcfile"
)

// GlobalOption describes one global option of the schema: its flag
// spellings, the environment variable supplying its default, and whether it
// is a settable boolean (value optional, bare occurrence means true).
type GlobalOption struct {
	Long   string
	Short  string
	EnvVar string
	Bool   bool
}

// Globals is the global option schema, in re-expression order.
var Globals = []GlobalOption{
	{Long: "source", Short: "s", EnvVar: "CM_SRC"},
	{Long: "binary", Short: "b", EnvVar: "CM_BIN"},
	{Long: "config", Short: "c", EnvVar: "CM_CFG"},
	{Long: "quirks", Short: "q", EnvVar: "CM_QUIRKS"},
	{Long: "dry-run", Short: "n", Bool: true},
}

// Subcommand names with their one-letter aliases.
var Subcommands = []struct {
	Name  string
	Alias string
}{
	{"configure", "c"},
	{"build", "b"},
	{"lit", "l"},
	{"activate", "a"},
	{"deactivate", "d"},
}

// ExpandSubcommand resolves an exact name, an alias, or any unambiguous
// prefix of a subcommand name.
func ExpandSubcommand(token string) (string, bool) {
	var matches []string
	for _, sub := range Subcommands {
		if token == sub.Name || token == sub.Alias {
			return sub.Name, true
		}
		if strings.HasPrefix(sub.Name, token) {
			matches = append(matches, sub.Name)
		}
	}
	if len(matches) == 1 {
		return matches[0], true
	}
	return "", false
}

// EnvLayer exposes the environment-sourced global defaults through viper.
func EnvLayer() *viper.Viper {
	v := viper.New()
	for _, opt := range Globals {
		if opt.EnvVar != "" {
			_ = v.BindEnv(opt.Long, opt.EnvVar)
		}
	}
	return v
}

// preParse is the result of scanning the raw argv for global flags and the
// subcommand token.
type preParse struct {
	values map[string]string // CLI-typed global values by long name
	help   []string          // -h/--help, preserved in order typed
	sub    string            // subcommand token, as typed
	rest   []string          // everything after the subcommand, verbatim
}

// scan walks the tokens before the subcommand, consuming known global flags.
// It reports false when the argv does not fit the expected shape (no
// subcommand, or an unknown flag before it); the caller then leaves the argv
// alone and lets the flag parser produce its usual diagnostics.
func scan(args []string) (preParse, bool) {
	p := preParse{values: map[string]string{}}
	for i := 0; i < len(args); i++ {
		tok := args[i]
		switch {
		case tok == "-h" || tok == "--help":
			p.help = append(p.help, tok)
		case tok == "--":
			return p, false
		case strings.HasPrefix(tok, "--"):
			name, value, hasValue := strings.Cut(tok[2:], "=")
			opt := findGlobal(name, "")
			if opt == nil {
				return p, false
			}
			if !hasValue && !opt.Bool {
				if i+1 >= len(args) {
					return p, false
				}
				i++
				value = args[i]
				hasValue = true
			}
			if opt.Bool && !hasValue {
				value = "true"
			}
			p.values[opt.Long] = value
		case strings.HasPrefix(tok, "-") && len(tok) > 1:
			next, ok := p.scanShort(tok[1:], args, i)
			if !ok {
				return p, false
			}
			i = next
		default:
			p.sub = tok
			p.rest = args[i+1:]
			return p, true
		}
	}
	return p, false
}

// scanShort consumes one short-flag token, whose body may cluster boolean
// shorts before a final value-taking short ("-ns src", "-nssrc"). It returns
// the token index after any separate value consumed, and false when a letter
// is not a known global.
func (p *preParse) scanShort(body string, args []string, i int) (int, bool) {
	for j := 0; j < len(body); j++ {
		opt := findGlobal("", body[j:j+1])
		if opt == nil {
			return i, false
		}
		rest := body[j+1:]
		switch {
		case strings.HasPrefix(rest, "="):
			p.values[opt.Long] = rest[1:]
			return i, true
		case opt.Bool:
			p.values[opt.Long] = "true"
		case rest != "":
			p.values[opt.Long] = rest
			return i, true
		default:
			if i+1 >= len(args) {
				return i, false
			}
			p.values[opt.Long] = args[i+1]
			return i + 1, true
		}
	}
	return i, true
}

func findGlobal(long, short string) *GlobalOption {
	for i := range Globals {
		if (long != "" && Globals[i].Long == long) || (short != "" && Globals[i].Short == short) {
			return &Globals[i]
		}
	}
	return nil
}

// Cooked rewrites argv into the canonical layered vector. When argv does not
// contain a recognizable subcommand invocation it is returned unchanged.
func Cooked(argv []string, rc *rcfile.File) []string {
	if len(argv) < 2 {
		return argv
	}
	p, ok := scan(argv[1:])
	if !ok {
		return argv
	}
	sub, ok := ExpandSubcommand(p.sub)
	if !ok {
		return argv
	}

	env := EnvLayer()
	out := []string{argv[0], sub}
	rc.SlurpInto(sub, &out)
	for _, opt := range Globals {
		if value, set := p.values[opt.Long]; set {
			out = append(out, "--"+opt.Long+"="+value)
		} else if opt.EnvVar != "" {
			if value := env.GetString(opt.Long); value != "" {
				out = append(out, "--"+opt.Long+"="+value)
			}
		}
	}
	out = append(out, p.help...)
	out = append(out, p.rest...)
	return out
}
