package render

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/alessio/shellescape"

	"github.com/arthur-debert/renda/pkg/registry"
)

// Funcs is the registry of extra template functions layered on top of
// sprig. Registration is the explicit capability contract: a function is
// available to templates only under the name it registers here.
var Funcs = registry.New[interface{}]()

func init() {
	register("env", envFunc)
	register("docker_link", dockerLink)
	register("sh_quote", shellescape.Quote)
	register("sh_expand", shExpand)
	register("sh_expanduser", shExpandUser)
	register("sh_expandvars", os.ExpandEnv)
	register("sh_opt", shOpt)
	register("sh_optq", shOptQuoted)
	register("ifelse", ifelse)
	register("onoff", onoff)
	register("yesno", yesno)
	register("align_suffix", alignSuffix)
}

// register erases the function's concrete type up front so every entry
// lands in the registry as a plain interface{} value.
func register(name string, fn interface{}) {
	registry.MustRegister(Funcs, name, fn)
}

// envFunc reads an environment variable inside a template, regardless of
// which data sources were loaded. Without a default, a missing variable
// is an error.
func envFunc(name string, defaultValue ...string) (string, error) {
	if value, ok := os.LookupEnv(name); ok {
		return value, nil
	}
	if len(defaultValue) > 0 {
		return defaultValue[0], nil
	}
	return "", fmt.Errorf("environment variable %q is not set", name)
}

var dockerLinkRe = regexp.MustCompile(`^(.+)://(.+):(.+)$`)

// dockerLink reformats a Docker link value such as "tcp://172.17.0.5:5432".
// The format string may reference {proto}, {addr} and {port}; the default
// is "{addr}:{port}".
func dockerLink(value string, format ...string) (string, error) {
	m := dockerLinkRe.FindStringSubmatch(value)
	if m == nil {
		return "", fmt.Errorf("value %q does not look like a Docker link", value)
	}

	layout := "{addr}:{port}"
	if len(format) > 0 {
		layout = format[0]
	}

	r := strings.NewReplacer("{proto}", m[1], "{addr}", m[2], "{port}", m[3])
	return r.Replace(layout), nil
}

// shExpand expands both a leading ~ and $VAR references.
func shExpand(s string) string {
	return os.ExpandEnv(shExpandUser(s))
}

// shExpandUser expands a leading ~ to the user's home directory.
func shExpandUser(s string) string {
	if s != "~" && !strings.HasPrefix(s, "~/") {
		return s
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return s
	}
	return home + s[1:]
}

// shOpt formats a value as a command line option: "--name value". An
// empty value yields an empty string, so optional settings drop out of
// the command line entirely. The optional third argument overrides the
// separator between option name and value.
func shOpt(value, name string, delim ...string) string {
	if value == "" {
		return ""
	}
	sep := " "
	if len(delim) > 0 {
		sep = delim[0]
	}
	return name + sep + value
}

// shOptQuoted is shOpt with the value shell-quoted.
func shOptQuoted(value, name string, delim ...string) string {
	if value == "" {
		return ""
	}
	return shOpt(shellescape.Quote(value), name, delim...)
}

func ifelse(cond bool, truthy, falsy interface{}) interface{} {
	if cond {
		return truthy
	}
	return falsy
}

func onoff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func yesno(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// alignSuffix aligns the text after the first occurrence of delim on each
// line to a common column, chosen from the rightmost delimiter position.
func alignSuffix(delim, text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")

	column := 0
	for _, line := range lines {
		if idx := strings.Index(line, delim); idx > column {
			column = idx
		}
	}

	var b strings.Builder
	for _, line := range lines {
		before, after, found := strings.Cut(line, delim)
		switch {
		case !found:
			b.WriteString(strings.TrimRight(before, " \t"))
		case strings.TrimSpace(before) == "":
			// nothing before the delimiter: leave the line alone
			b.WriteString(line)
		default:
			b.WriteString(fmt.Sprintf("%-*s%s %s", column, strings.TrimRight(before, " \t"), delim, strings.TrimSpace(after)))
		}
		b.WriteString("\n")
	}
	return b.String()
}
