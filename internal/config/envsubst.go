package config

import (
	"os"
	"regexp"
	"strings"
)

// envVarPattern matches ${VAR}, ${VAR:-default}, and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)((?::-|:\?)[^}]*)?\}`)

// substituteEnvVars replaces environment variable references in content.
// Plain ${VAR} substitutes the variable's value, empty or not; an unset
// variable is reported as missing and the reference left in place.
// ${VAR:-default} substitutes default when VAR is unset or empty.
// ${VAR:?message} reports "VAR: message" as missing when unset or empty.
func substituteEnvVars(content string) (string, []string) {
	var missing []string

	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		name, mod := splitVar(match)
		value, set := os.LookupEnv(name)

		switch {
		case strings.HasPrefix(mod, ":-"):
			if value != "" {
				return value
			}
			return mod[2:]
		case strings.HasPrefix(mod, ":?"):
			if value != "" {
				return value
			}
			missing = append(missing, name+": "+strings.TrimSpace(mod[2:]))
			return match
		default:
			if set {
				return value
			}
			missing = append(missing, name)
			return match
		}
	})

	return out, missing
}

// splitVar splits "${NAME:-rest}" into its name and modifier parts. The
// name cannot contain a colon, so the first one starts the modifier.
func splitVar(match string) (name, mod string) {
	inner := match[2 : len(match)-1]
	if i := strings.IndexByte(inner, ':'); i >= 0 {
		return inner[:i], inner[i:]
	}
	return inner, ""
}
