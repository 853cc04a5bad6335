package secret

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

var envVarPattern = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandEnvStrict expands ${VAR} references in s. Every referenced variable
// must be set; the error lists all missing names at once so an operator can
// fix the environment in one pass. `$$` yields a literal dollar sign, and a
// dollar that starts no reference passes through unchanged.
func ExpandEnvStrict(s string) (string, error) {
	var out strings.Builder
	missing := map[string]struct{}{}

	for i := 0; i < len(s); i++ {
		if s[i] != '$' {
			out.WriteByte(s[i])
			continue
		}
		if i+1 < len(s) && s[i+1] == '$' {
			out.WriteByte('$')
			i++
			continue
		}

		m := envVarPattern.FindStringSubmatch(s[i:])
		if m == nil {
			out.WriteByte('$')
			continue
		}
		name := m[1]
		value, ok := os.LookupEnv(name)
		if !ok {
			missing[name] = struct{}{}
		}
		out.WriteString(value)
		i += len(m[0]) - 1
	}

	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for name := range missing {
			names = append(names, name)
		}
		sort.Strings(names)
		return "", fmt.Errorf("secret: missing required environment variables: %s", strings.Join(names, ", "))
	}
	return out.String(), nil
}
