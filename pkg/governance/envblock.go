package governance

import (
	"os"
	"strings"
)

// FilterEnvVars returns env with denied variables removed, and the names that
// were removed. A nil env stands for the inherited process environment and is
// expanded before filtering when any deny pattern is set.
func (g *Engine) FilterEnvVars(env []string) ([]string, []string) {
	if len(g.DenyEnvVars) == 0 {
		return env, nil
	}
	if env == nil {
		env = os.Environ()
	}
	filtered := make([]string, 0, len(env))
	var blocked []string
	for _, e := range env {
		name, _, _ := strings.Cut(e, "=")
		if err := g.CheckEnvVar(name); err != nil {
			blocked = append(blocked, name)
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered, blocked
}
