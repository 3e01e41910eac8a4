package featureflags

import (
	"os"
	"strings"
)

// EditablePercentage lifts the fixed 100% allocation policy.
const EditablePercentage = "editable_percentage"

// Known lists every flag the client reads, with a one-line description.
var Known = map[string]string{
	EditablePercentage: "allow percentageAllocation to be edited instead of fixed at 100",
}

// Enabled returns true if a flag is enabled via environment variable.
// Flags are read from env as FLAG_<NAME>=true/1/yes (case-insensitive)
func Enabled(name string) bool {
	return truthy(os.Getenv(envKey(name)))
}

// Set is a resolved snapshot of flags, handed to components instead of
// letting them read the environment.
type Set map[string]bool

// FromEnv snapshots every known flag.
func FromEnv() Set {
	s := Set{}
	for name := range Known {
		s[name] = Enabled(name)
	}
	return s
}

// Enabled reports a flag from the snapshot. A nil Set has every flag off.
func (s Set) Enabled(name string) bool {
	return s[name]
}

func envKey(name string) string {
	return "FLAG_" + strings.ToUpper(name)
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
