package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "log-level").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Get returns the current value for this key from a loaded Config.
	Get func(cfg *Config) string

	// Set applies a value for this key to the given Config (in memory only;
	// the caller is responsible for calling Save). It rejects malformed values.
	Set func(cfg *Config, value string) error
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"console", "json"}
)

// Keys is the authoritative list of all supported configuration keys.
// To add a new option: add a field to Config and append a KeySpec here.
var Keys = []KeySpec{
	{
		Name:        "database-path",
		Description: "SQLite file holding actions, records and audit entries",
		Get:         func(cfg *Config) string { return cfg.DatabasePath },
		Set: func(cfg *Config, v string) error {
			cfg.DatabasePath = strings.TrimSpace(v)
			return nil
		},
	},
	{
		Name:        "timezone",
		Description: "IANA time zone used to resolve dates such as \"besok jam 10\"",
		Get:         func(cfg *Config) string { return cfg.Timezone },
		Set: func(cfg *Config, v string) error {
			v = strings.TrimSpace(v)
			if _, err := time.LoadLocation(v); err != nil {
				return fmt.Errorf("unknown time zone %q", v)
			}
			cfg.Timezone = v
			return nil
		},
	},
	{
		Name:        "pending-limit",
		Description: "Maximum number of pending actions listed at once",
		Get: func(cfg *Config) string {
			if cfg.PendingLimit == 0 {
				return ""
			}
			return strconv.Itoa(cfg.PendingLimit)
		},
		Set: func(cfg *Config, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil || n <= 0 {
				return fmt.Errorf("pending-limit must be a positive integer, got %q", v)
			}
			cfg.PendingLimit = n
			return nil
		},
	},
	{
		Name:        "log-level",
		Description: "Minimum log level (debug, info, warn, error)",
		Get:         func(cfg *Config) string { return cfg.LogLevel },
		Set:         oneOf(logLevels, func(cfg *Config, v string) { cfg.LogLevel = v }),
	},
	{
		Name:        "log-format",
		Description: "Log encoding written to stderr (console, json)",
		Get:         func(cfg *Config) string { return cfg.LogFormat },
		Set:         oneOf(logFormats, func(cfg *Config, v string) { cfg.LogFormat = v }),
	},
}

func oneOf(allowed []string, apply func(*Config, string)) func(*Config, string) error {
	return func(cfg *Config, v string) error {
		v = strings.ToLower(strings.TrimSpace(v))
		if !slices.Contains(allowed, v) {
			return fmt.Errorf("%q is not one of %s", v, strings.Join(allowed, ", "))
		}
		apply(cfg, v)
		return nil
	}
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	// Find the longest key name for alignment.
	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Name, k.Description)
	}
	return b.String()
}
