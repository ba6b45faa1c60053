// Package flags provides named on/off switches read from the flags section
// of the config file. Unknown names are disabled.
package flags

import (
	"maps"

	"github.com/zjrosen/rulekit/internal/log"
)

const (
	// FlagSkipUIResources disables UI resource preloading even when a
	// resource store is configured.
	FlagSkipUIResources = "skip-ui-resources"

	// FlagWarmOnStart makes serve build the component set before it starts
	// listening, as if --warm were passed.
	FlagWarmOnStart = "warm-on-start"
)

// Registry holds flag state. It is read-only after New.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from a config map. A nil map disables every flag.
func New(flags map[string]bool) *Registry {
	r := &Registry{flags: make(map[string]bool, len(flags))}
	maps.Copy(r.flags, flags)
	if len(r.flags) > 0 {
		log.Debug(log.CatConfig, "feature flags loaded", "flags", r.All())
	}
	return r
}

// Enabled reports whether name is set to true. Nil-safe.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	return r.flags[name]
}

// All returns a copy of the flag map.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return map[string]bool{}
	}
	return maps.Clone(r.flags)
}
