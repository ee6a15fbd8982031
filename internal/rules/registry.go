// internal/rules/registry.go
package rules

import (
	"fmt"
	"sort"
)

// Registry maps an event type to its compiled rule.
// Built once at startup and read-only afterwards; safe for concurrent use.
type Registry struct {
	rules map[string]*CompiledRule
}

// NewRegistry compiles rules and indexes them by event type.
func NewRegistry(rules ...Rule) (*Registry, error) {
	reg := &Registry{rules: make(map[string]*CompiledRule, len(rules))}
	for _, rule := range rules {
		compiled, err := Compile(rule)
		if err != nil {
			return nil, err
		}
		if _, exists := reg.rules[compiled.EventType()]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEventType, compiled.EventType())
		}
		reg.rules[compiled.EventType()] = compiled
	}
	return reg, nil
}

// MustNewRegistry is NewRegistry for static catalogs; panics on error.
func MustNewRegistry(rules ...Rule) *Registry {
	reg, err := NewRegistry(rules...)
	if err != nil {
		panic(err)
	}
	return reg
}

// Lookup returns the rule for an exact event type match.
func (r *Registry) Lookup(eventType string) (*CompiledRule, bool) {
	rule, ok := r.rules[eventType]
	return rule, ok
}

// EventTypes returns the registered event types in sorted order.
func (r *Registry) EventTypes() []string {
	types := make([]string, 0, len(r.rules))
	for t := range r.rules {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	return len(r.rules)
}
