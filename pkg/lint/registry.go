package lint

import (
	"sort"
	"sync"
)

// globalRegistry is the single global registry for all lint rules.
var globalRegistry = &Registry{
	rules: make(map[string]NodeRule),
}

// Registry stores registered lint rules for discovery.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]NodeRule // keyed by ID
}

// Register adds a rule to the global registry.
// Call this from init() functions in rule packages.
func Register(rule NodeRule) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.rules[rule.ID()] = rule
}

// RegisterDef wraps and registers a data-driven rule.
func RegisterDef(def RuleDef) {
	Register(WrapRuleDef(def))
}

// GetAll returns all registered rules sorted by ID.
func GetAll() []NodeRule {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	rules := make([]NodeRule, 0, len(globalRegistry.rules))
	for _, rule := range globalRegistry.rules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID() < rules[j].ID() })
	return rules
}

// GetByID returns a rule by its ID.
func GetByID(id string) (NodeRule, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	rule, ok := globalRegistry.rules[id]
	return rule, ok
}

// GetByGroup returns all rules in a specific group, sorted by ID.
func GetByGroup(group string) []NodeRule {
	var rules []NodeRule
	for _, rule := range GetAll() {
		if rule.Group() == group {
			rules = append(rules, rule)
		}
	}
	return rules
}

// Count returns the number of registered rules.
func Count() int {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return len(globalRegistry.rules)
}

// Clear removes all registered rules. Used for testing.
func Clear() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.rules = make(map[string]NodeRule)
}
