package rules

import (
	"github.com/pankaj-dahiya-devops/netexpose/internal/models"
	"github.com/pankaj-dahiya-devops/netexpose/internal/policy"
)

// RuleContext carries all collected data for a single compartment.
// It is the sole input to Rule.Evaluate and must contain everything a rule
// needs; rules must never make network calls or read external state.
type RuleContext struct {
	// CompartmentID is the OCI compartment being evaluated.
	CompartmentID string

	// Inventory holds the security lists and NSGs collected from the
	// compartment. Either collection may be empty.
	Inventory *models.NetworkInventory

	// Policy holds the active PolicyConfig. May be nil when no policy file is
	// loaded; rules must treat nil as "use defaults".
	Policy *policy.PolicyConfig
}

// Rule is a single deterministic exposure-detection rule.
// Rules must be stateless and safe to call concurrently.
// They must never call the OCI SDK or any external service.
type Rule interface {
	// ID returns the unique, stable identifier for this rule (e.g. "NSG_WORLD_INGRESS").
	ID() string

	// Name returns a short human-readable rule name.
	Name() string

	// Evaluate inspects the provided context and returns zero or more findings
	// in inventory order. An empty slice means no exposure was detected.
	Evaluate(ctx RuleContext) []models.Finding
}

// RuleRegistry manages the set of active rules and drives evaluation.
type RuleRegistry interface {
	// Register adds a rule to the registry. Panics on duplicate ID.
	Register(rule Rule)

	// All returns all registered rules in registration order.
	All() []Rule

	// EvaluateAll runs every enabled rule against ctx and concatenates results
	// in registration order.
	EvaluateAll(ctx RuleContext) []models.Finding
}
