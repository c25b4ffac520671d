// Package exposure provides the network exposure rule pack.
// It groups the world-open ingress rules into a single New() function that
// the engine wires into a DefaultRuleRegistry.
//
// Convention: every rule pack lives in internal/rulepacks/<domain>/pack.go
// and exposes a single New() func returning []rules.Rule.
package exposure

import "github.com/pankaj-dahiya-devops/netexpose/internal/rules"

// New returns the exposure rule pack. Registration order fixes report order:
// security lists first, then NSGs.
func New(ev *rules.Evaluator) []rules.Rule {
	return []rules.Rule{
		rules.SecurityListExposureRule{Evaluator: ev}, // subnet security lists
		rules.NSGExposureRule{Evaluator: ev},          // NSG ingress rules
	}
}

// NewRegistry returns a registry holding every rule of the pack.
func NewRegistry(ev *rules.Evaluator) *rules.DefaultRuleRegistry {
	reg := rules.NewDefaultRuleRegistry()
	for _, r := range New(ev) {
		reg.Register(r)
	}
	return reg
}

// IDs returns the rule IDs of the pack. The policy validator uses them to
// reject unknown rule keys.
func IDs() []string {
	var ids []string
	for _, r := range New(nil) {
		ids = append(ids, r.ID())
	}
	return ids
}
