package policy

import (
	"fmt"
	"strings"
)

// validRisks is the set of allowed risk strings (upper-case canonical form).
var validRisks = map[string]struct{}{
	"HIGH":   {},
	"MEDIUM": {},
}

// Validate checks cfg for semantic correctness and returns all validation errors
// found. An empty slice means the config is valid.
//
// Checks performed:
//   - version must be 1
//   - sensitive ports must be within 1-65535, carry a label, and appear once
//   - rule IDs must appear in availableRuleIDs
//   - enforcement fail_on_risk must be HIGH or MEDIUM if set
//
// All errors are collected before returning; Validate never stops at the first error.
func Validate(cfg *PolicyConfig, availableRuleIDs []string) []error {
	if cfg == nil {
		return []error{fmt.Errorf("policy config is nil")}
	}

	knownIDs := make(map[string]struct{}, len(availableRuleIDs))
	for _, id := range availableRuleIDs {
		knownIDs[id] = struct{}{}
	}

	var errs []error

	if cfg.Version != 1 {
		errs = append(errs, fmt.Errorf("version: unsupported value %d; must be 1", cfg.Version))
	}

	seenPorts := make(map[int]struct{}, len(cfg.SensitivePorts))
	for i, p := range cfg.SensitivePorts {
		if p.Port < 1 || p.Port > 65535 {
			errs = append(errs, fmt.Errorf("sensitive_ports[%d].port: %d out of range 1-65535", i, p.Port))
		}
		if strings.TrimSpace(p.Label) == "" {
			errs = append(errs, fmt.Errorf("sensitive_ports[%d].label: required", i))
		}
		if _, dup := seenPorts[p.Port]; dup {
			errs = append(errs, fmt.Errorf("sensitive_ports[%d].port: duplicate port %d", i, p.Port))
		}
		seenPorts[p.Port] = struct{}{}
	}

	for ruleID := range cfg.Rules {
		if _, ok := knownIDs[ruleID]; !ok {
			errs = append(errs, fmt.Errorf("rules.%s: unknown rule ID", ruleID))
		}
	}

	if r := cfg.Enforcement.FailOnRisk; r != "" {
		if _, ok := validRisks[strings.ToUpper(r)]; !ok {
			errs = append(errs, fmt.Errorf("enforcement.fail_on_risk: invalid value %q; valid values: HIGH, MEDIUM", r))
		}
	}

	return errs
}
