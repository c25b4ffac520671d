package policy

// DefaultPolicyFile is the policy file looked up in the working directory
// when no --policy flag is given.
const DefaultPolicyFile = "netexpose.yaml"

type PolicyConfig struct {
	Version        int                   `yaml:"version"`
	SensitivePorts []PortConfig          `yaml:"sensitive_ports"`
	Rules          map[string]RuleConfig `yaml:"rules"`
	Enforcement    EnforcementConfig     `yaml:"enforcement"`
}

// PortConfig is one ordered entry of the sensitive port table.
type PortConfig struct {
	Port  int    `yaml:"port"`
	Label string `yaml:"label"`
}

type RuleConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"`
}

// EnforcementConfig makes a scan fail once findings reach a risk level.
type EnforcementConfig struct {
	FailOnRisk string `yaml:"fail_on_risk,omitempty"`
}

// RuleEnabled reports whether ruleID should run. Rules are enabled unless the
// policy explicitly sets enabled: false. Safe to call on a nil config.
func (c *PolicyConfig) RuleEnabled(ruleID string) bool {
	if c == nil {
		return true
	}
	rc, ok := c.Rules[ruleID]
	if !ok || rc.Enabled == nil {
		return true
	}
	return *rc.Enabled
}
